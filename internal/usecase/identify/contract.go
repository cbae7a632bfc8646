package identify

import (
	"context"

	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
)

// Embedder turns image bytes into a query vector.
type Embedder interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
}

// Matcher runs the search pipeline over a query vector.
type Matcher interface {
	Match(ctx context.Context, vector []float32) (dommatch.Result, error)
}

// Recorder observes outcomes the matcher never sees. May be nil.
type Recorder interface {
	ObserveMatch(status, level string, candidates int)
}
