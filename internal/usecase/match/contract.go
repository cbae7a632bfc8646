package match

import (
	"context"

	"github.com/kailas-cloud/dogreid/internal/domain/neighbor"
)

// NeighborQuerier runs one nearest-neighbor search against the loaded index.
type NeighborQuerier interface {
	Query(ctx context.Context, vector []float32, topK int) ([]neighbor.Record, error)
}

// Recorder observes pipeline outcomes. Implemented by the metrics layer; may be nil.
type Recorder interface {
	ObserveMatch(status, level string, candidates int)
}
