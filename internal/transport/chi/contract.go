package chi

import (
	"context"

	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
	healthuc "github.com/kailas-cloud/dogreid/internal/usecase/health"
)

// Identifier matches an uploaded photo.
type Identifier interface {
	Identify(ctx context.Context, image []byte) (dommatch.Result, error)
}

// Matcher matches a caller-supplied vector.
type Matcher interface {
	MatchK(ctx context.Context, vector []float32, topK int) (dommatch.Result, error)
	TopK() int
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
