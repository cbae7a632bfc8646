// Package embedding decorates image embedders with observability.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dogreid/internal/domain"
	"github.com/kailas-cloud/dogreid/internal/metrics"
)

// InstrumentedEmbedder wraps an ImageEmbedder with metrics, logging and a
// dimension check against the loaded index.
type InstrumentedEmbedder struct {
	inner      domain.ImageEmbedder
	model      string
	dimensions int
	logger     *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder. dimensions <= 0 disables the output check.
func NewInstrumentedEmbedder(inner domain.ImageEmbedder, dimensions int, logger *zap.Logger) *InstrumentedEmbedder {
	model := "unknown"
	if mi, ok := inner.(domain.ModelIdentifier); ok && mi.ModelID() != "" {
		model = mi.ModelID()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:      inner,
		model:      model,
		dimensions: dimensions,
		logger:     logger,
	}
}

// ModelID reports the wrapped model.
func (p *InstrumentedEmbedder) ModelID() string { return p.model }

// Embed delegates to the inner embedder and records the outcome.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, image []byte) ([]float32, error) {
	start := time.Now()

	vec, err := p.inner.Embed(ctx, image)

	duration := time.Since(start)
	metrics.EmbeddingRequestDuration.WithLabelValues(p.model).Observe(duration.Seconds())

	if err != nil {
		if errors.Is(err, domain.ErrInvalidImage) {
			metrics.EmbeddingRequestsTotal.WithLabelValues(p.model, "invalid_image").Inc()
			p.logger.Info("Rejected undecodable image",
				zap.String("model", p.model),
				zap.Int("bytes", len(image)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("embed: %w", err)
		}
		metrics.EmbeddingRequestsTotal.WithLabelValues(p.model, "error").Inc()
		p.logger.Error("Embedding request failed",
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("embed: %w", err)
	}

	if p.dimensions > 0 && len(vec) != p.dimensions {
		// The model disagrees with the index: a deployment fault, not a bad request.
		metrics.EmbeddingRequestsTotal.WithLabelValues(p.model, "error").Inc()
		p.logger.Error("Embedding has wrong dimensions",
			zap.String("model", p.model),
			zap.Int("expected", p.dimensions),
			zap.Int("got", len(vec)),
		)
		return nil, fmt.Errorf("model %s returned %d dimensions, index holds %d", p.model, len(vec), p.dimensions)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(p.model, "ok").Inc()
	p.logger.Debug("Embedding request completed",
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(vec)),
	)

	return vec, nil
}
