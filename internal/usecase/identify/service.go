// Package identify answers "which known dog is in this photo".
package identify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dogreid/internal/domain"
	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
	"github.com/kailas-cloud/dogreid/internal/logger"
)

// Service embeds an uploaded photo and matches it against the index.
type Service struct {
	embed    Embedder
	matcher  Matcher
	recorder Recorder
}

// New creates an identify service. recorder may be nil.
func New(embed Embedder, matcher Matcher, recorder Recorder) *Service {
	return &Service{embed: embed, matcher: matcher, recorder: recorder}
}

// Identify returns invalid_image for undecodable uploads; other embedding
// failures are errors.
func (s *Service) Identify(ctx context.Context, image []byte) (dommatch.Result, error) {
	vec, err := s.embed.Embed(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImage) {
			logger.FromContext(ctx).Info("image rejected", zap.Int("bytes", len(image)), zap.Error(err))
			if s.recorder != nil {
				s.recorder.ObserveMatch(string(dommatch.StatusInvalidImage), "", 0)
			}
			return dommatch.InvalidImage(), nil
		}
		return dommatch.Result{}, fmt.Errorf("embed image: %w", err)
	}

	res, err := s.matcher.Match(ctx, vec)
	if err != nil {
		return dommatch.Result{}, fmt.Errorf("match: %w", err)
	}
	return res, nil
}
