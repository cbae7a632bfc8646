package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dogreid/internal/domain"
	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
	"github.com/kailas-cloud/dogreid/internal/logger"
)

// DefaultTopK is the number of neighbors fetched per query.
const DefaultTopK = 10

// Service runs the search pipeline: neighbor query, aggregation by pet, classification.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	neighbors  NeighborQuerier
	thresholds Thresholds
	topK       int
	recorder   Recorder
}

// New creates a pipeline with default top-k and thresholds.
func New(neighbors NeighborQuerier) *Service {
	return &Service{
		neighbors:  neighbors,
		thresholds: DefaultThresholds(),
		topK:       DefaultTopK,
	}
}

// WithTopK overrides the neighbor count.
func (s *Service) WithTopK(topK int) *Service {
	if topK > 0 {
		s.topK = topK
	}
	return s
}

// WithThresholds overrides the classifier thresholds.
func (s *Service) WithThresholds(t Thresholds) *Service {
	s.thresholds = t
	return s
}

// WithRecorder attaches an outcome recorder.
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// TopK returns the configured neighbor count.
func (s *Service) TopK() int { return s.topK }

// Match identifies the pet closest to vector using the configured top-k.
func (s *Service) Match(ctx context.Context, vector []float32) (dommatch.Result, error) {
	return s.MatchK(ctx, vector, s.topK)
}

// MatchK identifies the pet closest to vector using topK neighbors.
func (s *Service) MatchK(ctx context.Context, vector []float32, topK int) (dommatch.Result, error) {
	if topK < 1 {
		return dommatch.Result{}, domain.ErrInvalidTopK
	}

	records, err := s.neighbors.Query(ctx, vector, topK)
	if err != nil {
		return dommatch.Result{}, fmt.Errorf("query neighbors: %w", err)
	}

	candidates := Aggregate(records)
	if len(candidates) == 0 {
		logger.FromContext(ctx).Debug("No candidates found", zap.Int("top_k", topK))
		s.record(dommatch.NoMatch())
		return dommatch.NoMatch(), nil
	}

	level := s.thresholds.Classify(candidates[0])
	res := dommatch.OK(level, candidates)

	logger.FromContext(ctx).Debug("Match classified",
		zap.Int64("pet_id", candidates[0].PetID()),
		zap.Float64("best_score", candidates[0].BestScore()),
		zap.Int("hits", candidates[0].Hits()),
		zap.String("level", string(level)),
		zap.Int("candidates", len(candidates)),
	)
	s.record(res)
	return res, nil
}

func (s *Service) record(r dommatch.Result) {
	if s.recorder != nil {
		s.recorder.ObserveMatch(string(r.Status()), string(r.Level()), len(r.Candidates()))
	}
}
