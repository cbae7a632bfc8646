package dogreid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/dogreid/internal/db"
	dbValkey "github.com/kailas-cloud/dogreid/internal/db/valkey"
	"github.com/kailas-cloud/dogreid/internal/domain"
	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
	"github.com/kailas-cloud/dogreid/internal/imageprep"
	"github.com/kailas-cloud/dogreid/internal/repository/embcache"
	neighborrepo "github.com/kailas-cloud/dogreid/internal/repository/neighbor"
	onnxEmb "github.com/kailas-cloud/dogreid/internal/transport/onnx"
	healthuc "github.com/kailas-cloud/dogreid/internal/usecase/health"
	identifyuc "github.com/kailas-cloud/dogreid/internal/usecase/identify"
	matchuc "github.com/kailas-cloud/dogreid/internal/usecase/match"
	"github.com/kailas-cloud/dogreid/internal/vectorindex"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type matchUseCase interface {
	MatchK(ctx context.Context, vector []float32, topK int) (dommatch.Result, error)
	TopK() int
}

type identifyUseCase interface {
	Identify(ctx context.Context, image []byte) (dommatch.Result, error)
}

// Client is the dogreid SDK entry point. It is safe for concurrent use.
type Client struct {
	index       *vectorindex.Store
	matchSvc    matchUseCase
	identifySvc identifyUseCase
	healthSvc   healthUseCase
	closers     []func()
	obs         *observer
}

// New loads the index and wires the matcher.
// The provided context bounds the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	index, err := loadIndex(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{index: index, obs: obs}
	c.closers = append(c.closers, func() { _ = index.Close() })

	matchSvc := matchuc.New(neighborrepo.New(index, nil)).WithRecorder(obs)
	if cfg.topK != 0 {
		if cfg.topK < 0 {
			c.Close()
			return nil, fmt.Errorf("dogreid: %w", domain.ErrInvalidTopK)
		}
		matchSvc = matchSvc.WithTopK(cfg.topK)
	}
	if cfg.thresholdsSet {
		t := matchuc.Thresholds{
			HighScore:     cfg.highScore,
			MediumScore:   cfg.mediumScore,
			MediumMinHits: cfg.mediumMinHits,
		}
		if err := t.Validate(); err != nil {
			c.Close()
			return nil, fmt.Errorf("dogreid: %w", err)
		}
		matchSvc = matchSvc.WithThresholds(t)
	}
	c.matchSvc = matchSvc

	cache, err := c.connectCache(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	embedder, err := c.buildEmbedder(cfg, cache, index.Dimensions())
	if err != nil {
		c.Close()
		return nil, err
	}
	if embedder != nil {
		c.identifySvc = identifyuc.New(embedder, matchSvc, obs)
	}

	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	c.healthSvc = healthuc.New(index, cachePinger)

	return c, nil
}

func loadIndex(cfg *clientConfig) (*vectorindex.Store, error) {
	if cfg.vectors != nil {
		if len(cfg.vectors) == 0 {
			return nil, errors.New("dogreid: WithIndex needs at least one vector")
		}
		idx, err := vectorindex.NewFlat(len(cfg.vectors[0]), cfg.vectors)
		if err != nil {
			return nil, fmt.Errorf("dogreid: build index: %w", err)
		}
		meta := make([]vectorindex.Metadata, len(cfg.records))
		for i, r := range cfg.records {
			meta[i] = vectorindex.Metadata{PetID: r.PetID, OwnerID: r.OwnerID, URL: r.URL}
		}
		s, err := vectorindex.NewStore(idx, meta)
		if err != nil {
			return nil, fmt.Errorf("dogreid: %w", err)
		}
		return s, nil
	}

	if cfg.vectorsPath == "" || cfg.metadataPath == "" {
		return nil, errors.New("dogreid: index required (use WithIndexFiles, WithFAISSFiles or WithIndex)")
	}
	s, err := vectorindex.Load(vectorindex.Config{
		Type:         vectorindex.Type(cfg.indexType),
		VectorsPath:  cfg.vectorsPath,
		MetadataPath: cfg.metadataPath,
	})
	if err != nil {
		return nil, fmt.Errorf("dogreid: load index: %w", err)
	}
	return s, nil
}

func (c *Client) connectCache(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	if len(cfg.cacheAddrs) == 0 {
		return nil, nil
	}
	s, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("dogreid: create valkey store: %w", err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("dogreid: cache not ready: %w", err)
	}
	c.closers = append(c.closers, s.Close)
	return s, nil
}

// buildEmbedder returns nil when neither WithEmbedder nor WithONNXModel was given.
func (c *Client) buildEmbedder(cfg *clientConfig, cache db.Store, dimensions int) (domain.ImageEmbedder, error) {
	var base domain.ImageEmbedder
	switch {
	case cfg.embedder != nil:
		base = cfg.embedder
	case cfg.modelPath != "":
		e, err := onnxEmb.New(onnxEmb.Config{
			ModelPath:   cfg.modelPath,
			LibraryPath: cfg.ortPath,
			InputName:   "input",
			OutputName:  "embedding",
			ImageSize:   imageprep.DefaultSize,
			Dimensions:  dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("dogreid: load onnx model: %w", err)
		}
		c.closers = append(c.closers, func() { _ = e.Close() })
		base = e
	default:
		return nil, nil
	}

	if cache != nil {
		base = embcache.New(base, cache, cfg.cacheTTL, nil, nil)
	}
	return base, nil
}

// Close releases the index, model and cache connection. Safe to call twice.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Size returns the number of indexed photos.
func (c *Client) Size() int {
	if c.index == nil {
		return 0
	}
	return c.index.Size()
}

// Match identifies the pet closest to an embedding using the configured top-k.
func (c *Client) Match(ctx context.Context, vector []float32) (MatchResult, error) {
	return c.MatchK(ctx, vector, c.matchSvc.TopK())
}

// MatchK is Match with an explicit neighbor count.
func (c *Client) MatchK(ctx context.Context, vector []float32, topK int) (res MatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("match", start, err) }()

	r, err := c.matchSvc.MatchK(ctx, vector, topK)
	if err != nil {
		return MatchResult{}, fmt.Errorf("match: %w", err)
	}
	return resultFromDomain(r), nil
}

// MatchImage embeds a photo and matches it. Undecodable bytes yield
// StatusInvalidImage, not an error.
func (c *Client) MatchImage(ctx context.Context, image []byte) (res MatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("match_image", start, err) }()

	if c.identifySvc == nil {
		return MatchResult{}, fmt.Errorf(
			"dogreid: embedder not configured (use WithEmbedder or WithONNXModel): %w",
			domain.ErrEmbeddingUnavailable,
		)
	}
	r, err := c.identifySvc.Identify(ctx, image)
	if err != nil {
		return MatchResult{}, fmt.Errorf("match image: %w", err)
	}
	return resultFromDomain(r), nil
}
