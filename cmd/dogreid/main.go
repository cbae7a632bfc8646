package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dogreid/internal/config"
	dbValkey "github.com/kailas-cloud/dogreid/internal/db/valkey"
	"github.com/kailas-cloud/dogreid/internal/domain"
	logpkg "github.com/kailas-cloud/dogreid/internal/logger"
	"github.com/kailas-cloud/dogreid/internal/metrics"
	"github.com/kailas-cloud/dogreid/internal/repository/embcache"
	neighborrepo "github.com/kailas-cloud/dogreid/internal/repository/neighbor"
	chiTransport "github.com/kailas-cloud/dogreid/internal/transport/chi"
	onnxEmb "github.com/kailas-cloud/dogreid/internal/transport/onnx"
	embeddinguc "github.com/kailas-cloud/dogreid/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/dogreid/internal/usecase/health"
	identifyuc "github.com/kailas-cloud/dogreid/internal/usecase/identify"
	matchuc "github.com/kailas-cloud/dogreid/internal/usecase/match"
	"github.com/kailas-cloud/dogreid/internal/vectorindex"
	"github.com/kailas-cloud/dogreid/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dogreid API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_type", cfg.Index.Type),
		zap.String("vectors_path", cfg.Index.VectorsPath),
		zap.String("metadata_path", cfg.Index.MetadataPath),
	)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Index and metadata must describe the same photos; refuse to serve otherwise.
	index, err := vectorindex.Load(vectorindex.Config{
		Type:         vectorindex.Type(cfg.Index.Type),
		VectorsPath:  cfg.Index.VectorsPath,
		MetadataPath: cfg.Index.MetadataPath,
		Dimensions:   cfg.Index.Dimensions,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIndexMetadataMismatch) {
			logger.Fatal("Index and metadata disagree", zap.Error(err))
		}
		logger.Fatal("Failed to load index", zap.Error(err))
	}
	defer func() { _ = index.Close() }()
	logger.Info("Index loaded",
		zap.Int("vectors", index.Size()),
		zap.Int("dimensions", index.Dimensions()),
	)

	thresholds := matchuc.Thresholds{
		HighScore:     cfg.Match.HighScore,
		MediumScore:   cfg.Match.MediumScore,
		MediumMinHits: cfg.Match.MediumMinHits,
	}
	if err := thresholds.Validate(); err != nil {
		logger.Fatal("Invalid match thresholds", zap.Error(err))
	}

	recorder := metrics.MatchRecorder{}
	neighbors := neighborrepo.New(index, metrics.IndexSearchDuration)
	matchSvc := matchuc.New(neighbors).
		WithTopK(cfg.Search.TopK).
		WithThresholds(thresholds).
		WithRecorder(recorder)

	// Optional embedding cache
	var cachePinger healthuc.CachePinger
	var cache *dbValkey.Store
	if cfg.Cache.Enabled {
		cache, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()

		ctx := context.Background()
		if err := cache.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cachePinger = cache
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Image identification needs a model; without one only vector search is served.
	var identify chiTransport.Identifier
	if cfg.Embedding.ModelPath != "" {
		if cfg.Embedding.Dimensions != index.Dimensions() {
			logger.Fatal("Embedding and index dimensions differ",
				zap.Int("embedding", cfg.Embedding.Dimensions),
				zap.Int("index", index.Dimensions()),
			)
		}
		base, err := onnxEmb.New(onnxEmb.Config{
			ModelPath:   cfg.Embedding.ModelPath,
			LibraryPath: cfg.Embedding.ORTLibraryPath,
			InputName:   cfg.Embedding.InputName,
			OutputName:  cfg.Embedding.OutputName,
			ImageSize:   cfg.Embedding.ImageSize,
			Dimensions:  cfg.Embedding.Dimensions,
		})
		if err != nil {
			logger.Fatal("Failed to load embedding model", zap.Error(err))
		}
		defer func() { _ = base.Close() }()

		embedder := buildEmbedder(base, cache, time.Duration(cfg.Cache.TTLSec)*time.Second, index.Dimensions(), logger)
		identify = identifyuc.New(embedder, matchSvc, recorder)
		logger.Info("Embedding model loaded",
			zap.String("model", base.ModelID()),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Warn("No embedding model configured, image search disabled")
	}

	healthSvc := healthuc.New(index, cachePinger)
	server := chiTransport.NewServer(identify, matchSvc, healthSvc, logger).
		WithMaxUploadBytes(cfg.HTTP.MaxUploadMB << 20)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: ONNX -> Cached -> Instrumented.
func buildEmbedder(
	base domain.ImageEmbedder,
	cache *dbValkey.Store,
	ttl time.Duration,
	dimensions int,
	logger *zap.Logger,
) domain.ImageEmbedder {
	var embedder domain.ImageEmbedder = base
	if cache != nil {
		embedder = embcache.New(base, cache, ttl, metrics.EmbeddingCacheTotal, logger)
	}
	return embeddinguc.NewInstrumentedEmbedder(embedder, dimensions, logger)
}
