package dogreid

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	indexType    string // "flat" or "faiss"
	vectorsPath  string
	metadataPath string

	vectors [][]float32
	records []Record

	topK          int
	highScore     float64
	mediumScore   float64
	mediumMinHits int
	thresholdsSet bool

	embedder  Embedder
	modelPath string
	ortPath   string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithIndexFiles loads a flat vector file and its parquet metadata.
func WithIndexFiles(vectorsPath, metadataPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexType = "flat"
		c.vectorsPath = vectorsPath
		c.metadataPath = metadataPath
	})
}

// WithFAISSFiles loads a FAISS index file and its parquet metadata.
// Requires a binary built with the faiss tag and cgo.
func WithFAISSFiles(indexPath, metadataPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexType = "faiss"
		c.vectorsPath = indexPath
		c.metadataPath = metadataPath
	})
}

// WithIndex serves vectors already in memory; records[i] describes vectors[i].
func WithIndex(vectors [][]float32, records []Record) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectors = vectors
		c.records = records
	})
}

// WithTopK sets how many neighbors each query fetches. Default: 10.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithThresholds overrides the confidence tiers. Defaults: 0.80, 0.72, 2.
func WithThresholds(high, medium float64, mediumMinHits int) Option {
	return optionFunc(func(c *clientConfig) {
		c.highScore = high
		c.mediumScore = medium
		c.mediumMinHits = mediumMinHits
		c.thresholdsSet = true
	})
}

// WithEmbedder sets the image embedder used by MatchImage.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithONNXModel loads a ResNet-style ONNX model for MatchImage.
// The model must take a 1x3x224x224 "input" and emit an "embedding" of the index dimension.
func WithONNXModel(modelPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.modelPath = modelPath
	})
}

// WithONNXRuntimeLibrary points at the onnxruntime shared library.
func WithONNXRuntimeLibrary(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.ortPath = path
	})
}

// WithValkeyCache caches image embeddings in Valkey for ttl.
func WithValkeyCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
