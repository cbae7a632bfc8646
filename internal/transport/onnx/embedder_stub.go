//go:build !cgo

package onnx

import (
	"context"
	"errors"

	"github.com/kailas-cloud/dogreid/internal/domain"
)

// Embedder is unavailable without cgo.
type Embedder struct{}

// New returns an error when built without cgo.
func New(cfg Config) (*Embedder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return nil, errors.New("onnx embedder requires cgo; build with CGO_ENABLED=1 and onnxruntime")
}

// Embed always fails.
func (*Embedder) Embed(context.Context, []byte) ([]float32, error) {
	return nil, domain.ErrEmbeddingUnavailable
}

// ModelID returns an empty identity.
func (*Embedder) ModelID() string { return "" }

// Dimensions returns zero.
func (*Embedder) Dimensions() int { return 0 }

// Close is a no-op.
func (*Embedder) Close() error { return nil }
