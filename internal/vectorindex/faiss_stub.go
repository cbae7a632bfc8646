//go:build !faiss || !cgo

package vectorindex

import (
	"context"
	"errors"
)

var errFAISSUnavailable = errors.New("FAISS not available: build with -tags=faiss and CGO_ENABLED=1")

// FAISSIndex is a placeholder when the binary is built without FAISS support.
type FAISSIndex struct{}

// ReadFAISS always fails without the faiss build tag.
func ReadFAISS(_ string) (*FAISSIndex, error) {
	return nil, errFAISSUnavailable
}

// Search always fails without the faiss build tag.
func (f *FAISSIndex) Search(_ context.Context, _ []float32, _ int) ([]Hit, error) {
	return nil, errFAISSUnavailable
}

// Size returns 0.
func (f *FAISSIndex) Size() int { return 0 }

// Dimensions returns 0.
func (f *FAISSIndex) Dimensions() int { return 0 }

// Close is a no-op.
func (f *FAISSIndex) Close() error { return nil }
