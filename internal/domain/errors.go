package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexMetadataMismatch signals that the vector index and its metadata disagree on size.
	ErrIndexMetadataMismatch = errors.New("index and metadata count mismatch")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidTopK signals a non-positive neighbor count.
	ErrInvalidTopK = errors.New("top_k must be at least 1")
	// ErrInvalidImage signals an upload that could not be decoded as an image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrEmbeddingUnavailable signals that no image embedder is configured or it failed to run.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrIndexUnavailable signals that the vector index is not loaded.
	ErrIndexUnavailable = errors.New("index unavailable")
)

// MismatchError wraps ErrIndexMetadataMismatch with both counts.
type MismatchError struct {
	Vectors  int
	Metadata int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %d vectors, %d metadata records",
		ErrIndexMetadataMismatch.Error(), e.Vectors, e.Metadata)
}

func (e *MismatchError) Unwrap() error { return ErrIndexMetadataMismatch }

// NewMismatch creates an index/metadata mismatch error.
func NewMismatch(vectors, metadata int) error {
	return &MismatchError{Vectors: vectors, Metadata: metadata}
}

// DimensionError wraps ErrVectorDimMismatch with the expected and actual sizes.
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrVectorDimMismatch.Error(), e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error { return ErrVectorDimMismatch }

// NewDimensionMismatch creates a vector dimension error.
func NewDimensionMismatch(expected, got int) error {
	return &DimensionError{Expected: expected, Got: got}
}
