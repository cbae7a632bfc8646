// Package vectorindex loads the read-only photo index and answers nearest-neighbor queries.
package vectorindex

import (
	"context"
	"fmt"
)

// Index is a loaded, immutable vector index.
type Index interface {
	// Search returns at most k hits ordered by descending score.
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)
	Size() int
	Dimensions() int
	Close() error
}

// Hit is one search result: the vector's position in the index and its similarity score.
type Hit struct {
	Position int
	Score    float64
}

// Type selects the on-disk index format.
type Type string

const (
	// TypeFlat is the native little-endian float32 matrix, searched by brute-force inner product.
	TypeFlat Type = "flat"
	// TypeFAISS is a FAISS index file. Requires the faiss build tag and cgo.
	TypeFAISS Type = "faiss"
)

// Open reads an index of the given type from path. dim is checked when positive.
func Open(indexType Type, path string, dim int) (Index, error) {
	var (
		idx Index
		err error
	)
	switch indexType {
	case TypeFlat, "":
		idx, err = ReadFlat(path)
	case TypeFAISS:
		idx, err = ReadFAISS(path)
	default:
		return nil, fmt.Errorf("unknown index type %q (supported: flat, faiss)", indexType)
	}
	if err != nil {
		return nil, err
	}
	if dim > 0 && idx.Dimensions() != dim {
		_ = idx.Close()
		return nil, fmt.Errorf("index %s has %d dimensions, expected %d", path, idx.Dimensions(), dim)
	}
	return idx, nil
}
