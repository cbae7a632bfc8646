package vectorindex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/dogreid/internal/domain"
)

// Config locates the index and metadata files.
type Config struct {
	Type         Type
	VectorsPath  string
	MetadataPath string
	Dimensions   int
}

// Store pairs an index with its metadata. Both are read-only after Load.
type Store struct {
	index Index
	meta  []Metadata
}

// Load opens the index and metadata and verifies they describe the same number of photos.
// A mismatch is returned as domain.ErrIndexMetadataMismatch; callers must refuse to serve.
func Load(cfg Config) (*Store, error) {
	idx, err := Open(cfg.Type, cfg.VectorsPath, cfg.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	meta, err := ReadMetadata(cfg.MetadataPath)
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("open metadata: %w", err)
	}

	s, err := NewStore(idx, meta)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}
	return s, nil
}

// NewStore pairs an already loaded index with metadata, enforcing equal counts.
func NewStore(idx Index, meta []Metadata) (*Store, error) {
	if idx.Size() != len(meta) {
		return nil, domain.NewMismatch(idx.Size(), len(meta))
	}
	return &Store{index: idx, meta: meta}, nil
}

// Search runs a nearest-neighbor query against the index.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	hits, err := s.index.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	return hits, nil
}

// Metadata returns the record stored at position.
func (s *Store) Metadata(position int) (Metadata, bool) {
	if position < 0 || position >= len(s.meta) {
		return Metadata{}, false
	}
	return s.meta[position], true
}

// Size returns the number of indexed photos.
func (s *Store) Size() int { return len(s.meta) }

// Dimensions returns the vector length the index expects.
func (s *Store) Dimensions() int { return s.index.Dimensions() }

// Ping reports whether the store can serve searches.
func (s *Store) Ping(_ context.Context) error {
	if s == nil || s.index == nil {
		return domain.ErrIndexUnavailable
	}
	return nil
}

// Close releases the index.
func (s *Store) Close() error {
	if s.index == nil {
		return nil
	}
	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}
