package vectorindex

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/kailas-cloud/dogreid/internal/domain"
)

// FlatIndex holds every vector in memory and scores queries by inner product.
// For L2-normalised vectors the inner product equals cosine similarity.
// It is never mutated after construction, so concurrent searches need no locking.
type FlatIndex struct {
	dimensions int
	data       []float32 // row-major, len = n * dimensions
	n          int
}

// NewFlat builds an index from in-memory vectors. Vectors are copied.
func NewFlat(dimensions int, vectors [][]float32) (*FlatIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	data := make([]float32, 0, len(vectors)*dimensions)
	for i, v := range vectors {
		if len(v) != dimensions {
			return nil, fmt.Errorf("vector %d: %w", i, domain.NewDimensionMismatch(dimensions, len(v)))
		}
		data = append(data, v...)
	}
	return &FlatIndex{dimensions: dimensions, data: data, n: len(vectors)}, nil
}

// flatHeaderSize is the dimensions and count fields.
const flatHeaderSize = 8

// ReadFlat loads an index written by WriteFlat.
// Format: uint32 dimensions, uint32 count, then count*dimensions float32, all little-endian.
func ReadFlat(path string) (*FlatIndex, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var dim, n uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	if dim == 0 {
		return nil, fmt.Errorf("read dimensions: zero")
	}
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}

	// The header is untrusted until the file is large enough to back it.
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat index file: %w", err)
	}
	want := flatHeaderSize + int64(n)*int64(dim)*4
	if st.Size() != want {
		return nil, fmt.Errorf("index file is %d bytes, header declares %d vectors of %d dimensions (%d bytes)",
			st.Size(), n, dim, want)
	}

	data := make([]float32, int(n)*int(dim))
	buf := make([]byte, int(dim)*4)
	for i := 0; i < int(n); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		row := data[i*int(dim) : (i+1)*int(dim)]
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
	}

	return &FlatIndex{dimensions: int(dim), data: data, n: int(n)}, nil
}

// WriteFlat persists vectors in the format read by ReadFlat. Used by fixtures and offline tooling.
func WriteFlat(path string, dimensions int, vectors [][]float32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, uint32(dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	buf := make([]byte, dimensions*4)
	for i, v := range vectors {
		if len(v) != dimensions {
			return fmt.Errorf("vector %d: %w", i, domain.NewDimensionMismatch(dimensions, len(v)))
		}
		for j, x := range v {
			binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(x))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write vector %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush index file: %w", err)
	}
	return nil
}

// Search returns the top-k positions by inner product. Equal scores keep the lower position first.
func (x *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != x.dimensions {
		return nil, domain.NewDimensionMismatch(x.dimensions, len(query))
	}
	if k <= 0 || x.n == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, x.n)
	for i := 0; i < x.n; i++ {
		row := x.data[i*x.dimensions : (i+1)*x.dimensions]
		var dot float64
		for j, q := range query {
			dot += float64(q * row[j])
		}
		hits[i] = Hit{Position: i, Score: dot}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Size returns the number of stored vectors.
func (x *FlatIndex) Size() int { return x.n }

// Dimensions returns the vector length.
func (x *FlatIndex) Dimensions() int { return x.dimensions }

// Close is a no-op.
func (x *FlatIndex) Close() error { return nil }
