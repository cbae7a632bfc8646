package vectorindex

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/dogreid/internal/domain"
)

func testVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.6, 0.8, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
}

func TestFlat_SearchOrder(t *testing.T) {
	idx, err := NewFlat(3, testVectors())
	if err != nil {
		t.Fatalf("NewFlat: %v", err)
	}

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	// positions 0 and 4 tie at 1.0; the lower position comes first
	want := []int{0, 4, 2}
	for i, h := range hits {
		if h.Position != want[i] {
			t.Errorf("hit %d: position %d, want %d", i, h.Position, want[i])
		}
	}
	if hits[2].Score < 0.599 || hits[2].Score > 0.601 {
		t.Errorf("hit 2 score = %v, want ~0.6", hits[2].Score)
	}
}

func TestFlat_KLargerThanSize(t *testing.T) {
	idx, _ := NewFlat(3, testVectors())
	hits, err := idx.Search(context.Background(), []float32{0, 0, 1}, 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 5 {
		t.Fatalf("expected 5 hits, got %d", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i-1].Score < hits[i].Score {
			t.Fatalf("hits not sorted at %d", i)
		}
	}
}

func TestFlat_EmptyIndex(t *testing.T) {
	idx, _ := NewFlat(3, nil)
	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestFlat_DimensionMismatch(t *testing.T) {
	idx, _ := NewFlat(3, testVectors())
	_, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}

	if _, err := NewFlat(3, [][]float32{{1, 2}}); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("NewFlat: expected ErrVectorDimMismatch, got %v", err)
	}
	if _, err := NewFlat(0, nil); err == nil {
		t.Error("NewFlat: expected error for zero dimensions")
	}
}

func TestFlat_CancelledContext(t *testing.T) {
	idx, _ := NewFlat(3, testVectors())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := idx.Search(ctx, []float32{1, 0, 0}, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFlat_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dogs.idx")
	if err := WriteFlat(path, 3, testVectors()); err != nil {
		t.Fatalf("WriteFlat: %v", err)
	}

	idx, err := ReadFlat(path)
	if err != nil {
		t.Fatalf("ReadFlat: %v", err)
	}
	if idx.Size() != 5 || idx.Dimensions() != 3 {
		t.Fatalf("size=%d dim=%d, want 5/3", idx.Size(), idx.Dimensions())
	}

	hits, _ := idx.Search(context.Background(), []float32{0, 1, 0}, 1)
	if len(hits) != 1 || hits[0].Position != 1 {
		t.Errorf("expected position 1, got %+v", hits)
	}
}

func TestReadFlat_Truncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogs.idx")
	if err := WriteFlat(path, 3, testVectors()); err != nil {
		t.Fatalf("WriteFlat: %v", err)
	}
	if err := truncate(path, 8+12); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if _, err := ReadFlat(path); err == nil {
		t.Fatal("expected error for truncated file")
	}
}

func TestReadFlat_HeaderExceedsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogs.idx")
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:], 2048)
	binary.LittleEndian.PutUint32(header[4:], math.MaxUint32)
	if err := os.WriteFile(path, header, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := ReadFlat(path)
	if err == nil || !strings.Contains(err.Error(), "header declares") {
		t.Fatalf("expected size check error, got %v", err)
	}
}

func TestReadFlat_TrailingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogs.idx")
	if err := WriteFlat(path, 3, testVectors()); err != nil {
		t.Fatalf("WriteFlat: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, _ = f.Write([]byte{1, 2, 3, 4})
	_ = f.Close()

	if _, err := ReadFlat(path); err == nil {
		t.Fatal("expected error for trailing bytes")
	}
}

func TestReadFlat_Missing(t *testing.T) {
	if _, err := ReadFlat(filepath.Join(t.TempDir(), "nope.idx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFlat_ConcurrentSearch(t *testing.T) {
	idx, _ := NewFlat(3, testVectors())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := idx.Search(context.Background(), []float32{0, 0, 1}, 1)
			if err != nil || len(hits) != 1 || hits[0].Position != 3 {
				t.Errorf("unexpected result: %+v, %v", hits, err)
			}
		}()
	}
	wg.Wait()
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogs.idx")
	if err := WriteFlat(path, 3, testVectors()); err != nil {
		t.Fatalf("WriteFlat: %v", err)
	}

	if _, err := Open(TypeFlat, path, 3); err != nil {
		t.Errorf("Open flat: %v", err)
	}
	if _, err := Open("", path, 0); err != nil {
		t.Errorf("Open default: %v", err)
	}
	if _, err := Open(TypeFlat, path, 2048); err == nil {
		t.Error("expected dimension error")
	}
	if _, err := Open("hnsw", path, 3); err == nil {
		t.Error("expected unknown type error")
	}
}
