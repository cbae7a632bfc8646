//go:build faiss && cgo

package vectorindex

/*
#cgo CFLAGS: -I/opt/homebrew/include -I/usr/local/include
#cgo LDFLAGS: -L/opt/homebrew/lib -L/usr/local/lib -lfaiss_c

#include <stdlib.h>
#include <faiss/c_api/Index_c.h>
#include <faiss/c_api/index_io_c.h>
#include <faiss/c_api/error_c.h>
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/kailas-cloud/dogreid/internal/domain"
)

// FAISSIndex serves searches from an index file written by FAISS (IndexFlatIP or any
// inner-product index). Searches share a read lock; only Close takes the write lock.
type FAISSIndex struct {
	index      *C.FaissIndex
	dimensions int
	ntotal     int
	mu         sync.RWMutex
}

// ReadFAISS loads a FAISS index file.
func ReadFAISS(path string) (*FAISSIndex, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var idx *C.FaissIndex
	if ret := C.faiss_read_index_fname(cPath, 0, &idx); ret != 0 {
		return nil, fmt.Errorf("read faiss index %s: %s", path, faissLastError())
	}

	return &FAISSIndex{
		index:      idx,
		dimensions: int(C.faiss_Index_d(idx)),
		ntotal:     int(C.faiss_Index_ntotal(idx)),
	}, nil
}

func faissLastError() string {
	cErr := C.faiss_get_last_error()
	if cErr == nil {
		return "unknown error"
	}
	return C.GoString(cErr)
}

// Search returns the top-k positions. FAISS pads missing results with label -1; those are dropped.
func (f *FAISSIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != f.dimensions {
		return nil, domain.NewDimensionMismatch(f.dimensions, len(query))
	}
	if k <= 0 || f.ntotal == 0 {
		return nil, nil
	}
	if k > f.ntotal {
		k = f.ntotal
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.index == nil {
		return nil, domain.ErrIndexUnavailable
	}

	distances := make([]float32, k)
	labels := make([]int64, k)

	ret := C.faiss_Index_search(
		f.index,
		1,
		(*C.float)(unsafe.Pointer(&query[0])),
		C.idx_t(k),
		(*C.float)(unsafe.Pointer(&distances[0])),
		(*C.idx_t)(unsafe.Pointer(&labels[0])),
	)
	if ret != 0 {
		return nil, fmt.Errorf("faiss search: %s", faissLastError())
	}

	hits := make([]Hit, 0, k)
	for i, label := range labels {
		if label < 0 {
			continue
		}
		hits = append(hits, Hit{Position: int(label), Score: float64(distances[i])})
	}
	return hits, nil
}

// Size returns the number of vectors in the index.
func (f *FAISSIndex) Size() int { return f.ntotal }

// Dimensions returns the vector length.
func (f *FAISSIndex) Dimensions() int { return f.dimensions }

// Close frees the native index.
func (f *FAISSIndex) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.index != nil {
		C.faiss_Index_free(f.index)
		f.index = nil
	}
	return nil
}
