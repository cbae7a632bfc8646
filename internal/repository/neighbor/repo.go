// Package neighbor resolves raw index hits into neighbor records.
package neighbor

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/dogreid/internal/domain"
	domneighbor "github.com/kailas-cloud/dogreid/internal/domain/neighbor"
	"github.com/kailas-cloud/dogreid/internal/vectorindex"
)

// store is the consumer interface over the loaded index (ISP).
type store interface {
	Search(ctx context.Context, query []float32, k int) ([]vectorindex.Hit, error)
	Metadata(position int) (vectorindex.Metadata, bool)
}

// Repo implements usecase/match.NeighborQuerier.
type Repo struct {
	store    store
	duration prometheus.Observer
}

// New creates a neighbor repository. duration may be nil.
func New(s store, duration prometheus.Observer) *Repo {
	return &Repo{store: s, duration: duration}
}

// Query runs one search and returns the hits in index order, resolved against metadata.
func (r *Repo) Query(ctx context.Context, vector []float32, topK int) ([]domneighbor.Record, error) {
	if topK < 1 {
		return nil, domain.ErrInvalidTopK
	}

	start := time.Now()
	hits, err := r.store.Search(ctx, vector, topK)
	if r.duration != nil {
		r.duration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	records := make([]domneighbor.Record, 0, len(hits))
	for _, h := range hits {
		if h.Position < 0 {
			continue
		}
		m, ok := r.store.Metadata(h.Position)
		if !ok {
			return nil, fmt.Errorf("no metadata for index position %d", h.Position)
		}
		records = append(records, toRecord(h.Score, m))
	}
	return records, nil
}

func toRecord(score float64, m vectorindex.Metadata) domneighbor.Record {
	if m.OwnerID == nil {
		return domneighbor.NewWithoutOwner(score, m.PetID, m.URL)
	}
	return domneighbor.New(score, m.PetID, *m.OwnerID, m.URL)
}
