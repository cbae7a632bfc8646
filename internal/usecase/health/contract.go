package health

import "context"

// IndexPinger checks that the vector index is loaded and searchable.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
