package domain

import "context"

// KeyPrefix is the namespace for every key this service writes to Valkey.
const KeyPrefix = "dogreid:"

// ImageEmbedder turns an encoded image into a fixed-length, L2-normalised vector.
type ImageEmbedder interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
}

// ModelIdentifier is implemented by embedders that can name the model they run.
// Cache keys include it so that swapping models never serves stale vectors.
type ModelIdentifier interface {
	ModelID() string
}
