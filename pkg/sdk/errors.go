package dogreid

import "github.com/kailas-cloud/dogreid/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexMetadataMismatch = domain.ErrIndexMetadataMismatch
	ErrVectorDimMismatch     = domain.ErrVectorDimMismatch
	ErrInvalidTopK           = domain.ErrInvalidTopK
	ErrInvalidImage          = domain.ErrInvalidImage
	ErrEmbeddingUnavailable  = domain.ErrEmbeddingUnavailable
	ErrIndexUnavailable      = domain.ErrIndexUnavailable
)
