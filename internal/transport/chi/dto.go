package chi

import (
	"github.com/kailas-cloud/dogreid/internal/domain/candidate"
	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest           = "bad_request"
	codePayloadTooLarge      = "payload_too_large"
	codeInvalidTopK          = "invalid_top_k"
	codeVectorDimMismatch    = "vector_dim_mismatch"
	codeEmbeddingUnavailable = "embedding_unavailable"
	codeIndexUnavailable     = "index_unavailable"
	codeInternalError        = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// CandidateResponse is one pet in a match result.
type CandidateResponse struct {
	PetID      int64    `json:"pet_id"`
	BestScore  float64  `json:"best_score"`
	Hits       int      `json:"hits"`
	SampleURLs []string `json:"sample_urls"`
}

// SearchResponse mirrors a match result. Only status is set for no_match and invalid_image.
type SearchResponse struct {
	Status     string              `json:"status"`
	MatchLevel string              `json:"match_level,omitempty"`
	TopMatch   *CandidateResponse  `json:"top_match,omitempty"`
	Candidates []CandidateResponse `json:"candidates,omitempty"`
}

// VectorSearchRequest is the body of POST /api/v1/search/vector.
type VectorSearchRequest struct {
	Vector []float32 `json:"vector"`
	TopK   *int      `json:"top_k,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func candidateToResponse(c candidate.Candidate) CandidateResponse {
	urls := c.SampleURLs()
	if urls == nil {
		urls = []string{}
	}
	return CandidateResponse{
		PetID:      c.PetID(),
		BestScore:  c.BestScore(),
		Hits:       c.Hits(),
		SampleURLs: urls,
	}
}

func resultToResponse(r dommatch.Result) SearchResponse {
	resp := SearchResponse{Status: string(r.Status())}
	if r.Status() != dommatch.StatusOK {
		return resp
	}

	resp.MatchLevel = string(r.Level())
	cands := r.Candidates()
	resp.Candidates = make([]CandidateResponse, len(cands))
	for i, c := range cands {
		resp.Candidates[i] = candidateToResponse(c)
	}
	if top, ok := r.Top(); ok {
		t := candidateToResponse(top)
		resp.TopMatch = &t
	}
	return resp
}
