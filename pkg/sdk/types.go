package dogreid

import (
	"context"

	"github.com/kailas-cloud/dogreid/internal/domain/candidate"
	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
)

// Status of a match.
const (
	StatusOK           = "ok"
	StatusNoMatch      = "no_match"
	StatusInvalidImage = "invalid_image"
)

// Confidence levels of an ok match.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Embedder converts image bytes to an embedding.
// Return ErrInvalidImage for bytes that are not a decodable image.
type Embedder interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
}

// Record describes one indexed photo.
type Record struct {
	PetID   int64
	OwnerID *int64 // nil when unknown
	URL     string
}

// Candidate is one pet ranked by its best photo similarity.
type Candidate struct {
	PetID      int64
	BestScore  float64
	Hits       int
	SampleURLs []string
}

// MatchResult is the outcome of a query.
// Level, Top and Candidates are set only when Status is StatusOK.
type MatchResult struct {
	Status     string
	Level      string
	Top        *Candidate
	Candidates []Candidate
}

func candidateFromDomain(c candidate.Candidate) Candidate {
	return Candidate{
		PetID:      c.PetID(),
		BestScore:  c.BestScore(),
		Hits:       c.Hits(),
		SampleURLs: c.SampleURLs(),
	}
}

func resultFromDomain(r dommatch.Result) MatchResult {
	out := MatchResult{Status: string(r.Status())}
	if r.Status() != dommatch.StatusOK {
		return out
	}
	out.Level = string(r.Level())
	cands := r.Candidates()
	out.Candidates = make([]Candidate, len(cands))
	for i, c := range cands {
		out.Candidates[i] = candidateFromDomain(c)
	}
	if len(out.Candidates) > 0 {
		top := out.Candidates[0]
		out.Top = &top
	}
	return out
}
