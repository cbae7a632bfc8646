// Package match holds the outcome of identifying a pet from one query.
package match

import "github.com/kailas-cloud/dogreid/internal/domain/candidate"

// Status is the top-level outcome of a query.
type Status string

const (
	// StatusOK means at least one candidate was found.
	StatusOK Status = "ok"
	// StatusNoMatch means the search produced no candidates.
	StatusNoMatch Status = "no_match"
	// StatusInvalidImage means the upload could not be decoded.
	StatusInvalidImage Status = "invalid_image"
)

// Level is the confidence tier of the top candidate.
type Level string

const (
	// LevelHigh is a confident identification.
	LevelHigh Level = "high"
	// LevelMedium is a plausible identification backed by several hits.
	LevelMedium Level = "medium"
	// LevelLow covers every other case.
	LevelLow Level = "low"
)

// Result is the pipeline output. Level, Top and Candidates are set only when Status is StatusOK.
type Result struct {
	status     Status
	level      Level
	candidates []candidate.Candidate
}

// OK builds a successful result. candidates must be non-empty and ranked.
func OK(level Level, candidates []candidate.Candidate) Result {
	return Result{status: StatusOK, level: level, candidates: candidates}
}

// NoMatch builds an empty result.
func NoMatch() Result {
	return Result{status: StatusNoMatch}
}

// InvalidImage builds the result returned when the upload is not a decodable image.
func InvalidImage() Result {
	return Result{status: StatusInvalidImage}
}

// Status returns the outcome.
func (r Result) Status() Status { return r.status }

// Level returns the confidence tier (empty unless StatusOK).
func (r Result) Level() Level { return r.level }

// Top returns the highest-ranked candidate. ok is false unless StatusOK.
func (r Result) Top() (candidate.Candidate, bool) {
	if r.status != StatusOK || len(r.candidates) == 0 {
		return candidate.Candidate{}, false
	}
	return r.candidates[0], true
}

// Candidates returns the full ranked candidate list (nil unless StatusOK).
func (r Result) Candidates() []candidate.Candidate {
	return r.candidates
}
