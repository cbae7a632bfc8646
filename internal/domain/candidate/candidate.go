// Package candidate holds per-pet aggregates built from one search call.
package candidate

// MaxSampleURLs caps how many source images a candidate carries for display.
const MaxSampleURLs = 2

// Candidate aggregates every neighbor hit that belongs to one pet.
type Candidate struct {
	petID      int64
	bestScore  float64
	hits       int
	sampleURLs []string
}

// Reconstruct builds a candidate from already computed values.
func Reconstruct(petID int64, bestScore float64, hits int, sampleURLs []string) Candidate {
	return Candidate{petID: petID, bestScore: bestScore, hits: hits, sampleURLs: sampleURLs}
}

// PetID returns the grouping key.
func (c Candidate) PetID() int64 { return c.petID }

// BestScore returns the highest score among the pet's hits.
func (c Candidate) BestScore() float64 { return c.bestScore }

// Hits returns how many neighbor records belong to the pet.
func (c Candidate) Hits() int { return c.hits }

// SampleURLs returns up to MaxSampleURLs urls in first-seen order.
func (c Candidate) SampleURLs() []string {
	out := make([]string, len(c.sampleURLs))
	copy(out, c.sampleURLs)
	return out
}
