package match

import (
	"fmt"

	"github.com/kailas-cloud/dogreid/internal/domain/candidate"
	dommatch "github.com/kailas-cloud/dogreid/internal/domain/match"
)

// Default confidence thresholds.
const (
	// DefaultHighScore is the best score at or above which a match is high confidence.
	DefaultHighScore = 0.80
	// DefaultMediumScore is the best score at or above which a match may be medium confidence.
	DefaultMediumScore = 0.72
	// DefaultMediumMinHits is the hit count a medium match needs.
	DefaultMediumMinHits = 2
)

// Thresholds tunes the confidence classifier.
type Thresholds struct {
	HighScore     float64
	MediumScore   float64
	MediumMinHits int
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighScore:     DefaultHighScore,
		MediumScore:   DefaultMediumScore,
		MediumMinHits: DefaultMediumMinHits,
	}
}

// Validate checks the thresholds are usable.
func (t Thresholds) Validate() error {
	if t.MediumScore > t.HighScore {
		return fmt.Errorf("medium score %.4f exceeds high score %.4f", t.MediumScore, t.HighScore)
	}
	if t.MediumMinHits < 1 {
		return fmt.Errorf("medium min hits must be at least 1, got %d", t.MediumMinHits)
	}
	return nil
}

// Classify maps the top candidate to a confidence tier.
// High wins on score alone; medium needs the score and enough hits; everything else is low.
func (t Thresholds) Classify(top candidate.Candidate) dommatch.Level {
	switch {
	case top.BestScore() >= t.HighScore:
		return dommatch.LevelHigh
	case top.BestScore() >= t.MediumScore && top.Hits() >= t.MediumMinHits:
		return dommatch.LevelMedium
	default:
		return dommatch.LevelLow
	}
}
