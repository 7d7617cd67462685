// Package score computes the composite confidence for candidates and
// prunes those below the configured floors.
package score

import (
	"math"

	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Composite weights. They sum to 1 so the overall score stays in [0,1].
const (
	weightSectionActionability = 0.35
	weightTypeChoice           = 0.30
	weightSynthesis            = 0.35
)

// Config holds the two survival thresholds.
type Config struct {
	// TSectionMin is the section-level actionability floor.
	TSectionMin float64
	// TOverallMin is the candidate-level composite floor.
	TOverallMin float64
}

// DefaultConfig returns the default scoring thresholds.
func DefaultConfig() Config {
	return Config{TSectionMin: 0.4, TOverallMin: 0.55}
}

// Overall computes the deterministic composite from the per-candidate
// breakdown, rounded to four decimals so serialized results compare
// bit-for-bit across runs.
func Overall(s suggestion.Scores) float64 {
	v := weightSectionActionability*s.SectionActionability +
		weightTypeChoice*s.TypeChoiceConfidence +
		weightSynthesis*s.SynthesisConfidence
	return math.Round(v*10000) / 10000
}

// Apply fills in the overall score and returns a drop when the
// candidate falls below either threshold.
func Apply(c *suggestion.Candidate, cfg Config) *suggestion.Drop {
	c.Scores.Overall = Overall(c.Scores)

	if c.Scores.SectionActionability < cfg.TSectionMin {
		return &suggestion.Drop{
			Stage:  suggestion.StageScoring,
			Reason: suggestion.ReasonLowRelevance,
			Detail: "section actionability below floor",
		}
	}
	if c.Scores.Overall < cfg.TOverallMin {
		return &suggestion.Drop{
			Stage:  suggestion.StageScoring,
			Reason: suggestion.ReasonLowRelevance,
			Detail: "overall score below floor",
		}
	}
	return nil
}
