// Package aggregate enforces the per-note suggestion cap and computes
// the run invariant flags.
package aggregate

import (
	"sort"

	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Invariants records the aggregation-stage guarantees of a run.
type Invariants struct {
	// MaxRespected is true when the pre-trim suggestion count already
	// satisfied the cap.
	MaxRespected bool `json:"max_respected"`
	// TrimmedToMax is true when the list had to be trimmed to the cap.
	TrimmedToMax bool `json:"trimmed_to_max"`
	// AggregationValid is false only when candidates were emitted but
	// every one of them was lost before aggregation — a silent total
	// loss the engine treats as a defect signal.
	AggregationValid bool `json:"aggregation_valid"`
}

// Cap applies maxPerNote (0 = uncapped) to the surviving suggestions.
// Trim order is deterministic: overall score descending, suggestion ID
// ascending as the stable tie-break. emittedCount is the pre-validation
// candidate count and feeds the AggregationValid invariant.
func Cap(survivors []suggestion.Suggestion, maxPerNote, emittedCount int) ([]suggestion.Suggestion, Invariants) {
	inv := Invariants{
		MaxRespected:     true,
		AggregationValid: true,
	}

	if emittedCount > 0 && len(survivors) == 0 {
		inv.AggregationValid = false
	}

	if maxPerNote <= 0 || len(survivors) <= maxPerNote {
		return survivors, inv
	}

	sorted := make([]suggestion.Suggestion, len(survivors))
	copy(sorted, survivors)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Scores.Overall != sorted[j].Scores.Overall {
			return sorted[i].Scores.Overall > sorted[j].Scores.Overall
		}
		return sorted[i].SuggestionID < sorted[j].SuggestionID
	})

	inv.MaxRespected = false
	inv.TrimmedToMax = true
	return sorted[:maxPerNote], inv
}
