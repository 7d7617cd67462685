package extract

import (
	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Extractor is one extraction pass over an actionable section.
type Extractor interface {
	// Name identifies the extractor in candidate metadata and traces.
	Name() string

	// Extract emits zero or more candidates for the section, claiming
	// evidence text in cov so later extractors skip it.
	Extract(sec *note.Section, cov *CoverageSet, ids *IDGen, o Observer) []suggestion.Candidate
}

// DefaultExtractors returns the extractors in their fixed, significant
// order: signal-seeded, semantic idea, timeline merge. The shared
// coverage set makes this order part of the engine's behavior contract.
func DefaultExtractors() []Extractor {
	return []Extractor{
		NewSignalExtractor(nil),
		NewIdeaExtractor(),
		NewTimelineExtractor(),
	}
}
