package extract

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// SignalExtractor seeds one candidate per sentence that clears a signal
// family's token threshold. Evidence is restricted to the seeding
// sentence. Runs first in the extractor order.
type SignalExtractor struct {
	families []SignalFamily
}

// NewSignalExtractor builds the extractor from a family table; a nil or
// empty table falls back to the defaults.
func NewSignalExtractor(families []SignalFamily) *SignalExtractor {
	if len(families) == 0 {
		families = DefaultSignalFamilies()
	}
	return &SignalExtractor{families: families}
}

// Name implements the extractor identity used in metadata and traces.
func (e *SignalExtractor) Name() string { return ExtractorSignal }

// Extract scans the section's sentences against the family tables.
// Sections under a timeline heading are left to the timeline-merge
// extractor so date bullets are merged instead of seeded one-by-one.
func (e *SignalExtractor) Extract(sec *note.Section, cov *CoverageSet, ids *IDGen, o Observer) []suggestion.Candidate {
	o = orNop(o)

	if timelineHeadingRegex.MatchString(sec.HeadingText) {
		o.Attempt(sec.SectionID, e.Name(), "skipped: timeline section")
		return nil
	}

	var out []suggestion.Candidate
	for _, s := range Sentences(sec) {
		if cov.Covered(s.Text) {
			o.Attempt(sec.SectionID, e.Name(), "sentence covered: "+suggestion.TruncateDisplay(s.Text, 40))
			continue
		}

		family, hits := e.bestFamily(s.Text)
		if family == nil {
			continue
		}

		cov.Claim(s.Text)
		span := suggestion.EvidenceSpan{StartLine: s.Line, EndLine: s.Line, Text: s.Text}
		conf := family.Confidence + 0.02*float64(hits-family.Threshold)
		if conf > family.Confidence+0.06 {
			conf = family.Confidence + 0.06
		}

		cand := newCandidate(ids, sec, family.Type, titleFromText(s.Text),
			signalPayload(family, s.Text), []suggestion.EvidenceSpan{span}, e.Name(), conf)
		out = append(out, cand)
		o.Attempt(sec.SectionID, e.Name(), fmt.Sprintf("seeded %s (%s, %d hits)", cand.SuggestionID, family.Name, hits))
	}
	return out
}

// bestFamily returns the family with the most token hits at or above
// its threshold; ties resolve to the earlier table entry.
func (e *SignalExtractor) bestFamily(sentence string) (*SignalFamily, int) {
	norm := sanitize.Normalize(sentence)

	var best *SignalFamily
	bestHits := 0
	for i := range e.families {
		f := &e.families[i]
		hits := countTokenHits(norm, f.Tokens)
		if hits >= f.Threshold && hits > bestHits {
			best = f
			bestHits = hits
		}
	}
	return best, bestHits
}

// countTokenHits counts whole-word token matches against normalized
// text. Multi-word tokens match as normalized substrings.
func countTokenHits(norm string, tokens []string) int {
	padded := " " + norm + " "
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(padded, " "+sanitize.Normalize(tok)+" ") {
			hits++
		}
	}
	return hits
}

func signalPayload(f *SignalFamily, sentence string) suggestion.Payload {
	switch f.Type {
	case suggestion.TypeRisk:
		return suggestion.RiskPayload{
			Category: f.Name,
			Specific: specificRiskRegex.MatchString(sentence),
		}
	case suggestion.TypeBug:
		return suggestion.BugPayload{Symptom: strings.TrimSpace(sentence)}
	default:
		return suggestion.UpdatePayload{TimelineEntries: []string{strings.TrimSpace(sentence)}}
	}
}
