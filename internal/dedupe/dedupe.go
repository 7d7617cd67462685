// Package dedupe computes stable suggestion keys and collapses
// duplicate candidates that survived validation and scoring.
//
// The suggestion key is the external contract the persistence layer
// uses to keep apply/dismiss decisions stable across regenerations, so
// it must depend only on (note, section, type, normalized title).
package dedupe

import (
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Key computes the stable suggestion key. Title formatting differences
// that normalize away (case, punctuation, extra whitespace) produce the
// same key; any change to note, section, type, or normalized title
// produces a different one.
func Key(noteID, sectionID string, typ suggestion.Type, title string) string {
	return sanitize.KeyDigest(noteID, sectionID, string(typ), sanitize.Normalize(title))
}

// Collapse assigns keys and folds candidates sharing a key into one
// suggestion, merging any evidence spans the duplicate carried that the
// survivor did not. Input order is preserved; the first candidate with
// a key survives.
func Collapse(cands []suggestion.Candidate) []suggestion.Suggestion {
	byKey := make(map[string]int, len(cands))
	out := make([]suggestion.Suggestion, 0, len(cands))

	for _, c := range cands {
		c.SuggestionKey = Key(c.NoteID, c.SectionID, c.Type, c.Title)

		if i, dup := byKey[c.SuggestionKey]; dup {
			merged := mergeSpans(out[i].EvidenceSpans, c.EvidenceSpans)
			if len(merged) != len(out[i].EvidenceSpans) {
				out[i].EvidenceSpans = merged
				out[i].RebuildEvidenceDisplay()
			}
			continue
		}
		byKey[c.SuggestionKey] = len(out)
		out = append(out, c)
	}
	return out
}

// mergeSpans appends spans whose normalized text is not already present.
func mergeSpans(dst, src []suggestion.EvidenceSpan) []suggestion.EvidenceSpan {
	seen := make(map[string]struct{}, len(dst))
	for _, sp := range dst {
		seen[sanitize.Normalize(sp.Text)] = struct{}{}
	}
	for _, sp := range src {
		norm := sanitize.Normalize(sp.Text)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		dst = append(dst, sp)
	}
	return dst
}
