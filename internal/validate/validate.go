// Package validate implements the candidate validator chain: structural
// (V1), semantic (V2), and evidence-grounding (V3) checks.
//
// A validator failure drops the candidate with a typed reason; it is
// never surfaced to the caller as an error.
package validate

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

const (
	// minTitleChars is the shortest title V2 accepts.
	minTitleChars = 4

	// groundingPrefixChars is how much of a long span must be found in
	// the section text. Checking a normalized prefix keeps grounding
	// robust against trailing truncation in long spans.
	groundingPrefixChars = 50
)

var (
	// bannedTitleRegex rejects generic review-style fallback titles.
	// No suggestion title may ever match this.
	bannedTitleRegex = regexp.MustCompile(`(?i)^review:`)

	// fallbackIDMarker must never appear in a suggestion ID.
	fallbackIDMarker = "fallback"
)

// Config holds validator thresholds.
type Config struct {
	// MinEvidenceChars is the minimum total evidence length a
	// candidate must carry.
	MinEvidenceChars int
}

// DefaultConfig returns the default validator thresholds.
func DefaultConfig() Config {
	return Config{MinEvidenceChars: 10}
}

// Chain runs V1, V2, and V3 in order and returns the first failure, or
// nil when the candidate passes all three.
func Chain(c *suggestion.Candidate, sec *note.Section, cfg Config) *suggestion.Drop {
	if d := Structural(c); d != nil {
		return d
	}
	if d := Semantic(c); d != nil {
		return d
	}
	return Grounding(c, sec, cfg)
}

// Structural is V1: required fields present and the type recognized.
func Structural(c *suggestion.Candidate) *suggestion.Drop {
	switch {
	case c.SuggestionID == "":
		return drop(suggestion.ReasonMissingField, "suggestion_id")
	case c.NoteID == "":
		return drop(suggestion.ReasonMissingField, "note_id")
	case c.SectionID == "":
		return drop(suggestion.ReasonMissingField, "section_id")
	case c.Title == "":
		return drop(suggestion.ReasonMissingField, "title")
	case c.Payload == nil:
		return drop(suggestion.ReasonMissingField, "payload")
	case len(c.EvidenceSpans) == 0:
		return drop(suggestion.ReasonMissingField, "evidence_spans")
	case !c.Type.Valid():
		return drop(suggestion.ReasonUnknownType, string(c.Type))
	case c.Payload.PayloadType() != c.Type:
		return drop(suggestion.ReasonUnknownType, "payload type mismatch")
	}
	return nil
}

// Semantic is V2: the title must be non-trivial, must not match the
// banned generic pattern, and the ID must not be tagged as a fallback.
func Semantic(c *suggestion.Candidate) *suggestion.Drop {
	if len(sanitize.Normalize(c.Title)) < minTitleChars {
		return drop(suggestion.ReasonTrivialTitle, c.Title)
	}
	if bannedTitleRegex.MatchString(c.Title) {
		return drop(suggestion.ReasonBannedTitle, c.Title)
	}
	if strings.Contains(strings.ToLower(c.SuggestionID), fallbackIDMarker) {
		return drop(suggestion.ReasonGenericFallback, c.SuggestionID)
	}
	return nil
}

// Grounding is V3: every evidence span's normalized text — or, for
// long spans, its first groundingPrefixChars normalized characters —
// must be found inside the normalized section text. It also enforces
// the minimum evidence length.
func Grounding(c *suggestion.Candidate, sec *note.Section, cfg Config) *suggestion.Drop {
	sectionNorm := sanitize.Normalize(sec.RawText)

	totalChars := 0
	for _, sp := range c.EvidenceSpans {
		spanNorm := sanitize.Normalize(sp.Text)
		totalChars += len(spanNorm)

		probe := spanNorm
		if len(probe) > groundingPrefixChars {
			probe = probe[:groundingPrefixChars]
		}
		if probe == "" || !strings.Contains(sectionNorm, probe) {
			return drop(suggestion.ReasonUngroundedEvidence, truncateDetail(sp.Text))
		}
	}

	if totalChars < cfg.MinEvidenceChars {
		return drop(suggestion.ReasonInsufficientEvidence, "")
	}
	return nil
}

func drop(reason suggestion.DropReason, detail string) *suggestion.Drop {
	return &suggestion.Drop{
		Stage:  suggestion.StageValidation,
		Reason: reason,
		Detail: detail,
	}
}

func truncateDetail(s string) string {
	return suggestion.TruncateDisplay(s, 60)
}
