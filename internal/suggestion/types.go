// Package suggestion defines the candidate and suggestion types produced
// by the engine, their typed payloads, and the drop taxonomy recording
// where and why a section or candidate exited the pipeline.
package suggestion

import "strings"

// Type identifies what kind of suggestion a candidate carries.
type Type string

const (
	TypeIdea          Type = "idea"
	TypeProjectUpdate Type = "project_update"
	TypeRisk          Type = "risk"
	TypeBug           Type = "bug"
)

// Valid reports whether t is one of the recognized suggestion types.
func (t Type) Valid() bool {
	switch t {
	case TypeIdea, TypeProjectUpdate, TypeRisk, TypeBug:
		return true
	}
	return false
}

// EvidenceSpan points at the note lines a candidate is grounded on.
// The grounding invariant requires that the normalized span text is a
// substring of the normalized raw text of the originating section.
type EvidenceSpan struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
}

// Scores holds the per-candidate confidence breakdown.
type Scores struct {
	SectionActionability float64 `json:"section_actionability"`
	TypeChoiceConfidence float64 `json:"type_choice_confidence"`
	SynthesisConfidence  float64 `json:"synthesis_confidence"`
	Overall              float64 `json:"overall"`
}

// Metadata records which extractor produced a candidate and at what
// confidence.
type Metadata struct {
	SourceExtractor string  `json:"source_extractor"`
	Confidence      float64 `json:"confidence"`
}

// DisplayContext is the render-ready view of a suggestion consumed by
// surfaces outside the engine.
type DisplayContext struct {
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	EvidencePreview []string `json:"evidence_preview"`
	SourceSectionID string   `json:"source_section_id"`
	SourceHeading   string   `json:"source_heading,omitempty"`
}

// Payload is the tagged union of type-specific suggestion content.
// Each variant corresponds to exactly one Type.
type Payload interface {
	PayloadType() Type
}

// IdeaPayload carries the semantic-idea extraction result.
type IdeaPayload struct {
	Approach      string   `json:"approach"`
	MatchedTokens []string `json:"matched_tokens,omitempty"`
	TokenCount    int      `json:"token_count"`
}

func (IdeaPayload) PayloadType() Type { return TypeIdea }

// UpdatePayload carries merged timeline content for a project update.
type UpdatePayload struct {
	TimelineEntries []string `json:"timeline_entries"`
}

func (UpdatePayload) PayloadType() Type { return TypeProjectUpdate }

// RiskPayload carries an identified risk. Specific is true when the risk
// names a concrete mechanism (e.g. user IDs in logs) rather than a
// generic category mention.
type RiskPayload struct {
	Category string `json:"category"`
	Specific bool   `json:"specific"`
}

func (RiskPayload) PayloadType() Type { return TypeRisk }

// BugPayload carries a reported defect symptom.
type BugPayload struct {
	Symptom string `json:"symptom"`
}

func (BugPayload) PayloadType() Type { return TypeBug }

// Candidate is a potential suggestion emitted by exactly one extractor.
// It is immutable once emitted; validators and scorers either pass it
// through or drop it with a typed reason.
type Candidate struct {
	SuggestionID   string         `json:"suggestion_id"`
	NoteID         string         `json:"note_id"`
	SectionID      string         `json:"section_id"`
	Type           Type           `json:"type"`
	Title          string         `json:"title"`
	Payload        Payload        `json:"payload"`
	EvidenceSpans  []EvidenceSpan `json:"evidence_spans"`
	Scores         Scores         `json:"scores"`
	SuggestionKey  string         `json:"suggestion_key"`
	Metadata       Metadata       `json:"metadata"`
	DisplayContext DisplayContext `json:"display_context"`
}

// Suggestion is a candidate that survived validation, scoring, and
// deduplication. Shape is identical; the name marks pipeline state.
type Suggestion = Candidate

// evidencePreviewChars caps per-span previews in display context.
const evidencePreviewChars = 120

// RebuildEvidenceDisplay recomputes the display body and evidence
// previews from the candidate's current evidence spans. Must be called
// whenever spans change after construction, or the display context and
// the spans disagree.
func (c *Candidate) RebuildEvidenceDisplay() {
	bodies := make([]string, 0, len(c.EvidenceSpans))
	previews := make([]string, 0, len(c.EvidenceSpans))
	for _, sp := range c.EvidenceSpans {
		bodies = append(bodies, sp.Text)
		previews = append(previews, TruncateDisplay(sp.Text, evidencePreviewChars))
	}
	c.DisplayContext.Body = strings.Join(bodies, "\n")
	c.DisplayContext.EvidencePreview = previews
}

// TruncateDisplay shortens s to at most n runes with a trailing
// ellipsis. Slicing on rune boundaries keeps truncated previews valid
// UTF-8.
func TruncateDisplay(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
