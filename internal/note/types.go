// Package note provides the note input model and the preprocessor that
// splits raw note text into ordered, heading-delimited sections.
package note

import (
	"time"

	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Input is the immutable note handed to the engine by the caller.
type Input struct {
	NoteID     string     `json:"note_id"`
	RawText    string     `json:"raw_text"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// Line is a single 0-indexed line of the note, retained so evidence
// spans can be resolved back to line ranges.
type Line struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Section is one contiguous heading-delimited block of the note, or the
// whole document when no headings exist. Sections are created once per
// run, classified once, and never re-ordered, merged, or mutated after
// classification.
type Section struct {
	SectionID    string `json:"section_id"`
	NoteID       string `json:"note_id"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	HeadingText  string `json:"heading_text,omitempty"`
	HeadingLevel int    `json:"heading_level,omitempty"`
	RawText      string `json:"raw_text"`
	BodyLines    []Line `json:"body_lines"`

	// Set by the classifier.
	IntentLabel  string          `json:"intent_label"`
	IntentScore  float64         `json:"intent_score"`
	TypeLabel    suggestion.Type `json:"type_label"`
	TypeScore    float64         `json:"type_score"`
	IsActionable bool            `json:"is_actionable"`

	// Set when the section exits the pipeline early.
	Drop *suggestion.Drop `json:"drop,omitempty"`
}

// Body returns the section text without its heading line.
func (s *Section) Body() string {
	if s.HeadingText == "" {
		return s.RawText
	}
	var b []byte
	for i, ln := range s.BodyLines {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, ln.Text...)
	}
	return string(b)
}
