// Package debugtrace builds the optional debug artifact mirroring every
// section's and candidate's journey through the pipeline.
//
// The recorder is a pure observer: it never alters pipeline outcomes.
// Its artifact shares the run_id of the production result one-to-one,
// which is the single-source-of-truth contract any rendering surface
// relies on. Payload size is bounded; oversized artifacts are reported
// as computed-but-not-persistable rather than truncated silently.
package debugtrace

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Verbosity controls how much note text enters the artifact.
type Verbosity string

const (
	// VerbosityOff produces no artifact at all.
	VerbosityOff Verbosity = "OFF"
	// VerbosityRedacted keeps structure, scores, and short normalized
	// previews only — no raw note text, no full evidence.
	VerbosityRedacted Verbosity = "REDACTED"
	// VerbosityFullText includes complete text. Gated behind an
	// explicit non-production flag by the caller.
	VerbosityFullText Verbosity = "FULL_TEXT"
)

// ParseVerbosity maps a config string to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch Verbosity(s) {
	case VerbosityOff, VerbosityRedacted, VerbosityFullText:
		return Verbosity(s), nil
	case "":
		return VerbosityOff, nil
	}
	return VerbosityOff, fmt.Errorf("unknown debug verbosity %q", s)
}

const (
	// GeneratorVersion stamps artifacts so renderers can detect stale
	// trace shapes.
	GeneratorVersion = "suggestd-trace/1"

	// MaxPayloadBytes bounds the serialized artifact.
	MaxPayloadBytes = 256 * 1024

	// redactedPreviewChars caps previews at REDACTED verbosity.
	redactedPreviewChars = 80
)

// SkipReasonTooLarge is reported when an artifact was computed but
// exceeds MaxPayloadBytes.
const SkipReasonTooLarge = "payload_too_large"

// Meta identifies a debug artifact and ties it to its RunResult.
type Meta struct {
	RunID            string    `json:"run_id"`
	GeneratorVersion string    `json:"generator_version"`
	Verbosity        Verbosity `json:"verbosity"`
}

// NoteSummary describes the analyzed note without necessarily carrying
// its text.
type NoteSummary struct {
	NoteID    string `json:"note_id"`
	NoteHash  string `json:"note_hash"`
	LineCount int    `json:"line_count"`
	Preview   string `json:"preview,omitempty"`
}

// AttemptDebug is one extractor decision within a section.
type AttemptDebug struct {
	Extractor string `json:"extractor"`
	Outcome   string `json:"outcome"`
}

// CandidateDebug mirrors one candidate's journey.
type CandidateDebug struct {
	SuggestionID    string            `json:"suggestion_id"`
	Type            suggestion.Type   `json:"type"`
	Title           string            `json:"title"`
	SourceExtractor string            `json:"source_extractor"`
	Scores          suggestion.Scores `json:"scores"`
	EvidencePreview []string          `json:"evidence_preview,omitempty"`
	Drop            *suggestion.Drop  `json:"drop,omitempty"`
	Survived        bool              `json:"survived"`
}

// SectionDebug mirrors one section's journey.
type SectionDebug struct {
	SectionID    string           `json:"section_id"`
	Heading      string           `json:"heading,omitempty"`
	Preview      string           `json:"preview,omitempty"`
	IntentLabel  string           `json:"intent_label"`
	IntentScore  float64          `json:"intent_score"`
	TypeLabel    suggestion.Type  `json:"type_label"`
	TypeScore    float64          `json:"type_score"`
	IsActionable bool             `json:"is_actionable"`
	Drop         *suggestion.Drop `json:"drop,omitempty"`
	Attempts     []AttemptDebug   `json:"attempts,omitempty"`
	Candidates   []CandidateDebug `json:"candidates,omitempty"`
}

// RuntimeStats summarizes the run for the trace.
type RuntimeStats struct {
	DurationMicros    int64 `json:"duration_micros"`
	SectionCount      int   `json:"section_count"`
	EmittedCandidates int   `json:"emitted_candidates"`
	FinalSuggestions  int   `json:"final_suggestions"`
}

// Run is the complete debug artifact.
type Run struct {
	Meta         Meta           `json:"meta"`
	NoteSummary  NoteSummary    `json:"note_summary"`
	Sections     []SectionDebug `json:"sections"`
	RuntimeStats RuntimeStats   `json:"runtime_stats"`
	Config       any            `json:"config"`
}

// Recorder accumulates the trace during a run. A nil recorder is valid
// and records nothing, so the pipeline can thread it unconditionally.
type Recorder struct {
	verbosity Verbosity
	started   time.Time
	order     []string
	sections  map[string]*SectionDebug
	candidate map[string]int // suggestion ID -> index in its section's Candidates
	candSec   map[string]string
}

// NewRecorder returns a recorder at the given verbosity, or nil when
// verbosity is OFF.
func NewRecorder(v Verbosity) *Recorder {
	if v == VerbosityOff {
		return nil
	}
	return &Recorder{
		verbosity: v,
		started:   time.Now(),
		sections:  make(map[string]*SectionDebug),
		candidate: make(map[string]int),
		candSec:   make(map[string]string),
	}
}

// preview shortens text per verbosity. REDACTED previews are built from
// normalized text so no raw formatting or full lines leak through.
func (r *Recorder) preview(text string) string {
	if r.verbosity == VerbosityFullText {
		return text
	}
	return suggestion.TruncateDisplay(sanitize.Normalize(text), redactedPreviewChars)
}

// Section records a section after classification.
func (r *Recorder) Section(sec *note.Section) {
	if r == nil {
		return
	}
	sd := &SectionDebug{
		SectionID:    sec.SectionID,
		Heading:      sec.HeadingText,
		Preview:      r.preview(sec.RawText),
		IntentLabel:  sec.IntentLabel,
		IntentScore:  sec.IntentScore,
		TypeLabel:    sec.TypeLabel,
		TypeScore:    sec.TypeScore,
		IsActionable: sec.IsActionable,
		Drop:         sec.Drop,
	}
	r.sections[sec.SectionID] = sd
	r.order = append(r.order, sec.SectionID)
}

// SectionDrop updates a section's drop after it was first recorded,
// e.g. for size limits or defects hit during extraction.
func (r *Recorder) SectionDrop(sectionID string, d *suggestion.Drop) {
	if r == nil {
		return
	}
	if sd, ok := r.sections[sectionID]; ok {
		sd.Drop = d
	}
}

// Attempt implements the extractor Observer.
func (r *Recorder) Attempt(sectionID, extractor, outcome string) {
	if r == nil {
		return
	}
	sd, ok := r.sections[sectionID]
	if !ok {
		return
	}
	sd.Attempts = append(sd.Attempts, AttemptDebug{Extractor: extractor, Outcome: outcome})
}

// Candidate records an emitted candidate.
func (r *Recorder) Candidate(c *suggestion.Candidate) {
	if r == nil {
		return
	}
	sd, ok := r.sections[c.SectionID]
	if !ok {
		return
	}
	previews := make([]string, 0, len(c.EvidenceSpans))
	for _, sp := range c.EvidenceSpans {
		previews = append(previews, r.preview(sp.Text))
	}
	sd.Candidates = append(sd.Candidates, CandidateDebug{
		SuggestionID:    c.SuggestionID,
		Type:            c.Type,
		Title:           c.Title,
		SourceExtractor: c.Metadata.SourceExtractor,
		Scores:          c.Scores,
		EvidencePreview: previews,
	})
	r.candidate[c.SuggestionID] = len(sd.Candidates) - 1
	r.candSec[c.SuggestionID] = c.SectionID
}

// CandidateDrop marks a recorded candidate as dropped.
func (r *Recorder) CandidateDrop(suggestionID string, d suggestion.Drop) {
	if r == nil {
		return
	}
	if cd := r.lookup(suggestionID); cd != nil {
		cd.Drop = &d
	}
}

// CandidateScores refreshes a recorded candidate's score breakdown
// after the scorer filled in the composite.
func (r *Recorder) CandidateScores(suggestionID string, s suggestion.Scores) {
	if r == nil {
		return
	}
	if cd := r.lookup(suggestionID); cd != nil {
		cd.Scores = s
	}
}

// CandidateSurvived marks a candidate as part of the final list.
func (r *Recorder) CandidateSurvived(suggestionID string) {
	if r == nil {
		return
	}
	if cd := r.lookup(suggestionID); cd != nil {
		cd.Survived = true
	}
}

func (r *Recorder) lookup(suggestionID string) *CandidateDebug {
	secID, ok := r.candSec[suggestionID]
	if !ok {
		return nil
	}
	sd, ok := r.sections[secID]
	if !ok {
		return nil
	}
	return &sd.Candidates[r.candidate[suggestionID]]
}

// Build assembles the artifact. Returns nil for a nil recorder.
func (r *Recorder) Build(runID, noteID, noteHash, rawText string, lineCount, emitted, final int, config any) *Run {
	if r == nil {
		return nil
	}
	sections := make([]SectionDebug, 0, len(r.order))
	for _, id := range r.order {
		sections = append(sections, *r.sections[id])
	}
	return &Run{
		Meta: Meta{
			RunID:            runID,
			GeneratorVersion: GeneratorVersion,
			Verbosity:        r.verbosity,
		},
		NoteSummary: NoteSummary{
			NoteID:    noteID,
			NoteHash:  noteHash,
			LineCount: lineCount,
			Preview:   r.preview(rawText),
		},
		Sections: sections,
		RuntimeStats: RuntimeStats{
			DurationMicros:    time.Since(r.started).Microseconds(),
			SectionCount:      len(sections),
			EmittedCandidates: emitted,
			FinalSuggestions:  final,
		},
		Config: config,
	}
}

// Encode serializes the artifact and enforces the payload ceiling. When
// the artifact exceeds MaxPayloadBytes the payload is still returned
// alongside SkipReasonTooLarge so the caller can report it was computed
// but must not persist it.
func (run *Run) Encode() (payload []byte, skipReason string, err error) {
	b, err := json.Marshal(run)
	if err != nil {
		return nil, "", fmt.Errorf("encode debug run: %w", err)
	}
	if len(b) > MaxPayloadBytes {
		return b, SkipReasonTooLarge, nil
	}
	return b, "", nil
}
