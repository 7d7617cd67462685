package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/suggestd/internal/debugtrace"
	"github.com/fyrsmithlabs/suggestd/internal/dedupe"
	"github.com/fyrsmithlabs/suggestd/internal/extract"
	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

const ideaNote = `# Search Plans
We plan to use a scoring framework to automate prioritization.`

const timelineNote = `# Timeline
- Ship beta by March 15
- We are logging user emails in plaintext
- GA rollout in Q3`

const weakNote = `We discussed the approach to handling customer feedback at the meeting.`

func run(t *testing.T, cfg Config, noteID, raw string) (*RunResult, *debugtrace.Run) {
	t.Helper()
	e := New(cfg, nil)
	res, dbg := e.Run(context.Background(), note.Input{NoteID: noteID, RawText: raw})
	require.NotNil(t, res)
	return res, dbg
}

func TestRun_IdeaNote(t *testing.T) {
	res, dbg := run(t, DefaultConfig(), "n1", ideaNote)

	require.Len(t, res.FinalSuggestions, 1)
	sg := res.FinalSuggestions[0]
	assert.Equal(t, suggestion.TypeIdea, sg.Type)
	assert.Equal(t, "Search Plans", sg.Title)
	assert.Equal(t, "sg-000", sg.SuggestionID)
	assert.Len(t, sg.SuggestionKey, sanitize.DigestLength)
	assert.GreaterOrEqual(t, sg.Scores.Overall, 0.55)
	assert.True(t, res.Invariants.AggregationValid)
	assert.Nil(t, dbg, "debug disabled by default")
}

func TestRun_WeakSentenceYieldsNothing(t *testing.T) {
	res, _ := run(t, DefaultConfig(), "n1", weakNote)

	assert.Empty(t, res.FinalSuggestions)
	// Nothing was emitted, so the empty result is not a defect signal.
	assert.True(t, res.Invariants.AggregationValid)
}

func TestRun_TimelineMerge(t *testing.T) {
	res, _ := run(t, DefaultConfig(), "n1", timelineNote)

	var updates, risks []suggestion.Suggestion
	for _, sg := range res.FinalSuggestions {
		switch sg.Type {
		case suggestion.TypeProjectUpdate:
			updates = append(updates, sg)
		case suggestion.TypeRisk:
			risks = append(risks, sg)
		}
	}

	require.Len(t, updates, 1, "all dated bullets merge into one update")
	require.Len(t, risks, 1)

	up := updates[0].Payload.(suggestion.UpdatePayload)
	require.Len(t, up.TimelineEntries, 2)
	for _, entry := range up.TimelineEntries {
		assert.NotContains(t, strings.ToLower(entry), "plaintext", "risk line must not leak into the update")
	}

	rp := risks[0].Payload.(suggestion.RiskPayload)
	assert.True(t, rp.Specific)
	assert.Equal(t, "pii_logging", rp.Category)
}

func TestRun_BugNote(t *testing.T) {
	// A plain defect report with no decision verbs still survives
	// classification and reaches the bug signal family.
	res, _ := run(t, DefaultConfig(), "n1", "Ingest pipeline crashes on empty batches.")

	require.Len(t, res.FinalSuggestions, 1)
	sg := res.FinalSuggestions[0]
	assert.Equal(t, suggestion.TypeBug, sg.Type)
	bp := sg.Payload.(suggestion.BugPayload)
	assert.Contains(t, bp.Symptom, "crashes")
	assert.GreaterOrEqual(t, sg.Scores.Overall, 0.55)
}

func TestRun_Grounding(t *testing.T) {
	for _, raw := range []string{ideaNote, timelineNote} {
		res, _ := run(t, DefaultConfig(), "n1", raw)

		sections := map[string]string{}
		for _, sec := range note.Split("n1", raw) {
			sections[sec.SectionID] = sanitize.Normalize(sec.RawText)
		}

		for _, sg := range res.FinalSuggestions {
			secNorm, ok := sections[sg.SectionID]
			require.True(t, ok)
			for _, sp := range sg.EvidenceSpans {
				assert.Contains(t, secNorm, sanitize.Normalize(sp.Text))
			}
		}
	}
}

func TestRun_NoGenericFallback(t *testing.T) {
	raw := `# Discussion details
- Talked about various topics from the quarter and how they went
- Reviewed the notes from the previous session with the group
- Considered several directions without settling on any of them
- Debated the pros and cons people raised during the call
- Brainstormed loosely about what next quarter might look like`

	res, _ := run(t, DefaultConfig(), "n1", raw)

	for _, sg := range res.FinalSuggestions {
		assert.NotRegexp(t, `(?i)^review:`, sg.Title)
		assert.NotContains(t, strings.ToLower(sg.SuggestionID), "fallback")
	}
}

func TestRun_Determinism(t *testing.T) {
	cfg := DefaultConfig()
	a, _ := run(t, cfg, "n1", timelineNote)
	b, _ := run(t, cfg, "n1", timelineNote)

	assert.NotEqual(t, a.RunID, b.RunID, "run identity is unique per call")
	assert.Equal(t, a.NoteHash, b.NoteHash)
	assert.Equal(t, a.FinalSuggestions, b.FinalSuggestions)
}

func TestRun_CapEnforcement(t *testing.T) {
	uncapped := DefaultConfig()
	uncapped.MaxSuggestionsPerNote = 0
	base, _ := run(t, uncapped, "n1", timelineNote)
	n := len(base.FinalSuggestions)
	require.GreaterOrEqual(t, n, 2)

	capped := DefaultConfig()
	capped.MaxSuggestionsPerNote = n - 1
	res, _ := run(t, capped, "n1", timelineNote)
	assert.LessOrEqual(t, len(res.FinalSuggestions), n-1)
	assert.True(t, res.Invariants.TrimmedToMax)
	assert.False(t, res.Invariants.MaxRespected)

	roomy := DefaultConfig()
	roomy.MaxSuggestionsPerNote = 100
	res, _ = run(t, roomy, "n1", timelineNote)
	assert.False(t, res.Invariants.TrimmedToMax)
	assert.True(t, res.Invariants.MaxRespected)
}

func TestRun_KeyStability(t *testing.T) {
	res, _ := run(t, DefaultConfig(), "n1", ideaNote)
	require.Len(t, res.FinalSuggestions, 1)

	sg := res.FinalSuggestions[0]
	assert.Equal(t, dedupe.Key(sg.NoteID, sg.SectionID, sg.Type, sg.Title), sg.SuggestionKey)
}

func TestRun_DebugArtifactLockStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableDebug = true
	cfg.DebugVerbosity = debugtrace.VerbosityRedacted

	res, dbg := run(t, cfg, "n1", timelineNote)
	require.NotNil(t, dbg)
	assert.Equal(t, res.RunID, dbg.Meta.RunID)
	assert.Equal(t, res.NoteHash, dbg.NoteSummary.NoteHash)
	assert.Equal(t, len(res.FinalSuggestions), dbg.RuntimeStats.FinalSuggestions)
	require.Len(t, dbg.Sections, 1)
	assert.NotEmpty(t, dbg.Sections[0].Attempts)
}

func TestRun_DebugOffUnlessEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebugVerbosity = debugtrace.VerbosityFullText // enable_debug still false

	_, dbg := run(t, cfg, "n1", ideaNote)
	assert.Nil(t, dbg)
}

func TestRun_OversizedSection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSectionChars = 10
	cfg.EnableDebug = true
	cfg.DebugVerbosity = debugtrace.VerbosityRedacted

	res, dbg := run(t, cfg, "n1", ideaNote)
	assert.Empty(t, res.FinalSuggestions)
	require.NotNil(t, dbg)
	require.NotNil(t, dbg.Sections[0].Drop)
	assert.Equal(t, suggestion.ReasonTooLarge, dbg.Sections[0].Drop.Reason)
}

func TestRun_EmptyNote(t *testing.T) {
	res, _ := run(t, DefaultConfig(), "n1", "")
	assert.Empty(t, res.FinalSuggestions)
	assert.Zero(t, res.LineCount)
	assert.True(t, res.Invariants.AggregationValid)
}

type panicExtractor struct{}

func (panicExtractor) Name() string { return "defective" }

func (panicExtractor) Extract(*note.Section, *extract.CoverageSet, *extract.IDGen, extract.Observer) []suggestion.Candidate {
	panic("defect")
}

func TestRun_ExtractorDefectIsContained(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableDebug = true
	cfg.DebugVerbosity = debugtrace.VerbosityRedacted

	e := New(cfg, nil)
	e.extractors = []extract.Extractor{panicExtractor{}}

	res, dbg := e.Run(context.Background(), note.Input{NoteID: "n1", RawText: ideaNote})
	require.NotNil(t, res)
	assert.Empty(t, res.FinalSuggestions)
	require.NotNil(t, dbg)
	require.NotNil(t, dbg.Sections[0].Drop)
	assert.Equal(t, suggestion.ReasonInternalError, dbg.Sections[0].Drop.Reason)
}
