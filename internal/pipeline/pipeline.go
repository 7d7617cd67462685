// Package pipeline orchestrates the suggestion engine: preprocessing,
// classification, extraction, validation, scoring, deduplication, and
// aggregation, with an optional lock-step debug trace.
//
// The pipeline is total for text input. Malformed or unproductive notes
// produce an empty suggestion list with typed drops, never an error.
// Given identical (note, config) the final suggestions are identical
// across runs; only run_id and created_at differ.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/suggestd/internal/aggregate"
	"github.com/fyrsmithlabs/suggestd/internal/classify"
	"github.com/fyrsmithlabs/suggestd/internal/debugtrace"
	"github.com/fyrsmithlabs/suggestd/internal/dedupe"
	"github.com/fyrsmithlabs/suggestd/internal/extract"
	"github.com/fyrsmithlabs/suggestd/internal/logging"
	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/score"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
	"github.com/fyrsmithlabs/suggestd/internal/validate"
)

// Thresholds collects every tunable floor in one place so a config
// snapshot captures the full decision surface of a run.
type Thresholds struct {
	TAction          float64 `json:"t_action" koanf:"t_action"`
	TOutOfScope      float64 `json:"t_out_of_scope" koanf:"t_out_of_scope"`
	TSectionMin      float64 `json:"t_section_min" koanf:"t_section_min"`
	TOverallMin      float64 `json:"t_overall_min" koanf:"t_overall_min"`
	MinEvidenceChars int     `json:"min_evidence_chars" koanf:"min_evidence_chars"`
}

// Config is the recognized engine configuration.
type Config struct {
	// MaxSuggestionsPerNote caps the final list. 0 means uncapped.
	MaxSuggestionsPerNote int `json:"max_suggestions_per_note" koanf:"max_suggestions_per_note"`
	// MaxSectionChars drops oversized sections before extraction.
	MaxSectionChars int        `json:"max_section_chars" koanf:"max_section_chars"`
	Thresholds      Thresholds `json:"thresholds" koanf:"thresholds"`
	// EnableDebug turns the debug recorder on; verbosity then decides
	// how much text the artifact carries.
	EnableDebug    bool                 `json:"enable_debug" koanf:"enable_debug"`
	DebugVerbosity debugtrace.Verbosity `json:"debug_verbosity" koanf:"debug_verbosity"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxSuggestionsPerNote: 10,
		MaxSectionChars:       20000,
		Thresholds: Thresholds{
			TAction:          0.5,
			TOutOfScope:      0.7,
			TSectionMin:      0.4,
			TOverallMin:      0.55,
			MinEvidenceChars: 10,
		},
		DebugVerbosity: debugtrace.VerbosityOff,
	}
}

// RunResult is the production output of one pipeline invocation.
type RunResult struct {
	RunID            string                  `json:"run_id"`
	NoteID           string                  `json:"note_id"`
	NoteHash         string                  `json:"note_hash"`
	CreatedAt        time.Time               `json:"created_at"`
	LineCount        int                     `json:"line_count"`
	FinalSuggestions []suggestion.Suggestion `json:"final_suggestions"`
	Invariants       aggregate.Invariants    `json:"invariants"`
	ConfigSnapshot   Config                  `json:"config_snapshot"`
}

// Engine runs the full pipeline with a fixed configuration.
type Engine struct {
	cfg        Config
	log        *logging.Logger
	classifier *classify.Classifier
	extractors []extract.Extractor
}

// New builds an engine. A nil logger is replaced with a no-op logger so
// library callers need not wire logging.
func New(cfg Config, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{
		cfg: cfg,
		log: log.Named("pipeline"),
		classifier: classify.New(classify.Config{
			TAction:     cfg.Thresholds.TAction,
			TOutOfScope: cfg.Thresholds.TOutOfScope,
		}),
		extractors: extract.DefaultExtractors(),
	}
}

// Run analyzes one note. It never returns an error for text input; the
// debug run is nil unless debug is enabled at a verbosity above OFF.
func (e *Engine) Run(ctx context.Context, in note.Input) (*RunResult, *debugtrace.Run) {
	started := time.Now()
	runID := ulid.Make().String()
	ctx = logging.WithRunID(logging.WithNoteID(ctx, in.NoteID), runID)

	verbosity := debugtrace.VerbosityOff
	if e.cfg.EnableDebug {
		verbosity = e.cfg.DebugVerbosity
	}
	rec := debugtrace.NewRecorder(verbosity)

	sections := note.Split(in.NoteID, in.RawText)
	bySection := make(map[string]*note.Section, len(sections))
	for _, sec := range sections {
		e.classifier.Classify(sec)
		rec.Section(sec)
		bySection[sec.SectionID] = sec
		if sec.Drop != nil {
			observeDrop(sec.Drop)
		}
	}

	cov := extract.NewCoverageSet()
	ids := extract.NewIDGen()
	var cands []suggestion.Candidate
	for _, sec := range sections {
		if !sec.IsActionable {
			continue
		}
		if len(sec.RawText) > e.cfg.MaxSectionChars {
			d := &suggestion.Drop{
				Stage:  suggestion.StageExtraction,
				Reason: suggestion.ReasonTooLarge,
				Detail: fmt.Sprintf("section is %d chars, limit %d", len(sec.RawText), e.cfg.MaxSectionChars),
			}
			sec.Drop = d
			rec.SectionDrop(sec.SectionID, d)
			observeDrop(d)
			continue
		}
		extracted := e.extractSection(ctx, sec, cov, ids, rec)
		for i := range extracted {
			rec.Candidate(&extracted[i])
		}
		cands = append(cands, extracted...)
	}
	emitted := len(cands)

	survivors := make([]suggestion.Candidate, 0, len(cands))
	for i := range cands {
		c := &cands[i]
		sec := bySection[c.SectionID]

		if d := validate.Chain(c, sec, validate.Config{MinEvidenceChars: e.cfg.Thresholds.MinEvidenceChars}); d != nil {
			rec.CandidateDrop(c.SuggestionID, *d)
			observeDrop(d)
			continue
		}
		if d := score.Apply(c, score.Config{
			TSectionMin: e.cfg.Thresholds.TSectionMin,
			TOverallMin: e.cfg.Thresholds.TOverallMin,
		}); d != nil {
			rec.CandidateScores(c.SuggestionID, c.Scores)
			rec.CandidateDrop(c.SuggestionID, *d)
			observeDrop(d)
			continue
		}
		rec.CandidateScores(c.SuggestionID, c.Scores)
		survivors = append(survivors, *c)
	}

	deduped := dedupe.Collapse(survivors)
	final, inv := aggregate.Cap(deduped, e.cfg.MaxSuggestionsPerNote, emitted)

	kept := make(map[string]struct{}, len(final))
	for i := range final {
		kept[final[i].SuggestionID] = struct{}{}
		rec.CandidateSurvived(final[i].SuggestionID)
	}
	for i := range deduped {
		if _, ok := kept[deduped[i].SuggestionID]; ok {
			continue
		}
		d := suggestion.Drop{Stage: suggestion.StageAggregation, Reason: suggestion.ReasonTrimmedToCap}
		rec.CandidateDrop(deduped[i].SuggestionID, d)
		observeDrop(&d)
	}

	runsTotal.Inc()
	suggestionsTotal.Add(float64(len(final)))
	runDuration.Observe(time.Since(started).Seconds())

	e.log.Info(ctx, "run complete",
		zap.Int("sections", len(sections)),
		zap.Int("emitted_candidates", emitted),
		zap.Int("final_suggestions", len(final)),
		zap.Bool("aggregation_valid", inv.AggregationValid),
		zap.Duration("elapsed", time.Since(started)),
	)

	noteHash := sanitize.Digest(in.RawText)
	result := &RunResult{
		RunID:            runID,
		NoteID:           in.NoteID,
		NoteHash:         noteHash,
		CreatedAt:        started.UTC(),
		LineCount:        lineCount(in.RawText),
		FinalSuggestions: final,
		Invariants:       inv,
		ConfigSnapshot:   e.cfg,
	}
	if result.FinalSuggestions == nil {
		result.FinalSuggestions = []suggestion.Suggestion{}
	}

	debugRun := rec.Build(runID, in.NoteID, noteHash, in.RawText, result.LineCount, emitted, len(final), e.cfg)
	return result, debugRun
}

// extractSection runs the extractor sequence over one section behind a
// recover boundary. A defect in a single section must not take down the
// run or leak a partial candidate list for that section.
func (e *Engine) extractSection(ctx context.Context, sec *note.Section, cov *extract.CoverageSet, ids *extract.IDGen, rec *debugtrace.Recorder) (cands []suggestion.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			d := &suggestion.Drop{
				Stage:  suggestion.StageExtraction,
				Reason: suggestion.ReasonInternalError,
				Detail: fmt.Sprintf("%v", r),
			}
			sec.Drop = d
			rec.SectionDrop(sec.SectionID, d)
			observeDrop(d)
			e.log.Error(ctx, "extractor defect recovered",
				zap.String("section_id", sec.SectionID),
				zap.Any("panic", r),
			)
			cands = nil
		}
	}()

	for _, ex := range e.extractors {
		cands = append(cands, ex.Extract(sec, cov, ids, rec)...)
	}
	return cands
}

func lineCount(raw string) int {
	if raw == "" {
		return 0
	}
	return strings.Count(raw, "\n") + 1
}
