// Package classify assigns intent and type labels to note sections and
// decides whether a section is actionable enough to enter extraction.
//
// The classifier is a total function over sections: every section gets
// exactly one intent label, one type label, and an actionability
// decision. It is rule-table driven, not statistical; the tables are
// data so rules can be tested and swapped without touching control flow.
package classify

import (
	"regexp"
	"strconv"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Intent labels.
const (
	IntentPlanChange     = "plan-change"
	IntentDiscussion     = "discussion"
	IntentGenericHygiene = "generic-hygiene"
	IntentOutOfScope     = "out-of-scope"
)

// Rule is a single weighted pattern contributing to a label score.
type Rule struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Regex  string  `json:"regex"`
	Weight float64 `json:"weight"`
}

type compiledRule struct {
	Rule
	regex *regexp.Regexp
}

// Config holds the actionability thresholds.
type Config struct {
	// TAction is the minimum intent score for a section to be
	// considered actionable.
	TAction float64
	// TOutOfScope is the out-of-scope score at or above which a
	// section is suppressed outright.
	TOutOfScope float64
}

// DefaultConfig returns the default classification thresholds.
func DefaultConfig() Config {
	return Config{TAction: 0.5, TOutOfScope: 0.7}
}

// Classifier labels sections using compiled rule tables.
type Classifier struct {
	cfg         Config
	intentRules []compiledRule
	typeRules   []compiledRule
}

// New compiles the default rule tables. Invalid patterns are skipped
// rather than failing the whole table.
func New(cfg Config) *Classifier {
	if cfg.TAction == 0 {
		cfg.TAction = DefaultConfig().TAction
	}
	if cfg.TOutOfScope == 0 {
		cfg.TOutOfScope = DefaultConfig().TOutOfScope
	}
	return &Classifier{
		cfg:         cfg,
		intentRules: compileRules(DefaultIntentRules()),
		typeRules:   compileRules(DefaultTypeRules()),
	}
}

func compileRules(rules []Rule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledRule{Rule: r, regex: re})
	}
	return compiled
}

// Classify sets intent, type, and actionability on sec. It never fails;
// sections matching no rule fall back to discussion/idea at base
// confidence.
func (c *Classifier) Classify(sec *note.Section) {
	intentLabel, intentScore := bestLabel(c.intentRules, sec.RawText, IntentDiscussion, 0.3)
	typeLabel, typeScore := bestLabel(c.typeRules, sec.RawText, string(suggestion.TypeIdea), 0.4)

	sec.IntentLabel = intentLabel
	sec.IntentScore = intentScore
	sec.TypeLabel = suggestion.Type(typeLabel)
	sec.TypeScore = typeScore

	outOfScopeScore := labelScore(c.intentRules, sec.RawText, IntentOutOfScope)

	switch {
	case outOfScopeScore >= c.cfg.TOutOfScope:
		sec.IsActionable = false
		sec.Drop = &suggestion.Drop{
			Stage:  suggestion.StageClassification,
			Reason: suggestion.ReasonSuppressedSection,
			Detail: "out-of-scope score " + formatScore(outOfScopeScore),
		}
	case intentLabel == IntentGenericHygiene || intentScore < c.cfg.TAction:
		sec.IsActionable = false
		sec.Drop = &suggestion.Drop{
			Stage:  suggestion.StageClassification,
			Reason: suggestion.ReasonNotActionable,
			Detail: "intent " + intentLabel + " score " + formatScore(intentScore),
		}
	default:
		sec.IsActionable = true
	}
}

// bestLabel returns the label whose matching rule carries the highest
// weight, falling back to the given default when nothing matches.
func bestLabel(rules []compiledRule, text, fallback string, base float64) (string, float64) {
	label := fallback
	score := base
	for _, r := range rules {
		if r.Weight > score && r.regex.MatchString(text) {
			label = r.Label
			score = r.Weight
		}
	}
	return label, score
}

// labelScore returns the highest weight among matching rules for one
// specific label.
func labelScore(rules []compiledRule, text, label string) float64 {
	score := 0.0
	for _, r := range rules {
		if r.Label == label && r.Weight > score && r.regex.MatchString(text) {
			score = r.Weight
		}
	}
	return score
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
