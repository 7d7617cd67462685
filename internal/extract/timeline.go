package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

var (
	// timelineHeadingRegex gates the extractor: it fires only on
	// sections whose heading looks like a timeline or rollout plan.
	timelineHeadingRegex = regexp.MustCompile(`(?i)\b(timeline|rollout|roll-out|schedule|milestones|implementation plan)\b`)

	// dateWindowRegex recognizes date- or window-bearing lines: month
	// names, counted durations, quarters, and relative month phrases.
	dateWindowRegex = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec)\b|\b\d+[- ](day|week|month|quarter|year)s?\b|\bq[1-4]\b|\b(early|mid|late)\s+[a-z]+`)

	// genericSecurityRegex matches a generic security/PII mention.
	genericSecurityRegex = regexp.MustCompile(`(?i)\b(security|pii|privacy|compliance|audit)\b`)

	// specificRiskRegex matches a concrete logging/PII mechanism, the
	// kind of mention that should suppress a vacuous generic twin.
	specificRiskRegex = regexp.MustCompile(`(?i)\b(logg(?:ing|ed)|logs?)\b[^.\n]{0,60}\b(user(?:[ -])?ids?|users?|pii|emails?|tokens?)\b|\buser(?:[ -])?ids?\b|\bplaintext\b`)

	// riskTokens are counted for the specificity tie-break.
	riskTokens = []string{"pii", "security", "logging", "plaintext", "user id", "user ids", "leaking", "exposed", "tokens", "emails"}
)

// TimelineExtractor merges all date/window-bearing bullet lines of a
// timeline-headed section into exactly one project_update candidate,
// and applies specificity-preference suppression to risk mentions in
// the same section. Runs last in the extractor order.
type TimelineExtractor struct{}

// NewTimelineExtractor returns the extractor.
func NewTimelineExtractor() *TimelineExtractor { return &TimelineExtractor{} }

// Name implements the extractor identity used in metadata and traces.
func (e *TimelineExtractor) Name() string { return ExtractorTimeline }

// Extract fires only on timeline-headed sections. Risk lines are
// classified before timeline lines, so a PII bullet never leaks into
// the update body and a dated risk line never splits into both.
func (e *TimelineExtractor) Extract(sec *note.Section, cov *CoverageSet, ids *IDGen, o Observer) []suggestion.Candidate {
	o = orNop(o)

	if !timelineHeadingRegex.MatchString(sec.HeadingText) {
		o.Attempt(sec.SectionID, e.Name(), "skipped: no timeline heading")
		return nil
	}

	type riskLine struct {
		text     string
		line     int
		specific bool
		tokens   int
	}

	var timelineLines []Sentence
	var riskLines []riskLine

	for _, ln := range sec.BodyLines {
		text := strings.TrimSpace(bulletPrefixRegex.ReplaceAllString(ln.Text, ""))
		if text == "" || cov.Covered(text) {
			continue
		}
		switch {
		case specificRiskRegex.MatchString(text):
			riskLines = append(riskLines, riskLine{text: text, line: ln.Index, specific: true, tokens: countTokenHits(sanitize.Normalize(text), riskTokens)})
		case genericSecurityRegex.MatchString(text):
			riskLines = append(riskLines, riskLine{text: text, line: ln.Index, tokens: countTokenHits(sanitize.Normalize(text), riskTokens)})
		case dateWindowRegex.MatchString(text):
			timelineLines = append(timelineLines, Sentence{Text: text, Line: ln.Index})
		}
	}

	var out []suggestion.Candidate

	if len(timelineLines) > 0 {
		entries := make([]string, 0, len(timelineLines))
		spans := make([]suggestion.EvidenceSpan, 0, len(timelineLines))
		for _, tl := range timelineLines {
			cov.Claim(tl.Text)
			entries = append(entries, tl.Text)
			spans = append(spans, suggestion.EvidenceSpan{StartLine: tl.Line, EndLine: tl.Line, Text: tl.Text})
		}

		conf := 0.70 + 0.02*float64(len(entries))
		if conf > 0.80 {
			conf = 0.80
		}
		cand := newCandidate(ids, sec, suggestion.TypeProjectUpdate, titleFromText(sec.HeadingText),
			suggestion.UpdatePayload{TimelineEntries: entries}, spans, e.Name(), conf)
		out = append(out, cand)
		o.Attempt(sec.SectionID, e.Name(), fmt.Sprintf("merged %d timeline lines into %s", len(entries), cand.SuggestionID))
	}

	if len(riskLines) > 0 {
		// Specificity preference: when both generic and specific risk
		// mentions coexist, only specific ones survive. Tie-break:
		// more risk tokens, then earliest line.
		anySpecific := false
		for _, rl := range riskLines {
			if rl.specific {
				anySpecific = true
				break
			}
		}

		best := -1
		for i, rl := range riskLines {
			if anySpecific && !rl.specific {
				continue
			}
			if best < 0 ||
				rl.tokens > riskLines[best].tokens ||
				(rl.tokens == riskLines[best].tokens && rl.line < riskLines[best].line) {
				best = i
			}
		}

		rl := riskLines[best]
		cov.Claim(rl.text)

		category, conf := "security", 0.65
		if rl.specific {
			category, conf = "pii_logging", 0.72
		}
		span := suggestion.EvidenceSpan{StartLine: rl.line, EndLine: rl.line, Text: rl.text}
		cand := newCandidate(ids, sec, suggestion.TypeRisk, titleFromText(rl.text),
			suggestion.RiskPayload{Category: category, Specific: rl.specific},
			[]suggestion.EvidenceSpan{span}, e.Name(), conf)
		out = append(out, cand)
		o.Attempt(sec.SectionID, e.Name(), fmt.Sprintf("risk %s (specific=%t, suppressed %d)", cand.SuggestionID, rl.specific, len(riskLines)-1))
	}

	return out
}
