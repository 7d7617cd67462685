package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/sanitize"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// IdeaExtractor emits idea candidates from sections or paragraphs that
// clear the composite token gate. Runs second, after the signal-seeded
// extractor has claimed its sentences.
type IdeaExtractor struct {
	strategy   []string
	mechanisms []string
	constructs []string
	denylist   map[string]struct{}
}

// NewIdeaExtractor builds the extractor from the default token tables.
func NewIdeaExtractor() *IdeaExtractor {
	deny := make(map[string]struct{})
	for _, h := range DefaultHeadingDenylist() {
		deny[sanitize.Normalize(h)] = struct{}{}
	}
	return &IdeaExtractor{
		strategy:   DefaultStrategyTokens(),
		mechanisms: DefaultMechanismVerbs(),
		constructs: DefaultFeatureConstructs(),
		denylist:   deny,
	}
}

// Name implements the extractor identity used in metadata and traces.
func (e *IdeaExtractor) Name() string { return ExtractorIdea }

// gateResult is the composite-gate breakdown for one block of text.
type gateResult struct {
	strategyHits  int
	mechanismHits int
	constructHits int
	matched       []string
}

// total weighs construct matches double.
func (g gateResult) total() int {
	return g.strategyHits + g.mechanismHits + 2*g.constructHits
}

// pass requires total >= 2, a strategy-or-construct match, and a
// mechanism-or-construct match. A single weak token, or mechanism-only
// matches, never qualify.
func (g gateResult) pass() bool {
	return g.total() >= 2 &&
		g.strategyHits+g.constructHits >= 1 &&
		g.mechanismHits+g.constructHits >= 1
}

func (e *IdeaExtractor) gate(text string) gateResult {
	norm := sanitize.Normalize(text)
	padded := " " + norm + " "

	var g gateResult
	for _, tok := range e.strategy {
		if strings.Contains(padded, " "+sanitize.Normalize(tok)+" ") {
			g.strategyHits++
			g.matched = append(g.matched, tok)
		}
	}
	for _, tok := range e.mechanisms {
		if strings.Contains(padded, " "+sanitize.Normalize(tok)+" ") {
			g.mechanismHits++
			g.matched = append(g.matched, tok)
		}
	}
	for _, c := range e.constructs {
		if strings.Contains(norm, sanitize.Normalize(c)) {
			g.constructHits++
			g.matched = append(g.matched, c)
		}
	}
	return g
}

// ideaConfidence follows min(0.75, 0.60 + 0.05*token_count).
func ideaConfidence(tokenCount int) float64 {
	conf := 0.60 + 0.05*float64(tokenCount)
	if conf > 0.75 {
		conf = 0.75
	}
	return conf
}

// Extract gates the section (or its paragraphs, when no usable heading
// exists) and emits idea candidates for every qualifying block.
func (e *IdeaExtractor) Extract(sec *note.Section, cov *CoverageSet, ids *IDGen, o Observer) []suggestion.Candidate {
	o = orNop(o)

	if e.usableHeading(sec) {
		return e.extractHeaded(sec, cov, ids, o)
	}
	return e.extractParagraphs(sec, cov, ids, o)
}

// usableHeading reports whether the section heading can serve as the
// idea title: present, level <= 3, not on the generic denylist, and not
// a bare term of six characters or fewer with no space.
func (e *IdeaExtractor) usableHeading(sec *note.Section) bool {
	if sec.HeadingText == "" || sec.HeadingLevel > 3 {
		return false
	}
	norm := sanitize.Normalize(sec.HeadingText)
	if _, denied := e.denylist[norm]; denied {
		return false
	}
	if len(norm) <= 6 && !strings.Contains(norm, " ") {
		return false
	}
	return true
}

func (e *IdeaExtractor) extractHeaded(sec *note.Section, cov *CoverageSet, ids *IDGen, o Observer) []suggestion.Candidate {
	body := sec.Body()
	g := e.gate(body)
	if !g.pass() {
		o.Attempt(sec.SectionID, e.Name(), fmt.Sprintf("gate failed (total=%d)", g.total()))
		return nil
	}

	span, ok := e.bestSentenceSpan(sec, cov)
	if !ok {
		o.Attempt(sec.SectionID, e.Name(), "all candidate sentences covered")
		return nil
	}
	cov.Claim(span.Text)

	cand := newCandidate(ids, sec, suggestion.TypeIdea, sec.HeadingText,
		suggestion.IdeaPayload{
			Approach:      strings.TrimSpace(span.Text),
			MatchedTokens: g.matched,
			TokenCount:    g.total(),
		},
		[]suggestion.EvidenceSpan{span}, e.Name(), ideaConfidence(g.total()))
	o.Attempt(sec.SectionID, e.Name(), "emitted "+cand.SuggestionID+" from heading")
	return []suggestion.Candidate{cand}
}

func (e *IdeaExtractor) extractParagraphs(sec *note.Section, cov *CoverageSet, ids *IDGen, o Observer) []suggestion.Candidate {
	var out []suggestion.Candidate
	for _, p := range paragraphs(sec) {
		if len(strings.TrimSpace(p.text)) < minParagraphChars {
			continue
		}
		g := e.gate(p.text)
		if !g.pass() {
			o.Attempt(sec.SectionID, e.Name(), fmt.Sprintf("paragraph gate failed (total=%d)", g.total()))
			continue
		}
		if cov.Covered(p.text) {
			o.Attempt(sec.SectionID, e.Name(), "paragraph covered")
			continue
		}
		cov.Claim(p.text)

		title := e.deriveTitle(p.text)
		span := suggestion.EvidenceSpan{StartLine: p.startLine, EndLine: p.endLine, Text: p.text}
		cand := newCandidate(ids, sec, suggestion.TypeIdea, title,
			suggestion.IdeaPayload{
				Approach:      title,
				MatchedTokens: g.matched,
				TokenCount:    g.total(),
			},
			[]suggestion.EvidenceSpan{span}, e.Name(), ideaConfidence(g.total()))
		out = append(out, cand)
		o.Attempt(sec.SectionID, e.Name(), "emitted "+cand.SuggestionID+" from paragraph")
	}
	return out
}

// minParagraphChars filters trivially short paragraphs in heading-less
// sections.
const minParagraphChars = 20

type paragraph struct {
	text      string
	startLine int
	endLine   int
}

// paragraphs splits section body lines into blank-line-delimited blocks.
func paragraphs(sec *note.Section) []paragraph {
	var out []paragraph
	var cur *paragraph
	for _, ln := range sec.BodyLines {
		if strings.TrimSpace(ln.Text) == "" {
			if cur != nil {
				out = append(out, *cur)
				cur = nil
			}
			continue
		}
		if cur == nil {
			cur = &paragraph{text: ln.Text, startLine: ln.Index, endLine: ln.Index}
		} else {
			cur.text += "\n" + ln.Text
			cur.endLine = ln.Index
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// bestSentenceSpan picks the uncovered sentence with the highest gate
// total as the evidence span for a heading-titled idea.
func (e *IdeaExtractor) bestSentenceSpan(sec *note.Section, cov *CoverageSet) (suggestion.EvidenceSpan, bool) {
	var best *Sentence
	bestTotal := -1
	for _, s := range Sentences(sec) {
		s := s
		if cov.Covered(s.Text) {
			continue
		}
		if total := e.gate(s.Text).total(); total > bestTotal {
			best = &s
			bestTotal = total
		}
	}
	if best == nil {
		return suggestion.EvidenceSpan{}, false
	}
	return suggestion.EvidenceSpan{StartLine: best.Line, EndLine: best.Line, Text: best.Text}, true
}

// Title derivation patterns, attempted in order.
var (
	verbPhraseRegex  = regexp.MustCompile(`(?i)\b(build|create|implement|adopt|automate|integrate|migrate|introduce|launch|develop|use|ship|redesign|consolidate|streamline|prototype)\s+(?:(?:a|an|the|our)\s+)?([a-zA-Z0-9][a-zA-Z0-9 /\-]{3,50})`)
	firstClauseRegex = regexp.MustCompile(`^[^,.;]{4,}`)
)

// deriveTitle builds a title from the highest-signal sentence of a
// paragraph via ordered pattern attempts: verb-phrase noun extraction,
// then strategy-noun extraction, then first-clause fallback.
func (e *IdeaExtractor) deriveTitle(text string) string {
	sentence := e.highestSignalSentence(text)

	if m := verbPhraseRegex.FindStringSubmatch(sentence); m != nil {
		return titleFromText(m[1] + " " + m[2])
	}

	norm := sanitize.Normalize(sentence)
	for _, c := range e.constructs {
		if strings.Contains(norm, sanitize.Normalize(c)) {
			return titleFromText(c)
		}
	}
	padded := " " + norm + " "
	for _, tok := range e.strategy {
		if strings.Contains(padded, " "+sanitize.Normalize(tok)+" ") {
			return titleFromText(tok + " initiative")
		}
	}

	if m := firstClauseRegex.FindString(sentence); m != "" {
		return titleFromText(m)
	}
	return titleFromText(sentence)
}

// highestSignalSentence returns the sentence of text with the highest
// gate total, falling back to the first sentence.
func (e *IdeaExtractor) highestSignalSentence(text string) string {
	best := ""
	bestTotal := -1
	for _, line := range strings.Split(text, "\n") {
		for _, piece := range splitOnPunctuation(bulletPrefixRegex.ReplaceAllString(line, "")) {
			piece = strings.TrimSpace(piece)
			if len(piece) < minSentenceChars {
				continue
			}
			if total := e.gate(piece).total(); total > bestTotal {
				best = piece
				bestTotal = total
			}
		}
	}
	if best == "" {
		return strings.TrimSpace(text)
	}
	return best
}
