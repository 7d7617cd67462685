package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Extractor names recorded in candidate metadata and the debug trace.
const (
	ExtractorSignal   = "signal"
	ExtractorIdea     = "idea"
	ExtractorTimeline = "timeline"
)

// maxTitleChars caps derived titles.
const maxTitleChars = 60

// Observer receives extractor decisions for the debug trace. An
// implementation must never alter extraction outcomes; it only watches.
type Observer interface {
	Attempt(sectionID, extractor, outcome string)
}

type nopObserver struct{}

func (nopObserver) Attempt(string, string, string) {}

func orNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

// typeChoiceFallback is the type confidence used when a candidate's
// type disagrees with the section-level type label.
const typeChoiceFallback = 0.6

// newCandidate assembles a candidate with scores and display context
// filled from the section and extractor inputs. The overall score is
// left at zero; the scorer owns the composite.
func newCandidate(ids *IDGen, sec *note.Section, typ suggestion.Type, title string,
	payload suggestion.Payload, spans []suggestion.EvidenceSpan, extractor string, confidence float64,
) suggestion.Candidate {
	typeChoice := typeChoiceFallback
	if typ == sec.TypeLabel {
		typeChoice = sec.TypeScore
	}

	cand := suggestion.Candidate{
		SuggestionID:  ids.Next(),
		NoteID:        sec.NoteID,
		SectionID:     sec.SectionID,
		Type:          typ,
		Title:         title,
		Payload:       payload,
		EvidenceSpans: spans,
		Scores: suggestion.Scores{
			SectionActionability: sec.IntentScore,
			TypeChoiceConfidence: typeChoice,
			SynthesisConfidence:  confidence,
		},
		Metadata: suggestion.Metadata{
			SourceExtractor: extractor,
			Confidence:      confidence,
		},
		DisplayContext: suggestion.DisplayContext{
			Title:           title,
			SourceSectionID: sec.SectionID,
			SourceHeading:   sec.HeadingText,
		},
	}
	cand.RebuildEvidenceDisplay()
	return cand
}

// titleFromText derives a display title from free text: trims bullets
// and terminal punctuation, caps length at a word boundary, capitalizes
// the first letter. Length is measured in runes so multibyte text is
// never cut mid-character.
func titleFromText(text string) string {
	t := bulletPrefixRegex.ReplaceAllString(text, "")
	t = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(t), ".!?"))
	if runes := []rune(t); len(runes) > maxTitleChars {
		cut := string(runes[:maxTitleChars])
		if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
			cut = cut[:i]
		}
		t = strings.TrimSpace(cut)
	}
	return capitalizeFirst(t)
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
