package extract

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/suggestd/internal/note"
)

// Sentence is one sentence of a section body, tagged with the note line
// it came from.
type Sentence struct {
	Text string
	Line int
}

// bulletPrefixRegex strips list markers from the front of a line.
var bulletPrefixRegex = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)

// minSentenceChars filters out fragments too short to carry a signal.
const minSentenceChars = 3

// Sentences splits a section body into sentences using sentence
// punctuation and newlines as breakpoints. Every bullet line is its own
// sentence (or several); a bulleted list never collapses into one
// run-on sentence.
func Sentences(sec *note.Section) []Sentence {
	var out []Sentence
	for _, ln := range sec.BodyLines {
		text := bulletPrefixRegex.ReplaceAllString(ln.Text, "")
		for _, piece := range splitOnPunctuation(text) {
			piece = strings.TrimSpace(piece)
			if len(piece) < minSentenceChars {
				continue
			}
			out = append(out, Sentence{Text: piece, Line: ln.Index})
		}
	}
	return out
}

// splitOnPunctuation splits a single line on '.', '!' and '?'.
// Terminators stay attached to their sentence.
func splitOnPunctuation(line string) []string {
	var pieces []string
	var b strings.Builder
	for _, r := range line {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			pieces = append(pieces, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		pieces = append(pieces, b.String())
	}
	return pieces
}
