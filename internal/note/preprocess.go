package note

import (
	"fmt"
	"regexp"
	"strings"
)

// headingRegex matches markdown ATX headings (# through ######).
var headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)

// Split divides raw note text into ordered sections on heading markers.
//
// A document with no headings becomes one section covering the whole
// document. Lines before the first heading form their own section.
// Empty input yields zero sections. Split never fails: malformed text
// still produces at least one section.
func Split(noteID, raw string) []*Section {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	lines := strings.Split(raw, "\n")

	type block struct {
		start   int
		end     int // inclusive
		heading string
		level   int
	}

	var blocks []block
	var cur *block
	for i, line := range lines {
		if m := headingRegex.FindStringSubmatch(line); m != nil {
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			cur = &block{start: i, end: i, heading: m[2], level: len(m[1])}
			continue
		}
		if cur == nil {
			cur = &block{start: i, end: i}
		} else {
			cur.end = i
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}

	sections := make([]*Section, 0, len(blocks))
	for _, b := range blocks {
		rawText := strings.Join(lines[b.start:b.end+1], "\n")
		if strings.TrimSpace(rawText) == "" {
			continue
		}

		sec := &Section{
			SectionID:    fmt.Sprintf("s%03d", len(sections)),
			NoteID:       noteID,
			StartLine:    b.start,
			EndLine:      b.end,
			HeadingText:  b.heading,
			HeadingLevel: b.level,
			RawText:      rawText,
		}

		bodyStart := b.start
		if b.heading != "" {
			bodyStart = b.start + 1
		}
		for i := bodyStart; i <= b.end; i++ {
			sec.BodyLines = append(sec.BodyLines, Line{Index: i, Text: lines[i]})
		}

		sections = append(sections, sec)
	}

	return sections
}
