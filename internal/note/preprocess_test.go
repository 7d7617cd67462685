package note

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_HeadingDelimited(t *testing.T) {
	raw := strings.Join([]string{
		"# Weekly Sync",
		"General catch-up.",
		"",
		"## Implementation Timeline",
		"- Ham Light deployment: 3-month window",
		"- Target early January for launch",
		"",
		"## Risks",
		"We are logging user ids in plaintext.",
	}, "\n")

	secs := Split("n1", raw)
	require.Len(t, secs, 3)

	assert.Equal(t, "s000", secs[0].SectionID)
	assert.Equal(t, "Weekly Sync", secs[0].HeadingText)
	assert.Equal(t, 1, secs[0].HeadingLevel)
	assert.Equal(t, 0, secs[0].StartLine)
	assert.Equal(t, 2, secs[0].EndLine)

	assert.Equal(t, "Implementation Timeline", secs[1].HeadingText)
	assert.Equal(t, 2, secs[1].HeadingLevel)
	assert.Equal(t, 3, secs[1].StartLine)
	require.Len(t, secs[1].BodyLines, 3)
	assert.Equal(t, 4, secs[1].BodyLines[0].Index)
	assert.Contains(t, secs[1].Body(), "3-month window")

	assert.Equal(t, "Risks", secs[2].HeadingText)
	assert.Equal(t, 8, secs[2].EndLine)
}

func TestSplit_NoHeadings(t *testing.T) {
	raw := "Just a flat note.\nWith two lines."
	secs := Split("n1", raw)
	require.Len(t, secs, 1)

	sec := secs[0]
	assert.Empty(t, sec.HeadingText)
	assert.Equal(t, 0, sec.StartLine)
	assert.Equal(t, 1, sec.EndLine)
	assert.Equal(t, raw, sec.RawText)
	assert.Equal(t, raw, sec.Body())
}

func TestSplit_PreambleBeforeFirstHeading(t *testing.T) {
	raw := "Attendees: alice, bob\n\n# Topics\n- caching"
	secs := Split("n1", raw)
	require.Len(t, secs, 2)
	assert.Empty(t, secs[0].HeadingText)
	assert.Contains(t, secs[0].RawText, "Attendees")
	assert.Equal(t, "Topics", secs[1].HeadingText)
}

func TestSplit_EmptyInput(t *testing.T) {
	assert.Empty(t, Split("n1", ""))
	assert.Empty(t, Split("n1", "  \n \t\n"))
}

func TestSplit_HeadingOnlyDocument(t *testing.T) {
	secs := Split("n1", "# Lonely heading")
	require.Len(t, secs, 1)
	assert.Equal(t, "Lonely heading", secs[0].HeadingText)
	assert.Empty(t, secs[0].BodyLines)
	assert.Empty(t, secs[0].Body())
}

func TestSplit_SectionIDsAreDeterministic(t *testing.T) {
	raw := "# A\nx\n# B\ny"
	first := Split("n1", raw)
	second := Split("n1", raw)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].SectionID, second[i].SectionID)
	}
}
