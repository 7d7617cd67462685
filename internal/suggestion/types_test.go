package suggestion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateDisplay(t *testing.T) {
	assert.Equal(t, "short", TruncateDisplay("short", 10))
	assert.Equal(t, "exactly ten", TruncateDisplay("exactly ten", 11))

	got := TruncateDisplay("one two three four", 7)
	assert.Equal(t, "one two…", got)
}

func TestTruncateDisplay_MultibyteSafe(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := TruncateDisplay(long, 40)

	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.Equal(t, strings.Repeat("é", 40)+"…", got)
}

func TestRebuildEvidenceDisplay(t *testing.T) {
	c := Candidate{
		EvidenceSpans: []EvidenceSpan{
			{StartLine: 1, EndLine: 1, Text: "first line"},
			{StartLine: 3, EndLine: 3, Text: strings.Repeat("long evidence ", 20)},
		},
	}
	c.RebuildEvidenceDisplay()

	assert.True(t, strings.HasPrefix(c.DisplayContext.Body, "first line\n"))
	require.Len(t, c.DisplayContext.EvidencePreview, 2)
	assert.Equal(t, "first line", c.DisplayContext.EvidencePreview[0])
	assert.True(t, strings.HasSuffix(c.DisplayContext.EvidencePreview[1], "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(c.DisplayContext.EvidencePreview[1]), 121)
}
