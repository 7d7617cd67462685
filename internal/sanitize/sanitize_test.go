package sanitize

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Build User Dashboard", "build user dashboard"},
		{"punctuation stripped", "Build User Dashboard!", "build user dashboard"},
		{"whitespace collapsed", "Build   user \t dashboard", "build user dashboard"},
		{"leading trailing trimmed", "  hello world  ", "hello world"},
		{"punctuation separates words", "a,b.c", "a b c"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
		{"numbers kept", "Q3 2026 plan", "q3 2026 plan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	d1 := Digest("some note text")
	d2 := Digest("some note text")
	d3 := Digest("other note text")

	if d1 != d2 {
		t.Errorf("Digest not deterministic: %q != %q", d1, d2)
	}
	if d1 == d3 {
		t.Errorf("Digest collision for different inputs: %q", d1)
	}
	if len(d1) != DigestLength {
		t.Errorf("Digest length = %d, want %d", len(d1), DigestLength)
	}
}

func TestKeyDigest(t *testing.T) {
	k1 := KeyDigest("n1", "s001", "idea", "build user dashboard")
	k2 := KeyDigest("n1", "s001", "idea", "build user dashboard")
	if k1 != k2 {
		t.Errorf("KeyDigest not deterministic")
	}

	// Any differing component must change the key.
	variants := []string{
		KeyDigest("n2", "s001", "idea", "build user dashboard"),
		KeyDigest("n1", "s002", "idea", "build user dashboard"),
		KeyDigest("n1", "s001", "risk", "build user dashboard"),
		KeyDigest("n1", "s001", "idea", "ship admin panel"),
	}
	for i, v := range variants {
		if v == k1 {
			t.Errorf("variant %d produced identical key", i)
		}
	}
}

func TestKeyDigest_ComponentTruncationIsRuneBased(t *testing.T) {
	// Components are capped at MaxKeyComponentLength runes, never cut
	// inside a multibyte rune. Two titles sharing the same rune prefix
	// beyond the cap must produce the same key.
	prefix := strings.Repeat("é", MaxKeyComponentLength)
	a := KeyDigest("n1", "s001", "idea", prefix+"trailing a")
	b := KeyDigest("n1", "s001", "idea", prefix+"trailing b")
	if a != b {
		t.Errorf("keys differ beyond the component cap: %q != %q", a, b)
	}

	short := KeyDigest("n1", "s001", "idea", strings.Repeat("é", MaxKeyComponentLength-1))
	if short == a {
		t.Errorf("distinct sub-cap title produced identical key")
	}
}
