// Package sanitize provides shared text normalization for the suggestion
// engine.
//
// Evidence grounding, coverage tracking, and suggestion keys all compare
// note text after normalization. Every component that compares text MUST
// go through Normalize so the comparisons agree with each other.
package sanitize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

const (
	// DigestLength is the length of hex digests produced by Digest.
	// 16 hex chars (64 bits) is enough to keep keys collision-free at
	// per-note scale while staying readable in logs and URLs.
	DigestLength = 16

	// MaxKeyComponentLength caps individual key components before they
	// are joined and digested.
	MaxKeyComponentLength = 128
)

// Normalize lowercases s, strips punctuation, and collapses runs of
// whitespace into single spaces.
//
// Examples:
//
//	"Build User Dashboard!"   -> "build user dashboard"
//	"Build   user  dashboard" -> "build user dashboard"
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// Punctuation separates words rather than gluing them.
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// Digest returns the first DigestLength hex characters of the SHA-256
// digest of s. Used for note hashes and suggestion keys.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:DigestLength]
}

// KeyDigest joins the given components with '|' and digests the result.
// Components longer than MaxKeyComponentLength runes are truncated on a
// rune boundary before joining so a pathological title cannot produce
// unbounded key inputs and multibyte text cannot be split mid-rune.
func KeyDigest(components ...string) string {
	trimmed := make([]string, len(components))
	for i, c := range components {
		if runes := []rune(c); len(runes) > MaxKeyComponentLength {
			c = string(runes[:MaxKeyComponentLength])
		}
		trimmed[i] = c
	}
	return Digest(strings.Join(trimmed, "|"))
}
