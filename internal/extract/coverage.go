// Package extract implements the three candidate extractors that run
// over actionable sections: signal-seeded extraction, semantic idea
// extraction, and timeline bullet merge.
//
// The extractors run in a fixed, significant order and share one
// coverage set so later extractors skip text already claimed by earlier
// ones. The coverage set is threaded through calls explicitly; nothing
// in this package holds mutable state between runs.
package extract

import "github.com/fyrsmithlabs/suggestd/internal/sanitize"

// CoverageSet tracks normalized evidence text already claimed by an
// accepted candidate within one pipeline run.
type CoverageSet struct {
	seen map[string]struct{}
}

// NewCoverageSet returns an empty coverage set for a single run.
func NewCoverageSet() *CoverageSet {
	return &CoverageSet{seen: make(map[string]struct{})}
}

// Covered reports whether the normalized form of text has already been
// claimed. Empty normalized text counts as covered so blank fragments
// never seed candidates.
func (c *CoverageSet) Covered(text string) bool {
	norm := sanitize.Normalize(text)
	if norm == "" {
		return true
	}
	_, ok := c.seen[norm]
	return ok
}

// Claim records the normalized form of text as covered.
func (c *CoverageSet) Claim(text string) {
	norm := sanitize.Normalize(text)
	if norm == "" {
		return
	}
	c.seen[norm] = struct{}{}
}

// Len returns the number of distinct claimed texts.
func (c *CoverageSet) Len() int { return len(c.seen) }
