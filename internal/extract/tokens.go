package extract

import "github.com/fyrsmithlabs/suggestd/internal/suggestion"

// SignalFamily is one token family scored against sentences by the
// signal-seeded extractor. Tokens match as whole words, case-insensitive.
type SignalFamily struct {
	Name       string
	Type       suggestion.Type
	Tokens     []string
	Threshold  int // minimum token hits for a sentence to seed a candidate
	Confidence float64
}

// DefaultSignalFamilies returns the default signal-token families.
// Timeline signals are deliberately absent: sections with a timeline
// heading are owned by the timeline-merge extractor, and per-sentence
// deadline signals carry the remaining date-bearing content.
func DefaultSignalFamilies() []SignalFamily {
	return []SignalFamily{
		{
			Name:       "priority",
			Type:       suggestion.TypeProjectUpdate,
			Tokens:     []string{"urgent", "critical", "p0", "p1", "asap", "blocker", "deprioritized", "escalated"},
			Threshold:  1,
			Confidence: 0.68,
		},
		{
			Name:       "ownership",
			Type:       suggestion.TypeProjectUpdate,
			Tokens:     []string{"owner", "owns", "assigned", "responsible", "handover", "taking over", "lead"},
			Threshold:  1,
			Confidence: 0.66,
		},
		{
			Name:       "deadline",
			Type:       suggestion.TypeProjectUpdate,
			Tokens:     []string{"deadline", "due", "slipped", "delayed", "pushed back", "moved up"},
			Threshold:  1,
			Confidence: 0.67,
		},
		{
			Name:       "risk",
			Type:       suggestion.TypeRisk,
			Tokens:     []string{"risk", "pii", "security", "vulnerability", "breach", "exposed", "leaking", "plaintext", "compliance"},
			Threshold:  1,
			Confidence: 0.72,
		},
		{
			Name:       "bug",
			Type:       suggestion.TypeBug,
			Tokens:     []string{"bug", "crash", "crashes", "regression", "broken", "failing", "flaky", "outage"},
			Threshold:  1,
			Confidence: 0.70,
		},
	}
}

// Idea-gate token buckets. A section or paragraph qualifies for an idea
// candidate only when the composite gate passes: total weighted matches
// >= 2, at least one strategy-or-construct match, and at least one
// mechanism-or-construct match. Constructs are multi-word substrings
// and weigh double.

// DefaultStrategyTokens are whole-word strategy nouns.
func DefaultStrategyTokens() []string {
	return []string{
		"strategy", "roadmap", "framework", "automation", "prioritization",
		"scoring", "platform", "architecture", "migration", "consolidation",
		"workflow", "pipeline", "dashboard", "onboarding", "retention",
		"personalization", "segmentation", "triage",
	}
}

// DefaultMechanismVerbs are whole-word verbs describing how an idea
// would be realized.
func DefaultMechanismVerbs() []string {
	return []string{
		"build", "create", "implement", "automate", "integrate", "migrate",
		"adopt", "use", "introduce", "consolidate", "streamline", "launch",
		"develop", "ship", "redesign", "prototype",
	}
}

// DefaultFeatureConstructs are multi-word feature phrases matched as
// substrings and weighted double in the gate total.
func DefaultFeatureConstructs() []string {
	return []string{
		"scoring framework", "feedback loop", "self-serve", "self serve",
		"user dashboard", "admin panel", "a/b testing", "rate limiting",
		"single sign-on", "search index", "recommendation engine",
		"notification system", "billing portal", "api gateway",
		"design system", "data warehouse", "feature flags",
	}
}

// DefaultHeadingDenylist lists generic headings that must never be used
// verbatim as idea titles. Any bare heading of six characters or fewer
// with no space is also rejected.
func DefaultHeadingDenylist() []string {
	return []string{
		"overview", "summary", "notes", "agenda", "misc", "general",
		"update", "updates", "discussion", "details", "recap", "minutes",
		"meeting notes", "discussion details", "topics", "other",
	}
}
