package classify

import "github.com/fyrsmithlabs/suggestd/internal/suggestion"

// DefaultIntentRules returns the default intent rule table. Weights
// double as label confidence; the highest-weight matching rule wins.
func DefaultIntentRules() []Rule {
	return []Rule{
		// Plan changes: explicit commitments and decisions.
		{Name: "decided_to", Label: IntentPlanChange, Regex: `(?i)\b(decided to|we (decided|agreed))\b`, Weight: 0.9},
		{Name: "lets_use", Label: IntentPlanChange, Regex: `(?i)\blet'?s (go with|use|choose|pick)\b`, Weight: 0.9},
		{Name: "we_plan", Label: IntentPlanChange, Regex: `(?i)\bwe (plan|intend|aim) to\b`, Weight: 0.9},
		{Name: "will_ship", Label: IntentPlanChange, Regex: `(?i)\b(will|going to) (ship|build|deploy|launch|migrate|implement|roll out)\b`, Weight: 0.85},
		{Name: "timeline", Label: IntentPlanChange, Regex: `(?i)\b(timeline|milestone|rollout|deployment|target(ing)?|window|schedule)\b`, Weight: 0.8},
		{Name: "risk_flag", Label: IntentPlanChange, Regex: `(?i)\b(risk|blocker|concern|pii|security|logging user)\b`, Weight: 0.75},
		{Name: "bug_report", Label: IntentPlanChange, Regex: `(?i)\b(bug|crash\w*|regression|broken|failing|flaky|outage|error rate)\b`, Weight: 0.7},
		{Name: "priority_shift", Label: IntentPlanChange, Regex: `(?i)\b(urgent|critical|p0|p1|asap|escalated|deprioritized|deadline|slipped|delayed)\b`, Weight: 0.7},
		{Name: "ownership", Label: IntentPlanChange, Regex: `(?i)\b(owner|owns|assigned to|taking over|handover)\b`, Weight: 0.65},

		// Discussion: substantive but not yet committed.
		{Name: "discussed", Label: IntentDiscussion, Regex: `(?i)\b(discussed|talked about|reviewed|considered|debated|brainstormed|proposed)\b`, Weight: 0.6},
		{Name: "open_question", Label: IntentDiscussion, Regex: `(?i)\b(open question|to be decided|tbd|follow up)\b`, Weight: 0.55},

		// Generic hygiene: meeting mechanics, no extractable content.
		{Name: "attendees", Label: IntentGenericHygiene, Regex: `(?i)^\s*(attendees|present|participants)\s*[:\-]`, Weight: 0.85},
		{Name: "logistics", Label: IntentGenericHygiene, Regex: `(?i)\b(next meeting|minutes (sent|attached)|agenda for|standing agenda|thanks everyone)\b`, Weight: 0.8},

		// Out of scope: social or personal content.
		{Name: "social", Label: IntentOutOfScope, Regex: `(?i)\b(offsite|team lunch|birthday|happy hour|holiday party|social event)\b`, Weight: 0.8},
	}
}

// DefaultTypeRules returns the default suggestion-type rule table.
func DefaultTypeRules() []Rule {
	return []Rule{
		{Name: "risk_terms", Label: string(suggestion.TypeRisk), Regex: `(?i)\b(risk|pii|security|vulnerab\w*|breach|leak\w*|expos\w*|compliance)\b`, Weight: 0.8},
		{Name: "bug_terms", Label: string(suggestion.TypeBug), Regex: `(?i)\b(bug|crash\w*|regression|broken|error rate|failing|stack trace)\b`, Weight: 0.75},
		{Name: "update_terms", Label: string(suggestion.TypeProjectUpdate), Regex: `(?i)\b(timeline|milestone|deployment|launch|window|schedule|status update|progress)\b`, Weight: 0.7},
		{Name: "idea_terms", Label: string(suggestion.TypeIdea), Regex: `(?i)\b(idea|propos\w*|approach|framework|we (could|should)|what if)\b`, Weight: 0.65},
	}
}
