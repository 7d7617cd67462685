package classify

import (
	"testing"

	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

func classifyText(t *testing.T, text string) *note.Section {
	t.Helper()
	secs := note.Split("n1", text)
	if len(secs) != 1 {
		t.Fatalf("expected 1 section, got %d", len(secs))
	}
	New(DefaultConfig()).Classify(secs[0])
	return secs[0]
}

func TestClassify_PlanChangeIsActionable(t *testing.T) {
	sec := classifyText(t, "We decided to migrate the billing service to the new queue.")

	if sec.IntentLabel != IntentPlanChange {
		t.Errorf("IntentLabel = %q, want %q", sec.IntentLabel, IntentPlanChange)
	}
	if !sec.IsActionable {
		t.Error("plan-change section should be actionable")
	}
	if sec.Drop != nil {
		t.Errorf("unexpected drop: %+v", sec.Drop)
	}
}

func TestClassify_DiscussionIsActionable(t *testing.T) {
	// Discussion sections enter extraction; the idea gate decides
	// whether anything comes out of them.
	sec := classifyText(t, "We discussed the approach to handling customer feedback at the meeting.")

	if sec.IntentLabel != IntentDiscussion {
		t.Errorf("IntentLabel = %q, want %q", sec.IntentLabel, IntentDiscussion)
	}
	if !sec.IsActionable {
		t.Error("discussion section should be actionable")
	}
}

func TestClassify_BugAndPriorityAreActionable(t *testing.T) {
	// Defect reports and priority shifts carry no decision verbs, but
	// they still need to reach extraction so the bug and priority
	// signal families can fire.
	tests := []struct {
		name string
		text string
		want suggestion.Type
	}{
		{"bug report", "The importer crashes when the CSV has a BOM.", suggestion.TypeBug},
		{"priority shift", "The billing fix is urgent and the launch has slipped.", suggestion.TypeProjectUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := classifyText(t, tt.text)
			if sec.IntentLabel != IntentPlanChange {
				t.Errorf("IntentLabel = %q, want %q", sec.IntentLabel, IntentPlanChange)
			}
			if !sec.IsActionable {
				t.Error("section should be actionable")
			}
			if sec.TypeLabel != tt.want {
				t.Errorf("TypeLabel = %q, want %q", sec.TypeLabel, tt.want)
			}
		})
	}
}

func TestClassify_HygieneNotActionable(t *testing.T) {
	sec := classifyText(t, "Attendees: alice, bob, carol\nNext meeting moved to Thursday.")

	if sec.IsActionable {
		t.Error("hygiene section should not be actionable")
	}
	if sec.Drop == nil || sec.Drop.Reason != suggestion.ReasonNotActionable {
		t.Errorf("Drop = %+v, want NOT_ACTIONABLE", sec.Drop)
	}
	if sec.Drop.Stage != suggestion.StageClassification {
		t.Errorf("Drop.Stage = %q, want CLASSIFICATION", sec.Drop.Stage)
	}
}

func TestClassify_OutOfScopeSuppressed(t *testing.T) {
	sec := classifyText(t, "Planning the team lunch and the holiday party for December.")

	if sec.IsActionable {
		t.Error("out-of-scope section should not be actionable")
	}
	if sec.Drop == nil || sec.Drop.Reason != suggestion.ReasonSuppressedSection {
		t.Errorf("Drop = %+v, want SUPPRESSED_SECTION", sec.Drop)
	}
}

func TestClassify_TotalFunction(t *testing.T) {
	// Every section gets exactly one label pair, even with no matches.
	sec := classifyText(t, "zzzz qqqq wwww")

	if sec.IntentLabel == "" || sec.TypeLabel == "" {
		t.Errorf("labels missing: intent=%q type=%q", sec.IntentLabel, sec.TypeLabel)
	}
	if sec.IntentScore <= 0 || sec.TypeScore <= 0 {
		t.Errorf("scores missing: intent=%f type=%f", sec.IntentScore, sec.TypeScore)
	}
	if sec.IsActionable {
		t.Error("no-signal section should fall below the action threshold")
	}
}

func TestClassify_TypeLabels(t *testing.T) {
	tests := []struct {
		name string
		text string
		want suggestion.Type
	}{
		{"risk", "There is a security risk around PII in the export flow.", suggestion.TypeRisk},
		{"bug", "The importer crashes when the CSV has a BOM.", suggestion.TypeBug},
		{"update", "Deployment timeline moved to the next milestone.", suggestion.TypeProjectUpdate},
		{"idea", "We could use a scoring framework for triage. That is the proposal.", suggestion.TypeIdea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := classifyText(t, tt.text)
			if sec.TypeLabel != tt.want {
				t.Errorf("TypeLabel = %q, want %q", sec.TypeLabel, tt.want)
			}
		})
	}
}
