package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/suggestd/internal/debugtrace"
	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "suggestd.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDebugRun(t *testing.T, runID, noteID string) *debugtrace.Run {
	t.Helper()
	r := debugtrace.NewRecorder(debugtrace.VerbosityRedacted)
	sec := note.Split(noteID, "# Plans\nWe plan to adopt a scoring framework.")[0]
	r.Section(sec)
	run := r.Build(runID, noteID, "abcd1234abcd1234", "", 2, 0, 0, nil)
	require.NotNil(t, run)
	return run
}

func TestDecisionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, "key-1", "n1", "hash-a"))

	d, err := s.Decision(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, StatusApplied, d.Status)
	assert.Equal(t, "n1", d.NoteID)

	// A later dismissal overwrites the applied decision.
	require.NoError(t, s.Dismiss(ctx, "key-1", "n1", "hash-a"))
	d, err = s.Decision(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDismissed, d.Status)

	missing, err := s.Decision(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDecide_EmptyKey(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Apply(context.Background(), "", "n1", "h"))
}

func TestFilterDismissed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Dismiss(ctx, "key-1", "n1", "hash-a"))

	in := []suggestion.Suggestion{
		{SuggestionID: "sg-000", SuggestionKey: "key-1"},
		{SuggestionID: "sg-001", SuggestionKey: "key-2"},
	}

	// Same note content: the dismissed key stays gone.
	out, err := s.FilterDismissed(ctx, "n1", "hash-a", in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "sg-001", out[0].SuggestionID)

	// Note content changed: the dismissal no longer applies.
	out, err = s.FilterDismissed(ctx, "n1", "hash-b", in)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestSaveDebugRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := s.SaveDebugRun(ctx, testDebugRun(t, "run-1", "n1"))
	require.NoError(t, err)
	assert.Empty(t, res.SkippedReason)
	require.NotEmpty(t, res.ArtifactID)

	payload, err := s.DebugRunPayload(ctx, "run-1")
	require.NoError(t, err)
	assert.NotEmpty(t, payload)

	missing, err := s.DebugRunPayload(ctx, "run-none")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveDebugRun_RateLimited(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := s.SaveDebugRun(ctx, testDebugRun(t, "run-1", "n1"))
	require.NoError(t, err)
	require.Empty(t, res.SkippedReason)

	// Second artifact for the same note inside the window is skipped.
	res, err = s.SaveDebugRun(ctx, testDebugRun(t, "run-2", "n1"))
	require.NoError(t, err)
	assert.Equal(t, SkipReasonRateLimited, res.SkippedReason)
	assert.Empty(t, res.ArtifactID)

	// A different note is unaffected.
	res, err = s.SaveDebugRun(ctx, testDebugRun(t, "run-3", "n2"))
	require.NoError(t, err)
	assert.Empty(t, res.SkippedReason)
}

func TestSaveDebugRun_WindowRollsOver(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }
	_, err := s.SaveDebugRun(ctx, testDebugRun(t, "run-1", "n1"))
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(DefaultRateWindow + time.Minute) }
	res, err := s.SaveDebugRun(ctx, testDebugRun(t, "run-2", "n1"))
	require.NoError(t, err)
	assert.Empty(t, res.SkippedReason)
}

func TestExpireBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base.Add(-DefaultRetention - time.Hour) }
	_, err := s.SaveDebugRun(ctx, testDebugRun(t, "run-old", "n1"))
	require.NoError(t, err)

	s.now = func() time.Time { return base }
	_, err = s.SaveDebugRun(ctx, testDebugRun(t, "run-new", "n2"))
	require.NoError(t, err)

	deleted, err := s.ExpireBefore(ctx, base.Add(-DefaultRetention), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	payload, err := s.DebugRunPayload(ctx, "run-old")
	require.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = s.DebugRunPayload(ctx, "run-new")
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}
