// Package store persists suggestion decisions and debug artifacts in
// SQLite. It sits outside the pipeline: the engine emits suggestions
// and traces, the store decides what survives regeneration and how long
// debug artifacts live.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/suggestd/internal/debugtrace"
	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

// Decision statuses.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusDismissed Status = "dismissed"
)

// Skip reasons reported by SaveDebugRun when an artifact is computed
// but not persisted.
const (
	SkipReasonRateLimited = "rate_limited"
)

const (
	// DefaultRateWindow allows one debug artifact per note per rolling
	// window.
	DefaultRateWindow = time.Hour

	// DefaultRetention is how long debug artifacts are kept.
	DefaultRetention = 7 * 24 * time.Hour

	defaultExpireBatch = 500
)

// Decision is one stored apply/dismiss record, keyed by suggestion_key.
type Decision struct {
	SuggestionKey string    `json:"suggestion_key"`
	NoteID        string    `json:"note_id"`
	NoteHash      string    `json:"note_hash"`
	Status        Status    `json:"status"`
	DecidedAt     time.Time `json:"decided_at"`
}

// SaveResult reports the outcome of persisting a debug artifact.
type SaveResult struct {
	// ArtifactID is the stored row ID, empty when skipped.
	ArtifactID string `json:"artifact_id,omitempty"`
	// SkippedReason is empty on success, otherwise rate_limited or
	// payload_too_large.
	SkippedReason string `json:"skipped_reason,omitempty"`
}

// Store wraps the SQLite database holding decisions and debug
// artifacts.
type Store struct {
	db         *sql.DB
	rateWindow time.Duration
	now        func() time.Time
}

// Option adjusts store construction.
type Option func(*Store)

// WithRateWindow overrides the debug-artifact rate window.
func WithRateWindow(d time.Duration) Option {
	return func(s *Store) { s.rateWindow = d }
}

// New opens or creates the database at dbPath and runs migrations.
func New(dbPath string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{
		db:         db,
		rateWindow: DefaultRateWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		suggestion_key TEXT PRIMARY KEY,
		note_id        TEXT NOT NULL,
		note_hash      TEXT NOT NULL,
		status         TEXT NOT NULL,
		decided_at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_note ON decisions(note_id);

	CREATE TABLE IF NOT EXISTS debug_artifacts (
		id         TEXT PRIMARY KEY,
		run_id     TEXT NOT NULL UNIQUE,
		note_id    TEXT NOT NULL,
		verbosity  TEXT NOT NULL,
		payload    BLOB NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_debug_note_created ON debug_artifacts(note_id, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Apply records an applied decision for a suggestion key.
func (s *Store) Apply(ctx context.Context, key, noteID, noteHash string) error {
	return s.decide(ctx, key, noteID, noteHash, StatusApplied)
}

// Dismiss records a dismissed decision for a suggestion key.
func (s *Store) Dismiss(ctx context.Context, key, noteID, noteHash string) error {
	return s.decide(ctx, key, noteID, noteHash, StatusDismissed)
}

func (s *Store) decide(ctx context.Context, key, noteID, noteHash string, status Status) error {
	if key == "" {
		return fmt.Errorf("suggestion key is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (suggestion_key, note_id, note_hash, status, decided_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(suggestion_key) DO UPDATE SET
		   note_hash = excluded.note_hash,
		   status = excluded.status,
		   decided_at = excluded.decided_at`,
		key, noteID, noteHash, status, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// Decision fetches the stored decision for a key, or nil when none
// exists.
func (s *Store) Decision(ctx context.Context, key string) (*Decision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT suggestion_key, note_id, note_hash, status, decided_at
		 FROM decisions WHERE suggestion_key = ?`, key)

	var d Decision
	var decidedAt string
	err := row.Scan(&d.SuggestionKey, &d.NoteID, &d.NoteHash, &d.Status, &decidedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load decision: %w", err)
	}
	d.DecidedAt, _ = time.Parse(time.RFC3339, decidedAt)
	return &d, nil
}

// FilterDismissed drops suggestions whose key was dismissed for the
// same note content. When noteHash differs from the hash stored with
// the dismissal the note has changed, and the suggestion may return.
func (s *Store) FilterDismissed(ctx context.Context, noteID, noteHash string, in []suggestion.Suggestion) ([]suggestion.Suggestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT suggestion_key FROM decisions
		 WHERE note_id = ? AND note_hash = ? AND status = ?`,
		noteID, noteHash, StatusDismissed)
	if err != nil {
		return nil, fmt.Errorf("load dismissals: %w", err)
	}
	defer rows.Close()

	dismissed := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		dismissed[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]suggestion.Suggestion, 0, len(in))
	for _, sg := range in {
		if _, ok := dismissed[sg.SuggestionKey]; ok {
			continue
		}
		out = append(out, sg)
	}
	return out, nil
}

// SaveDebugRun persists a debug artifact, enforcing the payload ceiling
// and the per-note rate window. A skipped artifact is not an error; the
// result carries the reason.
func (s *Store) SaveDebugRun(ctx context.Context, run *debugtrace.Run) (*SaveResult, error) {
	if run == nil {
		return nil, fmt.Errorf("debug run is nil")
	}

	payload, skip, err := run.Encode()
	if err != nil {
		return nil, err
	}
	if skip != "" {
		return &SaveResult{SkippedReason: skip}, nil
	}

	now := s.now().UTC()
	windowStart := now.Add(-s.rateWindow).Format(time.RFC3339)

	var recent int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM debug_artifacts WHERE note_id = ? AND created_at >= ?`,
		run.NoteSummary.NoteID, windowStart).Scan(&recent)
	if err != nil {
		return nil, fmt.Errorf("check rate window: %w", err)
	}
	if recent > 0 {
		return &SaveResult{SkippedReason: SkipReasonRateLimited}, nil
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO debug_artifacts (id, run_id, note_id, verbosity, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, run.Meta.RunID, run.NoteSummary.NoteID, string(run.Meta.Verbosity),
		payload, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert debug artifact: %w", err)
	}
	return &SaveResult{ArtifactID: id}, nil
}

// DebugRunPayload loads the serialized artifact for a run ID, or nil
// when none is stored.
func (s *Store) DebugRunPayload(ctx context.Context, runID string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM debug_artifacts WHERE run_id = ?`, runID)

	var payload []byte
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load debug artifact: %w", err)
	}
	return payload, nil
}

// ExpireBefore deletes debug artifacts created before cutoff, in
// batches, and returns how many rows were removed.
func (s *Store) ExpireBefore(ctx context.Context, cutoff time.Time, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = defaultExpireBatch
	}
	cut := cutoff.UTC().Format(time.RFC3339)

	total := 0
	for {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM debug_artifacts WHERE id IN (
			   SELECT id FROM debug_artifacts WHERE created_at < ? LIMIT ?
			 )`, cut, batchSize)
		if err != nil {
			return total, fmt.Errorf("expire debug artifacts: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += int(n)
		if n < int64(batchSize) {
			return total, nil
		}
	}
}
