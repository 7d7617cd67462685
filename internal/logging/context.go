package logging

import (
	"context"

	"go.uber.org/zap"
)

type contextKey int

const (
	runIDKey contextKey = iota
	noteIDKey
)

// WithRunID attaches a pipeline run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithNoteID attaches a note ID to the context.
func WithNoteID(ctx context.Context, noteID string) context.Context {
	return context.WithValue(ctx, noteIDKey, noteID)
}

// ContextFields extracts log fields from the context. Missing values
// produce no fields.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		fields = append(fields, zap.String("run_id", v))
	}
	if v, ok := ctx.Value(noteIDKey).(string); ok && v != "" {
		fields = append(fields, zap.String("note_id", v))
	}
	return fields
}
