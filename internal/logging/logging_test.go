package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(t *testing.T) (*Logger, *observer.ObservedLogs) {
	t.Helper()
	core, observed := observer.New(zapcore.DebugLevel)
	cfg := DefaultConfig()
	return &Logger{zap: zap.New(core), config: &cfg}, observed
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	logger, err := New(&cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestContextFields(t *testing.T) {
	ctx := WithRunID(context.Background(), "01J0000000000000000000TEST")
	ctx = WithNoteID(ctx, "note-7")

	logger, observed := observedLogger(t)
	logger.Info(ctx, "analyzing")

	logs := observed.All()
	require.Len(t, logs, 1)

	fields := map[string]string{}
	for _, f := range logs[0].Context {
		fields[f.Key] = f.String
	}
	assert.Equal(t, "01J0000000000000000000TEST", fields["run_id"])
	assert.Equal(t, "note-7", fields["note_id"])
}

func TestContextFields_EmptyContext(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestRedactedString(t *testing.T) {
	field := RedactedString("raw_text", "We decided to migrate to Postgres")

	logger, observed := observedLogger(t)
	logger.Info(context.Background(), "note received", field)

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "[REDACTED:33]", logs[0].Context[0].String)
}

func TestRedactingEncoder_FieldNames(t *testing.T) {
	cfg := DefaultConfig()
	enc := NewRedactingEncoder(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		cfg.Redaction,
	)

	enc.AddString("raw_text", "the whole meeting note")
	enc.AddString("section_id", "s000")

	buf, err := enc.EncodeEntry(zapcore.Entry{}, nil)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "the whole meeting note")
	assert.Contains(t, out, "s000")
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	enc := NewRedactingEncoder(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		RedactionConfig{Enabled: false, Fields: []string{"raw_text"}},
	)

	enc.AddString("raw_text", "visible")
	buf, err := enc.EncodeEntry(zapcore.Entry{}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "visible")
}

func TestNop(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)
	logger.Info(context.Background(), "discarded")
	assert.NoError(t, logger.Sync())
}
