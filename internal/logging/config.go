// Package logging wraps Zap with config-driven construction, context
// field propagation, and redaction helpers for note-derived text.
package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" koanf:"level"`
	// Format is json or console.
	Format string `json:"format" koanf:"format"`
	// Fields are constant fields attached to every entry.
	Fields map[string]string `json:"fields,omitempty" koanf:"fields"`
	// Redaction configures value redaction for note text.
	Redaction RedactionConfig `json:"redaction" koanf:"redaction"`
}

// RedactionConfig names fields whose values must never appear in logs.
type RedactionConfig struct {
	Enabled bool     `json:"enabled" koanf:"enabled"`
	Fields  []string `json:"fields,omitempty" koanf:"fields"`
}

// DefaultConfig returns a production-safe default: JSON at info with
// note text redaction on.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Redaction: RedactionConfig{
			Enabled: true,
			Fields:  []string{"raw_text", "note_text", "evidence"},
		},
	}
}

// Validate checks level and format values.
func (c *Config) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	return nil
}

func (c *Config) zapLevel() zapcore.Level {
	switch c.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
