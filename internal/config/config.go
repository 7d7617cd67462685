// Package config loads suggestd configuration from a YAML file with
// environment variable overrides.
//
// Precedence, highest to lowest:
//  1. Environment variables (SUGGESTD_PIPELINE_MAX_SUGGESTIONS_PER_NOTE, ...)
//  2. YAML config file (~/.config/suggestd/config.yaml by default)
//  3. Hardcoded defaults
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/suggestd/internal/debugtrace"
	"github.com/fyrsmithlabs/suggestd/internal/logging"
	"github.com/fyrsmithlabs/suggestd/internal/pipeline"
)

const (
	maxConfigFileSize = 1024 * 1024

	envPrefix = "SUGGESTD_"
)

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Path is the SQLite database location.
	Path string `json:"path" koanf:"path"`
	// RetentionDays is how long debug artifacts are kept.
	RetentionDays int `json:"retention_days" koanf:"retention_days"`
	// RateWindowSeconds is the rolling window allowing one debug
	// artifact per note.
	RateWindowSeconds int `json:"rate_window_seconds" koanf:"rate_window_seconds"`
}

// Config is the complete suggestd configuration.
type Config struct {
	Pipeline pipeline.Config `json:"pipeline" koanf:"pipeline"`
	Logging  logging.Config  `json:"logging" koanf:"logging"`
	Store    StoreConfig     `json:"store" koanf:"store"`
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Pipeline: pipeline.DefaultConfig(),
		Logging:  logging.DefaultConfig(),
		Store: StoreConfig{
			Path:              defaultDBPath(),
			RetentionDays:     7,
			RateWindowSeconds: 3600,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "suggestd.db"
	}
	return filepath.Join(home, ".config", "suggestd", "suggestd.db")
}

// LoadWithFile loads configuration from the given YAML file, then
// applies environment overrides, defaults, and validation. An empty
// path uses the default location; a missing file is not an error.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "suggestd", "config.yaml")
	}

	if info, err := os.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}

		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SUGGESTD_PIPELINE_MAX_SUGGESTIONS_PER_NOTE -> pipeline.max_suggestions_per_note
	// SUGGESTD_LOGGING_LEVEL -> logging.level
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal into a defaults-seeded config: keys absent from file
	// and environment keep their defaults, while explicit zero values
	// (e.g. max_suggestions_per_note: 0 for uncapped) survive.
	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Pipeline.DebugVerbosity == "" {
		cfg.Pipeline.DebugVerbosity = debugtrace.VerbosityOff
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if _, err := debugtrace.ParseVerbosity(string(c.Pipeline.DebugVerbosity)); err != nil {
		return err
	}

	th := c.Pipeline.Thresholds
	for name, v := range map[string]float64{
		"t_action":       th.TAction,
		"t_out_of_scope": th.TOutOfScope,
		"t_section_min":  th.TSectionMin,
		"t_overall_min":  th.TOverallMin,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("threshold %s out of range [0,1]: %v", name, v)
		}
	}
	if th.MinEvidenceChars < 0 {
		return fmt.Errorf("min_evidence_chars must not be negative")
	}
	if c.Pipeline.MaxSuggestionsPerNote < 0 {
		return fmt.Errorf("max_suggestions_per_note must not be negative")
	}
	if c.Store.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be at least 1")
	}
	if c.Store.RateWindowSeconds < 1 {
		return fmt.Errorf("rate_window_seconds must be at least 1")
	}
	return nil
}
