package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/suggestd/internal/config"
	"github.com/fyrsmithlabs/suggestd/internal/debugtrace"
	"github.com/fyrsmithlabs/suggestd/internal/logging"
	"github.com/fyrsmithlabs/suggestd/internal/note"
	"github.com/fyrsmithlabs/suggestd/internal/pipeline"
	"github.com/fyrsmithlabs/suggestd/internal/store"
)

var (
	analyzeNoteID    string
	analyzeDebug     bool
	analyzeVerbosity string
	analyzeSaveDebug bool
	analyzeMax       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a meeting note and emit suggestions as JSON",
	Long: `Analyze reads a note from the given file (or stdin with "-"),
runs the suggestion pipeline, and prints the run result as JSON.

Previously dismissed suggestions for the same note content are
filtered out of the result.

Examples:
  suggestd analyze notes/2026-09-01.md
  cat notes.md | suggestd analyze - --note-id weekly-sync
  suggestd analyze notes.md --debug --verbosity FULL_TEXT --save-debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeNoteID, "note-id", "", "note identifier (defaults to file basename)")
	analyzeCmd.Flags().BoolVar(&analyzeDebug, "debug", false, "record a debug trace")
	analyzeCmd.Flags().StringVar(&analyzeVerbosity, "verbosity", "", "debug verbosity: OFF, REDACTED, FULL_TEXT")
	analyzeCmd.Flags().BoolVar(&analyzeSaveDebug, "save-debug", false, "persist the debug trace instead of printing it")
	analyzeCmd.Flags().IntVar(&analyzeMax, "max", -1, "override max suggestions per note (0 = uncapped)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	raw, noteID, err := readNote(args)
	if err != nil {
		return err
	}
	if analyzeNoteID != "" {
		noteID = analyzeNoteID
	}

	pcfg := cfg.Pipeline
	if analyzeMax >= 0 {
		pcfg.MaxSuggestionsPerNote = analyzeMax
	}
	if analyzeDebug {
		pcfg.EnableDebug = true
		if analyzeVerbosity != "" {
			v, err := debugtrace.ParseVerbosity(analyzeVerbosity)
			if err != nil {
				return err
			}
			pcfg.DebugVerbosity = v
		}
		if pcfg.DebugVerbosity == debugtrace.VerbosityOff {
			pcfg.DebugVerbosity = debugtrace.VerbosityRedacted
		}
	}

	engine := pipeline.New(pcfg, logger)
	result, debugRun := engine.Run(cmd.Context(), note.Input{
		NoteID:  noteID,
		RawText: raw,
	})

	st, err := store.New(cfg.Store.Path,
		store.WithRateWindow(time.Duration(cfg.Store.RateWindowSeconds)*time.Second))
	if err != nil {
		return err
	}
	defer st.Close()

	result.FinalSuggestions, err = st.FilterDismissed(cmd.Context(), result.NoteID, result.NoteHash, result.FinalSuggestions)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if debugRun == nil {
		return nil
	}
	if analyzeSaveDebug {
		saved, err := st.SaveDebugRun(cmd.Context(), debugRun)
		if err != nil {
			return err
		}
		if saved.SkippedReason != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "debug trace computed but not stored: %s\n", saved.SkippedReason)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "debug trace stored: %s\n", saved.ArtifactID)
		}
		return nil
	}

	payload, skip, err := debugRun.Encode()
	if err != nil {
		return err
	}
	if skip != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "debug trace not printable: %s\n", skip)
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), string(payload))
	return nil
}

func readNote(args []string) (raw, noteID string, err error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "stdin", nil
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read note file: %w", err)
	}
	base := filepath.Base(args[0])
	return string(b), strings.TrimSuffix(base, filepath.Ext(base)), nil
}
