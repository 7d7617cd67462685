package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/suggestd/internal/config"
	"github.com/fyrsmithlabs/suggestd/internal/store"
)

var (
	decideNoteID   string
	decideNoteHash string
)

var applyCmd = &cobra.Command{
	Use:   "apply <suggestion-key>",
	Short: "Record a suggestion as applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecide(cmd, args[0], store.StatusApplied)
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <suggestion-key>",
	Short: "Record a suggestion as dismissed",
	Long: `Dismiss records a decision against a suggestion key. As long as the
note content is unchanged, regenerating suggestions for that note will
not bring the dismissed suggestion back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecide(cmd, args[0], store.StatusDismissed)
	},
}

func init() {
	for _, c := range []*cobra.Command{applyCmd, dismissCmd} {
		c.Flags().StringVar(&decideNoteID, "note-id", "", "note the suggestion came from (required)")
		c.Flags().StringVar(&decideNoteHash, "note-hash", "", "note_hash from the run result (required)")
		_ = c.MarkFlagRequired("note-id")
		_ = c.MarkFlagRequired("note-hash")
	}
}

func runDecide(cmd *cobra.Command, key string, status store.Status) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path,
		store.WithRateWindow(time.Duration(cfg.Store.RateWindowSeconds)*time.Second))
	if err != nil {
		return err
	}
	defer st.Close()

	switch status {
	case store.StatusApplied:
		err = st.Apply(cmd.Context(), key, decideNoteID, decideNoteHash)
	case store.StatusDismissed:
		err = st.Dismiss(cmd.Context(), key, decideNoteID, decideNoteHash)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", status, key)
	return nil
}
