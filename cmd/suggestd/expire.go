package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/suggestd/internal/config"
	"github.com/fyrsmithlabs/suggestd/internal/store"
)

var (
	expireOlderThanDays int
	expireBatchSize     int
)

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Delete debug artifacts past the retention window",
	Long: `Expire deletes stored debug artifacts older than the retention
window, in batches. The window defaults to the configured
store.retention_days.`,
	RunE: runExpire,
}

func init() {
	expireCmd.Flags().IntVar(&expireOlderThanDays, "older-than", 0, "override retention in days")
	expireCmd.Flags().IntVar(&expireBatchSize, "batch-size", 500, "rows deleted per batch")
}

func runExpire(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return err
	}

	days := cfg.Store.RetentionDays
	if expireOlderThanDays > 0 {
		days = expireOlderThanDays
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	cutoff := time.Now().AddDate(0, 0, -days)
	deleted, err := st.ExpireBefore(cmd.Context(), cutoff, expireBatchSize)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d debug artifacts older than %d days\n", deleted, days)
	return nil
}
