// Package main implements the suggestd CLI: analyze meeting notes into
// suggestions, record apply/dismiss decisions, and expire old debug
// artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the YAML config file, empty for the default path.
	configPath string
	// version information, stamped at build time.
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "suggestd",
	Short: "Deterministic suggestion engine for meeting notes",
	Long: `suggestd turns free-form meeting-note text into a small set of
evidence-grounded, scored suggestions (ideas, project updates, risks,
bugs), with an optional debug trace explaining every drop.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the suggestd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/suggestd/config.yaml)")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(expireCmd)
	rootCmd.AddCommand(versionCmd)
}
