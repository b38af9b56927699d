package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Stock signal screener",
	Long: `Signal scoring engine for stock screening.

Combines technical analyzers (Ichimoku cloud, Bollinger squeeze,
moving-average alignment, cup-and-handle) and fundamental analyzers
(ROE, gross margin, leverage, capex) into one ranked score per asset.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener screen --filters ichimoku,bollinger
  go run ./cmd/screener api
  go run ./cmd/screener scheduler`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
