package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "alphadesk",
	Short: "alphadesk - multi-factor US equity ranking engine",
	Long: `alphadesk Unified CLI

Daily multi-factor scoring over a US equity universe, a rank-buffered
Top-N portfolio, and forward performance measurement against SPY.

Usage:
  go run ./cmd/alphadesk [command]

Examples:
  go run ./cmd/alphadesk run
  go run ./cmd/alphadesk backtest --horizon 60
  go run ./cmd/alphadesk api
  go run ./cmd/alphadesk scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default is built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
