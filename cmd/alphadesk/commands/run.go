package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runCmd executes the daily pipeline once
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily scoring pipeline",
	Long: `Runs the full pipeline for one date: universe, liquidity filter,
fundamentals, factor scoring, persistence, portfolio construction.

A date that is already recorded replays the stored rows instead of
recomputing them.

Example:
  go run ./cmd/alphadesk run
  go run ./cmd/alphadesk run --date 2026-08-28`,
	RunE: runDaily,
}

var runDate string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "run date YYYY-MM-DD (default today)")
}

func runDaily(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	date := time.Now().UTC()
	if runDate != "" {
		parsed, err := time.Parse("2006-01-02", runDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", runDate)
		}
		date = parsed
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.runner.RunDaily(ctx, date)
	if err != nil {
		return fmt.Errorf("daily run: %w", err)
	}

	fmt.Printf("date:      %s\n", result.Date.Format("2006-01-02"))
	if result.Replayed {
		fmt.Println("replayed:  stored rows, nothing recomputed")
	} else {
		fmt.Printf("universe:  %d\n", result.UniverseSize)
		fmt.Printf("admitted:  %d\n", result.Admitted)
	}
	fmt.Printf("ranked:    %d\n", result.Ranked)
	if result.Snapshot != nil {
		fmt.Printf("positions: %d\n", result.Snapshot.Count())
		for _, pos := range result.Snapshot.Positions {
			fmt.Printf("  %2d  %-6s %.4f\n", pos.Rank, pos.Ticker, pos.Weight)
		}
	}
	fmt.Printf("duration:  %.1fs\n", result.Duration.Seconds())

	return nil
}
