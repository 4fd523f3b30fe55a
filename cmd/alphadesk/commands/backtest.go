package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// backtestCmd evaluates the latest portfolio's forward performance
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Evaluate forward performance of the latest portfolio",
	Long: `Measures the realized forward return of the most recent stored
portfolio snapshot against the benchmark.

Example:
  go run ./cmd/alphadesk backtest
  go run ./cmd/alphadesk backtest --horizon 20`,
	RunE: runBacktest,
}

var backtestHorizon int

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().IntVar(&backtestHorizon, "horizon", 0, "horizon in trading days (default from strategy)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.engine.Run(ctx, time.Now().UTC().AddDate(0, 0, 1), backtestHorizon)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	if result.Constituents == 0 {
		fmt.Println("no portfolio history to evaluate")
		return nil
	}

	fmt.Printf("snapshot:     %s (%d constituents)\n", result.Date.Format("2006-01-02"), result.Constituents)
	fmt.Printf("horizon:      %d trading days\n", result.HorizonDays)
	fmt.Printf("portfolio:    %+.2f%%\n", result.TotalReturn*100)
	fmt.Printf("%-12s  %+.2f%%\n", result.Benchmark+":", result.BenchmarkReturn*100)
	fmt.Printf("alpha:        %+.2f%%\n", result.Alpha*100)
	fmt.Printf("sharpe:       %.2f\n", result.Sharpe)
	fmt.Printf("max drawdown: %.2f%%\n", result.MaxDrawdown*100)

	return nil
}
