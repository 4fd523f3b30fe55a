package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/alphadesk/internal/strategy"
)

// statusCmd reports system and data status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system and data status",
	Long: `Shows the database health, the active strategy, and the most
recent recorded run and portfolio snapshot.

Example:
  go run ./cmd/alphadesk status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	health, err := a.db.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("database:  unhealthy (%v)\n", err)
	} else {
		fmt.Printf("database:  healthy, %d/%d conns, ping %s\n",
			health.TotalConns, health.MaxConns, health.ResponseTime)
	}
	fmt.Printf("redis:     enabled=%v\n", a.redis.Enabled())

	hash, err := strategy.Hash(a.strategy)
	if err != nil {
		return fmt.Errorf("hash strategy: %w", err)
	}
	fmt.Printf("strategy:  %s v%s (%s)\n",
		a.strategy.Meta.StrategyID, a.strategy.Meta.Version, hash[:12])
	fmt.Printf("universe:  %s, top %d, entry %d, exit %d\n",
		a.cfg.UniverseSource,
		a.strategy.Portfolio.TopN,
		a.strategy.Portfolio.EntryThreshold,
		a.strategy.Portfolio.ExitThreshold)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	if date, ok, err := a.scores.GetLatestRunDate(ctx, tomorrow); err != nil {
		return fmt.Errorf("latest run date: %w", err)
	} else if ok {
		fmt.Printf("last run:  %s\n", date.Format("2006-01-02"))
	} else {
		fmt.Println("last run:  none")
	}

	if date, ok, err := a.portfolios.GetLatestSnapshotDate(ctx, tomorrow); err != nil {
		return fmt.Errorf("latest snapshot date: %w", err)
	} else if ok {
		snapshot, err := a.portfolios.GetSnapshotByDate(ctx, date)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		fmt.Printf("portfolio: %s, %d positions\n", date.Format("2006-01-02"), snapshot.Count())
	} else {
		fmt.Println("portfolio: none")
	}

	return nil
}
