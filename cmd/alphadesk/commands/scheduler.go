package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/alphadesk/internal/scheduler"
	"github.com/wonny/alphadesk/internal/scheduler/jobs"
)

// schedulerCmd runs the long-lived job scheduler
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the job scheduler",
	Long: `Runs the long-lived scheduler.

Jobs:
  daily_model      - weekdays 21:30 UTC, after the NYSE close
  weekly_backtest  - Saturday 08:00 UTC

Example:
  go run ./cmd/alphadesk scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	s := scheduler.New(a.log)
	if err := s.AddJob(jobs.NewDailyModelJob(a.runner, a.log)); err != nil {
		return err
	}
	if err := s.AddJob(jobs.NewWeeklyBacktestJob(a.engine, a.log)); err != nil {
		return err
	}

	s.Start()
	defer s.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	a.log.WithField("signal", sig.String()).Info("received shutdown signal")

	return nil
}
