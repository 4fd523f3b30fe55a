package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/alphadesk/internal/backtest"
	"github.com/wonny/alphadesk/pkg/logger"
)

// WeeklyBacktestJob evaluates the forward performance of the latest
// snapshot every weekend, when no new data is arriving.
type WeeklyBacktestJob struct {
	engine *backtest.Engine
	logger *logger.Logger
}

// NewWeeklyBacktestJob creates a new weekly backtest job
func NewWeeklyBacktestJob(engine *backtest.Engine, log *logger.Logger) *WeeklyBacktestJob {
	return &WeeklyBacktestJob{engine: engine, logger: log}
}

// Name returns the job name
func (j *WeeklyBacktestJob) Name() string {
	return "weekly_backtest"
}

// Schedule returns the cron schedule (Saturday 08:00 UTC)
func (j *WeeklyBacktestJob) Schedule() string {
	return "0 0 8 * * 6"
}

// Run evaluates the most recent snapshot at the configured horizon
func (j *WeeklyBacktestJob) Run(ctx context.Context) error {
	result, err := j.engine.Run(ctx, time.Now().UTC(), 0)
	if err != nil {
		return fmt.Errorf("weekly backtest: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":             result.Date.Format("2006-01-02"),
		"constituents":     result.Constituents,
		"total_return":     result.TotalReturn,
		"benchmark_return": result.BenchmarkReturn,
		"alpha":            result.Alpha,
		"sharpe":           result.Sharpe,
		"max_drawdown":     result.MaxDrawdown,
		"beat_benchmark":   result.Beat(),
	}).Info("weekly backtest finished")

	return nil
}
