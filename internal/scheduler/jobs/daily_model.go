package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/alphadesk/internal/model"
	"github.com/wonny/alphadesk/pkg/logger"
)

// DailyModelJob runs the full scoring pipeline after the US close
// SSOT: the daily run schedule lives in this job only
type DailyModelJob struct {
	runner *model.Runner
	logger *logger.Logger
}

// NewDailyModelJob creates a new daily model job
func NewDailyModelJob(runner *model.Runner, log *logger.Logger) *DailyModelJob {
	return &DailyModelJob{runner: runner, logger: log}
}

// Name returns the job name
func (j *DailyModelJob) Name() string {
	return "daily_model"
}

// Schedule returns the cron schedule. 21:30 UTC is an hour after the
// NYSE close, leaving time for provider data to settle.
func (j *DailyModelJob) Schedule() string {
	return "0 30 21 * * 1-5"
}

// Run executes the daily pipeline for today
func (j *DailyModelJob) Run(ctx context.Context) error {
	result, err := j.runner.RunDaily(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("daily run: %w", err)
	}

	positions := 0
	if result.Snapshot != nil {
		positions = result.Snapshot.Count()
	}
	j.logger.WithFields(map[string]interface{}{
		"date":      result.Date.Format("2006-01-02"),
		"ranked":    result.Ranked,
		"positions": positions,
		"replayed":  result.Replayed,
	}).Info("scheduled daily run finished")

	return nil
}
