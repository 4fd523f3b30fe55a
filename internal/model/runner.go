package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/fundamentals"
	"github.com/wonny/alphadesk/internal/liquidity"
	"github.com/wonny/alphadesk/internal/portfolio"
	"github.com/wonny/alphadesk/internal/scoring"
	"github.com/wonny/alphadesk/internal/universe"
	"github.com/wonny/alphadesk/pkg/logger"
)

// Runner coordinates the daily pipeline: universe, liquidity filter,
// fundamentals, scoring, persistence, portfolio.
// SSOT: pipeline sequencing lives here only
type Runner struct {
	universeLoader  *universe.Loader
	liquidityFilter *liquidity.Filter
	fetcher         *fundamentals.Fetcher
	scorer          *scoring.Scorer
	constructor     *portfolio.Constructor

	scores     contracts.ScoreRepository
	portfolios contracts.PortfolioRepository

	logger *logger.Logger
}

// RunResult holds the outcome of a daily run
type RunResult struct {
	Date         time.Time
	UniverseSize int
	Admitted     int
	Ranked       int
	Entries      []contracts.RankEntry
	Snapshot     *contracts.PortfolioSnapshot
	Replayed     bool // true when the date was already recorded
	Duration     time.Duration
}

// NewRunner creates a new pipeline runner
func NewRunner(
	universeLoader *universe.Loader,
	liquidityFilter *liquidity.Filter,
	fetcher *fundamentals.Fetcher,
	scorer *scoring.Scorer,
	constructor *portfolio.Constructor,
	scores contracts.ScoreRepository,
	portfolios contracts.PortfolioRepository,
	logger *logger.Logger,
) *Runner {
	return &Runner{
		universeLoader:  universeLoader,
		liquidityFilter: liquidityFilter,
		fetcher:         fetcher,
		scorer:          scorer,
		constructor:     constructor,
		scores:          scores,
		portfolios:      portfolios,
		logger:          logger,
	}
}

// RunDaily executes the full pipeline for one date. Recorded dates are
// never recomputed: a second run on the same date replays the stored
// rows instead of overwriting them.
func (r *Runner) RunDaily(ctx context.Context, date time.Time) (*RunResult, error) {
	start := time.Now()
	date = RunDate(date)

	result := &RunResult{Date: date}

	r.logger.WithField("date", date.Format("2006-01-02")).Info("starting daily run")

	// A populated date short-circuits the whole pipeline
	stored, err := r.scores.GetScoresByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("check existing run: %w", err)
	}
	if len(stored) > 0 {
		snapshot, err := r.portfolios.GetSnapshotByDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("load stored snapshot: %w", err)
		}
		result.Entries = stored
		result.Ranked = len(stored)
		result.Snapshot = snapshot
		result.Replayed = true
		result.Duration = time.Since(start)
		r.logger.WithField("date", date.Format("2006-01-02")).
			Info("date already recorded, replaying stored run")
		return result, nil
	}

	univ, err := r.universeLoader.Load(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	result.UniverseSize = len(univ.Tickers)

	filtered, err := r.liquidityFilter.Apply(ctx, univ)
	if err != nil {
		return nil, fmt.Errorf("liquidity filter: %w", err)
	}
	result.Admitted = len(filtered.Admitted)

	funds := r.fetcher.FetchAll(ctx, filtered.Admitted, date)

	prevRanks, err := r.previousRanks(ctx, date)
	if err != nil {
		return nil, err
	}

	entries, err := r.scorer.Score(date, filtered.Admitted, filtered.Series, funds, prevRanks)
	if err != nil {
		return nil, fmt.Errorf("score cross-section: %w", err)
	}
	result.Entries = entries
	result.Ranked = len(entries)

	if err := r.saveScores(ctx, date, entries); err != nil {
		return nil, err
	}

	prior, err := r.priorSnapshot(ctx, date)
	if err != nil {
		return nil, err
	}

	snapshot := r.constructor.Construct(date, entries, prior)
	if err := r.savePortfolio(ctx, snapshot); err != nil {
		return nil, err
	}
	result.Snapshot = snapshot
	result.Duration = time.Since(start)

	r.logger.WithFields(map[string]interface{}{
		"date":      date.Format("2006-01-02"),
		"universe":  result.UniverseSize,
		"admitted":  result.Admitted,
		"ranked":    result.Ranked,
		"positions": snapshot.Count(),
		"duration":  result.Duration.Seconds(),
	}).Info("daily run complete")

	return result, nil
}

// previousRanks loads the prior run's ticker-to-rank mapping, nil when
// this is the first run.
func (r *Runner) previousRanks(ctx context.Context, date time.Time) (map[string]int, error) {
	prevDate, ok, err := r.scores.GetLatestRunDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("find previous run date: %w", err)
	}
	if !ok {
		return nil, nil
	}
	prevEntries, err := r.scores.GetScoresByDate(ctx, prevDate)
	if err != nil {
		return nil, fmt.Errorf("load previous run: %w", err)
	}
	ranks := make(map[string]int, len(prevEntries))
	for _, e := range prevEntries {
		ranks[e.Ticker] = e.Rank
	}
	return ranks, nil
}

// priorSnapshot loads the most recent portfolio before the run date
func (r *Runner) priorSnapshot(ctx context.Context, date time.Time) (*contracts.PortfolioSnapshot, error) {
	priorDate, ok, err := r.portfolios.GetLatestSnapshotDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("find prior snapshot date: %w", err)
	}
	if !ok {
		return nil, nil
	}
	prior, err := r.portfolios.GetSnapshotByDate(ctx, priorDate)
	if err != nil {
		return nil, fmt.Errorf("load prior snapshot: %w", err)
	}
	return prior, nil
}

// saveScores tolerates a concurrent run winning the insert race
func (r *Runner) saveScores(ctx context.Context, date time.Time, entries []contracts.RankEntry) error {
	err := r.scores.SaveDailyScores(ctx, date, entries)
	if errors.Is(err, contracts.ErrAlreadyRecorded) {
		r.logger.WithField("date", date.Format("2006-01-02")).
			Warn("scores recorded by a concurrent run, keeping stored rows")
		return nil
	}
	if err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}

func (r *Runner) savePortfolio(ctx context.Context, snapshot *contracts.PortfolioSnapshot) error {
	err := r.portfolios.SaveSnapshot(ctx, snapshot)
	if errors.Is(err, contracts.ErrAlreadyRecorded) {
		r.logger.WithField("date", snapshot.Date.Format("2006-01-02")).
			Warn("snapshot recorded by a concurrent run, keeping stored rows")
		return nil
	}
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// RunDate truncates a timestamp to its UTC calendar date, the key every
// repository row is stored under.
func RunDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
