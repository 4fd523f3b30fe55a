package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyRecorded is returned when a day's rows already exist.
// Persisted dates are append-only and never overwritten.
var ErrAlreadyRecorded = errors.New("rows already recorded for date")

// ScoreRepository persists daily RankEntry rows (daily_scores)
type ScoreRepository interface {
	// SaveDailyScores writes a full day's batch in one transaction.
	// Returns ErrAlreadyRecorded if the date already has rows.
	SaveDailyScores(ctx context.Context, date time.Time, entries []RankEntry) error

	// GetScoresByDate returns all rank rows for a date, empty when none
	GetScoresByDate(ctx context.Context, date time.Time) ([]RankEntry, error)

	// GetLatestRunDate returns the most recent run date strictly before
	// the given date; ok is false when no prior run exists.
	GetLatestRunDate(ctx context.Context, before time.Time) (time.Time, bool, error)
}

// PortfolioRepository persists daily portfolio snapshots (portfolio_history)
type PortfolioRepository interface {
	// SaveSnapshot writes a day's constituents in one transaction.
	// Returns ErrAlreadyRecorded if the date already has rows.
	SaveSnapshot(ctx context.Context, snapshot *PortfolioSnapshot) error

	// GetSnapshotByDate returns the snapshot for a date, nil when none
	GetSnapshotByDate(ctx context.Context, date time.Time) (*PortfolioSnapshot, error)

	// GetLatestSnapshotDate returns the most recent snapshot date strictly
	// before the given date; ok is false when no prior snapshot exists.
	GetLatestSnapshotDate(ctx context.Context, before time.Time) (time.Time, bool, error)
}

// MarketDataProvider supplies price history and fundamentals
type MarketDataProvider interface {
	// DownloadHistory fetches lookback OHLCV for many tickers and returns
	// an explicit ticker -> series mapping. Tickers that fail are absent
	// from the map, not an error.
	DownloadHistory(ctx context.Context, tickers []string, lookbackDays int) (map[string]*PriceSeries, error)

	// GetHistory fetches lookback OHLCV for a single ticker
	GetHistory(ctx context.Context, ticker string, lookbackDays int) (*PriceSeries, error)

	// GetFundamentals fetches the fundamental snapshot for a single ticker
	GetFundamentals(ctx context.Context, ticker string) (*FundamentalSnapshot, error)
}

// ListingSource supplies exchange symbol records for universe construction
type ListingSource interface {
	Symbols(ctx context.Context) ([]SymbolRecord, error)
}
