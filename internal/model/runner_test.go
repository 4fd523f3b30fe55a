package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/fundamentals"
	"github.com/wonny/alphadesk/internal/liquidity"
	"github.com/wonny/alphadesk/internal/portfolio"
	"github.com/wonny/alphadesk/internal/scoring"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/internal/universe"
	"github.com/wonny/alphadesk/pkg/logger"
)

type stubListing struct {
	records []contracts.SymbolRecord
}

func (s *stubListing) Symbols(ctx context.Context) ([]contracts.SymbolRecord, error) {
	return s.records, nil
}

type stubProvider struct {
	series map[string]*contracts.PriceSeries
	funds  map[string]*contracts.FundamentalSnapshot
}

func (s *stubProvider) DownloadHistory(ctx context.Context, tickers []string, lookbackDays int) (map[string]*contracts.PriceSeries, error) {
	out := make(map[string]*contracts.PriceSeries)
	for _, t := range tickers {
		if ps, ok := s.series[t]; ok {
			out[t] = ps
		}
	}
	return out, nil
}

func (s *stubProvider) GetHistory(ctx context.Context, ticker string, lookbackDays int) (*contracts.PriceSeries, error) {
	return s.series[ticker], nil
}

func (s *stubProvider) GetFundamentals(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	return s.funds[ticker], nil
}

type memScoreRepo struct {
	rows map[time.Time][]contracts.RankEntry
}

func newMemScoreRepo() *memScoreRepo {
	return &memScoreRepo{rows: make(map[time.Time][]contracts.RankEntry)}
}

func (m *memScoreRepo) SaveDailyScores(ctx context.Context, date time.Time, entries []contracts.RankEntry) error {
	if len(m.rows[date]) > 0 {
		return contracts.ErrAlreadyRecorded
	}
	m.rows[date] = append([]contracts.RankEntry(nil), entries...)
	return nil
}

func (m *memScoreRepo) GetScoresByDate(ctx context.Context, date time.Time) ([]contracts.RankEntry, error) {
	return m.rows[date], nil
}

func (m *memScoreRepo) GetLatestRunDate(ctx context.Context, before time.Time) (time.Time, bool, error) {
	var latest time.Time
	for date := range m.rows {
		if date.Before(before) && date.After(latest) {
			latest = date
		}
	}
	return latest, !latest.IsZero(), nil
}

type memPortfolioRepo struct {
	snaps map[time.Time]*contracts.PortfolioSnapshot
}

func newMemPortfolioRepo() *memPortfolioRepo {
	return &memPortfolioRepo{snaps: make(map[time.Time]*contracts.PortfolioSnapshot)}
}

func (m *memPortfolioRepo) SaveSnapshot(ctx context.Context, snapshot *contracts.PortfolioSnapshot) error {
	if _, ok := m.snaps[snapshot.Date]; ok {
		return contracts.ErrAlreadyRecorded
	}
	m.snaps[snapshot.Date] = snapshot
	return nil
}

func (m *memPortfolioRepo) GetSnapshotByDate(ctx context.Context, date time.Time) (*contracts.PortfolioSnapshot, error) {
	return m.snaps[date], nil
}

func (m *memPortfolioRepo) GetLatestSnapshotDate(ctx context.Context, before time.Time) (time.Time, bool, error) {
	var latest time.Time
	for date := range m.snaps {
		if date.Before(before) && date.After(latest) {
			latest = date
		}
	}
	return latest, !latest.IsZero(), nil
}

func trendSeries(ticker string, start, step float64) *contracts.PriceSeries {
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, 10)
	price := start
	for i := range bars {
		bars[i] = contracts.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   price,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: 2_000_000,
		}
		price += step
	}
	return &contracts.PriceSeries{Ticker: ticker, Bars: bars}
}

func snapshotFor(ticker string, pe float64) *contracts.FundamentalSnapshot {
	return &contracts.FundamentalSnapshot{
		Ticker:        ticker,
		TrailingPE:    contracts.Float(pe),
		RevenueGrowth: contracts.Float(0.05),
		ProfitMargin:  contracts.Float(0.12),
		DebtToEquity:  contracts.Float(40),
		AnalystTarget: contracts.Float(150),
	}
}

type fixture struct {
	runner     *Runner
	scores     *memScoreRepo
	portfolios *memPortfolioRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := strategy.Default()
	cfg.Portfolio = strategy.Portfolio{TopN: 2, EntryThreshold: 2, ExitThreshold: 3}

	listing := &stubListing{records: []contracts.SymbolRecord{
		{Symbol: "AAA", Name: "Alpha Corp"},
		{Symbol: "BBB", Name: "Beta Inc"},
		{Symbol: "CCC", Name: "Gamma Ltd"},
	}}
	provider := &stubProvider{
		series: map[string]*contracts.PriceSeries{
			"AAA": trendSeries("AAA", 100, 3),  // strong uptrend
			"BBB": trendSeries("BBB", 100, 0),  // flat
			"CCC": trendSeries("CCC", 100, -3), // downtrend
		},
		funds: map[string]*contracts.FundamentalSnapshot{
			"AAA": snapshotFor("AAA", 15),
			"BBB": snapshotFor("BBB", 20),
			"CCC": snapshotFor("CCC", 25),
		},
	}

	log := logger.NewNop()
	scores := newMemScoreRepo()
	portfolios := newMemPortfolioRepo()

	runner := NewRunner(
		universe.NewLoader(listing, nil, log),
		liquidity.NewFilter(provider, cfg.Liquidity, log),
		fundamentals.NewFetcher(provider, cfg.Fundamentals.Workers, log),
		scoring.NewScorer(cfg, log),
		portfolio.NewConstructor(cfg.Portfolio, log),
		scores,
		portfolios,
		log,
	)
	return &fixture{runner: runner, scores: scores, portfolios: portfolios}
}

func TestRunDaily_EndToEnd(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 5, 15, 14, 30, 0, 0, time.UTC)

	result, err := f.runner.RunDaily(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 3, result.UniverseSize)
	assert.Equal(t, 3, result.Admitted)
	require.Equal(t, 3, result.Ranked)
	assert.False(t, result.Replayed)

	// Strongest trend plus cheapest P/E ranks first
	assert.Equal(t, "AAA", result.Entries[0].Ticker)
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, "CCC", result.Entries[2].Ticker)

	require.NotNil(t, result.Snapshot)
	assert.Equal(t, 2, result.Snapshot.Count())
	assert.True(t, result.Snapshot.Contains("AAA"))
	assert.True(t, result.Snapshot.Contains("BBB"))
	for _, pos := range result.Snapshot.Positions {
		assert.InDelta(t, 0.5, pos.Weight, 1e-9)
	}

	// Run date is the UTC calendar date, timestamp stripped
	assert.Equal(t, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), result.Date)
}

func TestRunDaily_ReplaysRecordedDate(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)

	first, err := f.runner.RunDaily(context.Background(), date)
	require.NoError(t, err)

	second, err := f.runner.RunDaily(context.Background(), date)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, len(first.Entries), len(second.Entries))
	require.NotNil(t, second.Snapshot)
	assert.Equal(t, first.Snapshot.Tickers(), second.Snapshot.Tickers())
	assert.Zero(t, second.UniverseSize, "replay skips the pipeline")
}

func TestRunDaily_RankChangeAcrossRuns(t *testing.T) {
	f := newFixture(t)
	day1 := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.runner.RunDaily(context.Background(), day1)
	require.NoError(t, err)

	result, err := f.runner.RunDaily(context.Background(), day2)
	require.NoError(t, err)

	// Same inputs, so every name keeps its rank
	for _, e := range result.Entries {
		require.NotNil(t, e.PreviousRank, "second run sees first run's ranks")
		require.NotNil(t, e.RankChange)
		assert.Equal(t, e.Rank, *e.PreviousRank)
		assert.Zero(t, *e.RankChange)
	}
}
