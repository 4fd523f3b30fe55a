package portfolio

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/pkg/logger"
)

func rankedEntries(tickersByRank ...string) []contracts.RankEntry {
	entries := make([]contracts.RankEntry, len(tickersByRank))
	for i, ticker := range tickersByRank {
		entries[i] = contracts.RankEntry{
			Ticker: ticker,
			Rank:   i + 1,
			Price:  100,
		}
	}
	return entries
}

func heldSnapshot(date time.Time, tickers ...string) *contracts.PortfolioSnapshot {
	snap := &contracts.PortfolioSnapshot{Date: date}
	for i, ticker := range tickers {
		snap.Positions = append(snap.Positions, contracts.Position{
			Ticker: ticker,
			Rank:   i + 1,
			Weight: 1 / float64(len(tickers)),
		})
	}
	return snap
}

func newConstructor(topN, entry, exit int) *Constructor {
	return NewConstructor(strategy.Portfolio{
		TopN:           topN,
		EntryThreshold: entry,
		ExitThreshold:  exit,
	}, logger.NewNop())
}

func TestConstruct_NoPriorRequiresEntryThreshold(t *testing.T) {
	c := newConstructor(20, 15, 30)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// 18 ranked names, no history: only ranks 1..15 qualify
	tickers := make([]string, 18)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i+1)
	}
	snap := c.Construct(date, rankedEntries(tickers...), nil)

	require.Equal(t, 15, snap.Count())
	assert.True(t, snap.Contains("T15"))
	assert.False(t, snap.Contains("T16"))
	assert.InDelta(t, 1.0, snap.TotalWeight(), 1e-9)
}

func TestConstruct_HeldNameSurvivesInsideExitBand(t *testing.T) {
	c := newConstructor(20, 15, 30)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// HOLD slipped to rank 25: outside entry, inside exit
	tickers := make([]string, 25)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i+1)
	}
	tickers[24] = "HOLD"
	prior := heldSnapshot(date.AddDate(0, 0, -1), "HOLD")

	snap := c.Construct(date, rankedEntries(tickers...), prior)

	assert.True(t, snap.Contains("HOLD"), "held name inside exit band stays")
	assert.Equal(t, 16, snap.Count(), "ranks 1-15 plus the retained holding")
}

func TestConstruct_HeldNameExitsPastExitBand(t *testing.T) {
	c := newConstructor(20, 15, 30)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// HOLD slipped to rank 31: past the exit threshold
	tickers := make([]string, 31)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i+1)
	}
	tickers[30] = "HOLD"
	prior := heldSnapshot(date.AddDate(0, 0, -1), "HOLD")

	snap := c.Construct(date, rankedEntries(tickers...), prior)

	assert.False(t, snap.Contains("HOLD"))
}

func TestConstruct_FreshNameNeedsEntryThreshold(t *testing.T) {
	c := newConstructor(20, 15, 30)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	tickers := make([]string, 16)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i+1)
	}
	tickers[15] = "FRESH" // rank 16, just outside entry
	prior := heldSnapshot(date.AddDate(0, 0, -1), "T01")

	snap := c.Construct(date, rankedEntries(tickers...), prior)
	assert.False(t, snap.Contains("FRESH"), "rank 16 fresh name stays out")

	tickers[14], tickers[15] = "FRESH", "T15" // now rank 15
	snap = c.Construct(date, rankedEntries(tickers...), prior)
	assert.True(t, snap.Contains("FRESH"), "rank 15 fresh name enters")
}

func TestConstruct_CapsAtTopN(t *testing.T) {
	c := newConstructor(10, 15, 30)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	tickers := make([]string, 15)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i+1)
	}
	snap := c.Construct(date, rankedEntries(tickers...), nil)

	require.Equal(t, 10, snap.Count())
	// Best ranks win the cap
	assert.Equal(t, "T01", snap.Positions[0].Ticker)
	assert.Equal(t, "T10", snap.Positions[9].Ticker)
	for _, pos := range snap.Positions {
		assert.InDelta(t, 0.1, pos.Weight, 1e-9)
	}
}

func TestConstruct_SingleConstituentFullWeight(t *testing.T) {
	c := newConstructor(20, 15, 30)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	snap := c.Construct(date, rankedEntries("ONLY"), nil)

	require.Equal(t, 1, snap.Count())
	assert.InDelta(t, 1.0, snap.Positions[0].Weight, 1e-9)
}

func TestConstruct_EmptyCrossSection(t *testing.T) {
	c := newConstructor(20, 15, 30)

	snap := c.Construct(time.Now(), nil, nil)

	assert.Equal(t, 0, snap.Count())
	assert.Zero(t, snap.TotalWeight())
}
