package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPortfolioSnapshot_TotalWeight(t *testing.T) {
	snapshot := &PortfolioSnapshot{
		Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Positions: []Position{
			{Ticker: "NVDA", Rank: 1, Weight: 0.05},
			{Ticker: "AAPL", Rank: 2, Weight: 0.05},
			{Ticker: "MSFT", Rank: 3, Weight: 0.05},
		},
	}

	assert.Equal(t, 3, snapshot.Count())
	assert.InDelta(t, 0.15, snapshot.TotalWeight(), 1e-9)
}

func TestPortfolioSnapshot_Contains(t *testing.T) {
	snapshot := &PortfolioSnapshot{
		Positions: []Position{
			{Ticker: "NVDA", Rank: 1, Weight: 0.5},
			{Ticker: "AAPL", Rank: 2, Weight: 0.5},
		},
	}

	assert.True(t, snapshot.Contains("NVDA"))
	assert.False(t, snapshot.Contains("TSLA"))
	assert.Equal(t, []string{"NVDA", "AAPL"}, snapshot.Tickers())
}

func TestRankEntry_IsTopRanked(t *testing.T) {
	entry := &RankEntry{Ticker: "AAPL", Rank: 15}

	assert.True(t, entry.IsTopRanked(20))
	assert.True(t, entry.IsTopRanked(15))
	assert.False(t, entry.IsTopRanked(14))

	unranked := &RankEntry{Ticker: "XYZ"}
	assert.False(t, unranked.IsTopRanked(20))
}
