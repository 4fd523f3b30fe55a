package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/pkg/logger"
)

func seriesFromCloses(ticker string, closes ...float64) *contracts.PriceSeries {
	bars := make([]contracts.Bar, len(closes))
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = contracts.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return &contracts.PriceSeries{Ticker: ticker, Bars: bars}
}

func fullSnapshot(ticker string) *contracts.FundamentalSnapshot {
	return &contracts.FundamentalSnapshot{
		Ticker:        ticker,
		TrailingPE:    contracts.Float(20),
		RevenueGrowth: contracts.Float(0.10),
		ProfitMargin:  contracts.Float(0.15),
		DebtToEquity:  contracts.Float(50),
		AnalystTarget: contracts.Float(120),
	}
}

func TestZScore_TwoValues(t *testing.T) {
	scaled := zscore([]float64{0.05, 0.15}, 1e-9)

	// mean 0.10, stdev 0.05
	assert.InDelta(t, -1.0, scaled[0], 1e-6)
	assert.InDelta(t, 1.0, scaled[1], 1e-6)
}

func TestZScore_IdenticalValues(t *testing.T) {
	scaled := zscore([]float64{0.07, 0.07, 0.07}, 1e-9)

	for _, v := range scaled {
		assert.Zero(t, v)
	}
}

func TestMinMax_Range(t *testing.T) {
	scaled := minmax([]float64{10, 20, 30}, 1e-9)

	assert.InDelta(t, 0, scaled[0], 1e-6)
	assert.InDelta(t, 50, scaled[1], 1e-6)
	assert.InDelta(t, 100, scaled[2], 1e-6)
}

func TestMinMax_IdenticalValues(t *testing.T) {
	scaled := minmax([]float64{5, 5}, 1e-9)

	assert.Zero(t, scaled[0])
	assert.Zero(t, scaled[1])
}

func TestNormalizeColumn_UnknownScheme(t *testing.T) {
	_, err := normalizeColumn([]float64{1, 2}, "rank", 1e-9)
	assert.Error(t, err)
}

func TestComputeRawFactors_Fallbacks(t *testing.T) {
	series := seriesFromCloses("XYZ", 100, 102, 101)
	empty := &contracts.FundamentalSnapshot{Ticker: "XYZ"}

	raw := computeRawFactors(series, empty, 1e-9)

	assert.Zero(t, raw.Value, "missing P/E yields no value signal")
	assert.Zero(t, raw.Growth)
	assert.Zero(t, raw.Analyst)
	// margin falls back to 0, debt-to-equity to 100
	assert.InDelta(t, -0.1, raw.Quality, 1e-9)
}

func TestComputeRawFactors_NegativePE(t *testing.T) {
	series := seriesFromCloses("XYZ", 100, 102)
	snap := &contracts.FundamentalSnapshot{Ticker: "XYZ", TrailingPE: contracts.Float(-12)}

	raw := computeRawFactors(series, snap, 1e-9)
	assert.Zero(t, raw.Value)
}

func TestComputeRawFactors_Values(t *testing.T) {
	series := seriesFromCloses("ABC", 100, 110)
	snap := fullSnapshot("ABC")

	raw := computeRawFactors(series, snap, 1e-9)

	assert.InDelta(t, 0.05, raw.Value, 1e-9)    // 1/20
	assert.InDelta(t, 0.10, raw.Growth, 1e-9)   // revenue growth passthrough
	assert.InDelta(t, 0.10, raw.Quality, 1e-9)  // 0.15 - 50/1000
	assert.InDelta(t, 0.10, raw.Momentum, 1e-9) // 110/100 - 1
	assert.InDelta(t, float64(1_000_000), raw.Liquidity, 1e-6)
	// target 120 vs last close 110
	assert.InDelta(t, 10.0/110, raw.Analyst, 1e-9)
	assert.True(t, raw.Volatility <= 0, "volatility is a penalty")
	assert.True(t, raw.Bounce >= 0 && raw.Bounce <= 1)
}

func TestScore_RanksByCompositeDescending(t *testing.T) {
	cfg := strategy.Default()
	scorer := NewScorer(cfg, logger.NewNop())
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// UP trends up, DOWN trends down; identical fundamentals so momentum
	// and the price-derived factors decide the order.
	series := map[string]*contracts.PriceSeries{
		"UP":   seriesFromCloses("UP", 100, 105, 110, 115, 120),
		"DOWN": seriesFromCloses("DOWN", 120, 115, 110, 105, 100),
	}
	funds := &contracts.FundamentalSet{
		Date: date,
		Snapshots: map[string]*contracts.FundamentalSnapshot{
			"UP":   fullSnapshot("UP"),
			"DOWN": fullSnapshot("DOWN"),
		},
	}

	entries, err := scorer.Score(date, []string{"DOWN", "UP"}, series, funds, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "UP", entries[0].Ticker)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "DOWN", entries[1].Ticker)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Greater(t, entries[0].TotalScore, entries[1].TotalScore)
	assert.Nil(t, entries[0].PreviousRank, "first run has no rank history")
}

func TestScore_TieBrokenByTicker(t *testing.T) {
	cfg := strategy.Default()
	scorer := NewScorer(cfg, logger.NewNop())
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// Identical inputs produce identical composites for both tickers
	series := map[string]*contracts.PriceSeries{
		"BBB": seriesFromCloses("BBB", 100, 105),
		"AAA": seriesFromCloses("AAA", 100, 105),
	}
	funds := &contracts.FundamentalSet{
		Date: date,
		Snapshots: map[string]*contracts.FundamentalSnapshot{
			"BBB": fullSnapshot("BBB"),
			"AAA": fullSnapshot("AAA"),
		},
	}

	entries, err := scorer.Score(date, []string{"BBB", "AAA"}, series, funds, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "AAA", entries[0].Ticker)
	assert.Equal(t, "BBB", entries[1].Ticker)
}

func TestScore_RankChangeAgainstPreviousRun(t *testing.T) {
	cfg := strategy.Default()
	scorer := NewScorer(cfg, logger.NewNop())
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	series := map[string]*contracts.PriceSeries{
		"UP":   seriesFromCloses("UP", 100, 120),
		"DOWN": seriesFromCloses("DOWN", 120, 100),
	}
	funds := &contracts.FundamentalSet{
		Date: date,
		Snapshots: map[string]*contracts.FundamentalSnapshot{
			"UP":   fullSnapshot("UP"),
			"DOWN": fullSnapshot("DOWN"),
		},
	}
	prev := map[string]int{"UP": 3, "DOWN": 1}

	entries, err := scorer.Score(date, []string{"UP", "DOWN"}, series, funds, prev)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// UP improved from rank 3 to rank 1
	require.NotNil(t, entries[0].RankChange)
	assert.Equal(t, "UP", entries[0].Ticker)
	assert.Equal(t, 3, *entries[0].PreviousRank)
	assert.Equal(t, 2, *entries[0].RankChange)

	// DOWN fell from rank 1 to rank 2
	require.NotNil(t, entries[1].RankChange)
	assert.Equal(t, 1, *entries[1].PreviousRank)
	assert.Equal(t, -1, *entries[1].RankChange)
}

func TestScore_SkipsTickersMissingData(t *testing.T) {
	cfg := strategy.Default()
	scorer := NewScorer(cfg, logger.NewNop())
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	series := map[string]*contracts.PriceSeries{
		"FULL":     seriesFromCloses("FULL", 100, 105),
		"NOFUNDS":  seriesFromCloses("NOFUNDS", 100, 105),
		"NOPRICES": nil,
	}
	funds := &contracts.FundamentalSet{
		Date: date,
		Snapshots: map[string]*contracts.FundamentalSnapshot{
			"FULL":     fullSnapshot("FULL"),
			"NOPRICES": fullSnapshot("NOPRICES"),
		},
	}

	entries, err := scorer.Score(date, []string{"FULL", "NOFUNDS", "NOPRICES"}, series, funds, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "FULL", entries[0].Ticker)
}

func TestScore_EmptyCrossSection(t *testing.T) {
	cfg := strategy.Default()
	scorer := NewScorer(cfg, logger.NewNop())

	entries, err := scorer.Score(time.Now(), nil, nil, &contracts.FundamentalSet{}, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
