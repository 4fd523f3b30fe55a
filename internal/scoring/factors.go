package scoring

import (
	"math"

	"github.com/wonny/alphadesk/internal/contracts"
)

// Fallbacks for missing fundamental inputs. Missing debt-to-equity is
// penalized, not neutral: an unknown balance sheet is treated as levered.
const (
	missingMarginFallback = 0.0
	missingDebtFallback   = 100.0
)

// RawFactors holds the unnormalized factor values for one ticker
type RawFactors struct {
	Value      float64
	Growth     float64
	Quality    float64
	Momentum   float64
	Bounce     float64
	Analyst    float64
	Liquidity  float64
	Volatility float64
}

// computeRawFactors derives all raw factor values from a ticker's price
// series and fundamental snapshot. Missing inputs produce documented
// fallbacks, never a panic.
func computeRawFactors(series *contracts.PriceSeries, snapshot *contracts.FundamentalSnapshot, epsilon float64) RawFactors {
	price := series.LastClose()
	raw := RawFactors{}

	// VALUE: earnings yield, only meaningful for positive P/E
	if pe := snapshot.TrailingPE; pe != nil && *pe > 0 {
		raw.Value = 1 / *pe
	}

	// GROWTH: trailing revenue growth fraction
	if g := snapshot.RevenueGrowth; g != nil {
		raw.Growth = *g
	}

	// QUALITY: margin minus a leverage penalty
	margin := missingMarginFallback
	if m := snapshot.ProfitMargin; m != nil {
		margin = *m
	}
	debt := missingDebtFallback
	if d := snapshot.DebtToEquity; d != nil {
		debt = *d
	}
	raw.Quality = margin - debt/1000

	// MOMENTUM: full-window return
	if first := series.FirstClose(); first != 0 {
		raw.Momentum = series.LastClose()/first - 1
	}

	// BOUNCE: position within the window's high-low range
	high := series.HighestHigh()
	low := series.LowestLow()
	raw.Bounce = (price - low) / (high - low + epsilon)

	// ANALYST: upside to the mean target
	if target := snapshot.AnalystTarget; target != nil && price != 0 {
		raw.Analyst = (*target - price) / price
	}

	// LIQUIDITY: average daily volume
	raw.Liquidity = series.MeanVolume()

	// VOLATILITY: penalty, so quieter names score higher
	raw.Volatility = -stdev(series.DailyReturns())

	return raw
}

// mean returns the arithmetic mean, 0 for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdev returns the population standard deviation, 0 for fewer than two
// values
func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
