package backtest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/pkg/logger"
)

const (
	tradingDaysPerYear = 252
	sharpeEpsilon      = 1e-9
)

// Engine measures the realized forward performance of a stored portfolio
// snapshot against the benchmark.
type Engine struct {
	portfolios contracts.PortfolioRepository
	provider   contracts.MarketDataProvider
	cfg        strategy.Backtest
	log        *logger.Logger
}

// NewEngine creates a new backtest engine
func NewEngine(
	portfolios contracts.PortfolioRepository,
	provider contracts.MarketDataProvider,
	cfg strategy.Backtest,
	log *logger.Logger,
) *Engine {
	return &Engine{
		portfolios: portfolios,
		provider:   provider,
		cfg:        cfg,
		log:        log,
	}
}

// Run evaluates the most recent snapshot dated strictly before asOf.
// horizonDays <= 0 falls back to the configured horizon. A history with
// no snapshot yields an empty result, not an error.
func (e *Engine) Run(ctx context.Context, asOf time.Time, horizonDays int) (*contracts.BacktestResult, error) {
	if horizonDays <= 0 {
		horizonDays = e.cfg.HorizonDays
	}

	date, ok, err := e.portfolios.GetLatestSnapshotDate(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot date: %w", err)
	}
	if !ok {
		e.log.Warn("no portfolio history to backtest")
		return &contracts.BacktestResult{
			HorizonDays: horizonDays,
			Benchmark:   e.cfg.Benchmark,
		}, nil
	}

	snapshot, err := e.portfolios.GetSnapshotByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return e.Evaluate(ctx, snapshot, horizonDays)
}

// Evaluate measures one snapshot's forward window. The constituents are
// equal-weight averaged day by day; a constituent missing a trading day
// simply drops out of that day's mean.
func (e *Engine) Evaluate(ctx context.Context, snapshot *contracts.PortfolioSnapshot, horizonDays int) (*contracts.BacktestResult, error) {
	result := &contracts.BacktestResult{
		Date:        snapshot.Date,
		HorizonDays: horizonDays,
		Benchmark:   e.cfg.Benchmark,
	}
	if snapshot.Count() == 0 {
		return result, nil
	}
	result.Constituents = snapshot.Count()

	lookback := forwardLookback(snapshot.Date, horizonDays)

	benchSeries, err := e.provider.GetHistory(ctx, e.cfg.Benchmark, lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch benchmark %s: %w", e.cfg.Benchmark, err)
	}
	benchReturns := forwardReturns(benchSeries, snapshot.Date, horizonDays)

	series, err := e.provider.DownloadHistory(ctx, snapshot.Tickers(), lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents: %w", err)
	}

	portReturns := e.portfolioReturns(snapshot, series, horizonDays)
	if len(portReturns) == 0 {
		e.log.WithField("date", snapshot.Date.Format("2006-01-02")).
			Warn("no forward data yet for snapshot")
		return result, nil
	}

	result.TotalReturn = cumulativeReturn(portReturns)
	result.BenchmarkReturn = cumulativeReturn(benchReturns)
	result.Alpha = result.TotalReturn - result.BenchmarkReturn
	result.Sharpe = sharpe(portReturns)
	result.MaxDrawdown = maxDrawdown(portReturns)

	e.log.WithFields(map[string]interface{}{
		"date":         snapshot.Date.Format("2006-01-02"),
		"horizon_days": horizonDays,
		"total_return": result.TotalReturn,
		"benchmark":    result.BenchmarkReturn,
		"alpha":        result.Alpha,
	}).Info("backtest complete")

	return result, nil
}

// portfolioReturns builds the equal-weight daily return series across
// the constituents, aligned by calendar date.
func (e *Engine) portfolioReturns(snapshot *contracts.PortfolioSnapshot, series map[string]*contracts.PriceSeries, horizonDays int) []float64 {
	perDay := make(map[time.Time][]float64)
	for _, ticker := range snapshot.Tickers() {
		ps := series[ticker]
		if ps.IsEmpty() {
			e.log.WithField("ticker", ticker).Warn("constituent missing forward data")
			continue
		}
		for day, r := range dailyReturnsByDate(ps, snapshot.Date, horizonDays) {
			perDay[day] = append(perDay[day], r)
		}
	}

	days := make([]time.Time, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	if len(days) > horizonDays {
		days = days[:horizonDays]
	}

	returns := make([]float64, len(days))
	for i, day := range days {
		var sum float64
		for _, r := range perDay[day] {
			sum += r
		}
		returns[i] = sum / float64(len(perDay[day]))
	}
	return returns
}

// forwardWindow slices a series to the bars on or after the snapshot
// date, capped at horizon+1 closes.
func forwardWindow(ps *contracts.PriceSeries, from time.Time, horizonDays int) []contracts.Bar {
	if ps.IsEmpty() {
		return nil
	}
	var bars []contracts.Bar
	for _, b := range ps.Bars {
		if b.Date.Before(from) {
			continue
		}
		bars = append(bars, b)
		if len(bars) == horizonDays+1 {
			break
		}
	}
	return bars
}

// forwardReturns computes close-to-close returns over the forward window
func forwardReturns(ps *contracts.PriceSeries, from time.Time, horizonDays int) []float64 {
	bars := forwardWindow(ps, from, horizonDays)
	returns := make([]float64, 0, len(bars))
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, bars[i].Close/prev-1)
	}
	return returns
}

// dailyReturnsByDate is forwardReturns keyed by each return's bar date
func dailyReturnsByDate(ps *contracts.PriceSeries, from time.Time, horizonDays int) map[time.Time]float64 {
	bars := forwardWindow(ps, from, horizonDays)
	out := make(map[time.Time]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		out[bars[i].Date] = bars[i].Close/prev - 1
	}
	return out
}

// forwardLookback sizes the provider window so it reaches back past the
// snapshot date from today.
func forwardLookback(date time.Time, horizonDays int) int {
	calendarDays := int(time.Since(date).Hours()/24) + 1
	tradingDays := calendarDays * 5 / 7
	return tradingDays + horizonDays + 10
}

// cumulativeReturn compounds a daily return series into a total return
func cumulativeReturn(returns []float64) float64 {
	cum := 1.0
	for _, r := range returns {
		cum *= 1 + r
	}
	return cum - 1
}

// sharpe annualizes mean daily return over its deviation
func sharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	m := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - m
		sq += d * d
	}
	sd := math.Sqrt(sq / float64(len(returns)))

	return m / (sd + sharpeEpsilon) * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown reports the deepest peak-to-trough decline of the
// compounded curve, always <= 0.
func maxDrawdown(returns []float64) float64 {
	cum := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		if dd := cum/peak - 1; dd < worst {
			worst = dd
		}
	}
	return worst
}
