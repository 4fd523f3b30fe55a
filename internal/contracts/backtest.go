package contracts

import "time"

// BacktestResult holds realized forward performance of one portfolio
// snapshot versus a benchmark.
type BacktestResult struct {
	Date            time.Time `json:"date"`
	HorizonDays     int       `json:"horizon_days"`
	Benchmark       string    `json:"benchmark"`
	Constituents    int       `json:"constituents"`
	TotalReturn     float64   `json:"total_return"`
	BenchmarkReturn float64   `json:"benchmark_return"`
	Alpha           float64   `json:"alpha"` // difference of cumulative multiples
	Sharpe          float64   `json:"sharpe"`
	MaxDrawdown     float64   `json:"max_drawdown"` // always <= 0
}

// Beat reports whether the portfolio finished ahead of the benchmark
func (b *BacktestResult) Beat() bool {
	return b.Alpha > 0
}
