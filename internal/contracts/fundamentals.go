package contracts

import "time"

// FundamentalSnapshot is the per-ticker, per-run fundamental record.
// Every field may be absent from the provider; absent is nil, never zero.
type FundamentalSnapshot struct {
	Ticker         string    `json:"ticker"`
	TrailingPE     *float64  `json:"trailing_pe,omitempty"`
	ForwardPE      *float64  `json:"forward_pe,omitempty"`
	RevenueGrowth  *float64  `json:"revenue_growth,omitempty"`
	EarningsGrowth *float64  `json:"earnings_growth,omitempty"`
	ProfitMargin   *float64  `json:"profit_margin,omitempty"`
	DebtToEquity   *float64  `json:"debt_to_equity,omitempty"`
	AnalystTarget  *float64  `json:"analyst_target,omitempty"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// FundamentalSet maps admitted tickers to their snapshots. Covers a subset
// of the admitted universe: tickers whose fetch failed are simply missing.
type FundamentalSet struct {
	Date      time.Time                       `json:"date"`
	Snapshots map[string]*FundamentalSnapshot `json:"snapshots"`
}

// Get returns the snapshot for a ticker, if present
func (f *FundamentalSet) Get(ticker string) (*FundamentalSnapshot, bool) {
	snap, ok := f.Snapshots[ticker]
	return snap, ok
}

// Count returns the number of resolved snapshots
func (f *FundamentalSet) Count() int {
	return len(f.Snapshots)
}

// Float returns a pointer to v, for building snapshots in tests and parsers
func Float(v float64) *float64 {
	return &v
}
