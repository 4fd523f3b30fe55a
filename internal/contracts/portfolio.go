package contracts

import "time"

// Position is one constituent of a daily portfolio snapshot
type Position struct {
	Ticker string  `json:"ticker"`
	Rank   int     `json:"rank"`
	Weight float64 `json:"weight"`
}

// PortfolioSnapshot is the buffered Top-N portfolio for one run date.
// Created once per run, never mutated, persisted append-only.
type PortfolioSnapshot struct {
	Date      time.Time  `json:"date"`
	Positions []Position `json:"positions"`
}

// Count returns the number of constituents
func (p *PortfolioSnapshot) Count() int {
	return len(p.Positions)
}

// TotalWeight returns the sum of all position weights
func (p *PortfolioSnapshot) TotalWeight() float64 {
	total := 0.0
	for _, pos := range p.Positions {
		total += pos.Weight
	}
	return total
}

// Contains checks whether a ticker is held in the snapshot
func (p *PortfolioSnapshot) Contains(ticker string) bool {
	for _, pos := range p.Positions {
		if pos.Ticker == ticker {
			return true
		}
	}
	return false
}

// Tickers returns the constituent tickers in stored order
func (p *PortfolioSnapshot) Tickers() []string {
	tickers := make([]string, len(p.Positions))
	for i, pos := range p.Positions {
		tickers[i] = pos.Ticker
	}
	return tickers
}
