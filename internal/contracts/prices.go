package contracts

import (
	"math"
	"time"
)

// Bar is a single daily OHLCV observation
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is the ordered daily price history of one ticker over a
// lookback window. Immutable once fetched for a run.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// IsEmpty reports whether the series has no bars
func (p *PriceSeries) IsEmpty() bool {
	return p == nil || len(p.Bars) == 0
}

// Len returns the number of bars
func (p *PriceSeries) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Bars)
}

// FirstClose returns the first close of the window, 0 when empty
func (p *PriceSeries) FirstClose() float64 {
	if p.IsEmpty() {
		return 0
	}
	return p.Bars[0].Close
}

// LastClose returns the most recent close of the window, 0 when empty
func (p *PriceSeries) LastClose() float64 {
	if p.IsEmpty() {
		return 0
	}
	return p.Bars[len(p.Bars)-1].Close
}

// MeanVolume returns the average daily volume over the window
func (p *PriceSeries) MeanVolume() float64 {
	if p.IsEmpty() {
		return 0
	}
	var sum float64
	for _, b := range p.Bars {
		sum += float64(b.Volume)
	}
	return sum / float64(len(p.Bars))
}

// HighestHigh returns the maximum high over the window
func (p *PriceSeries) HighestHigh() float64 {
	if p.IsEmpty() {
		return 0
	}
	high := math.Inf(-1)
	for _, b := range p.Bars {
		if b.High > high {
			high = b.High
		}
	}
	return high
}

// LowestLow returns the minimum low over the window
func (p *PriceSeries) LowestLow() float64 {
	if p.IsEmpty() {
		return 0
	}
	low := math.Inf(1)
	for _, b := range p.Bars {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}

// DailyReturns returns close-to-close simple returns, length Len()-1.
// Days with a zero previous close are skipped.
func (p *PriceSeries) DailyReturns() []float64 {
	if p.Len() < 2 {
		return nil
	}
	returns := make([]float64, 0, len(p.Bars)-1)
	for i := 1; i < len(p.Bars); i++ {
		prev := p.Bars[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, p.Bars[i].Close/prev-1)
	}
	return returns
}
