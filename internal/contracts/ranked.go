package contracts

import "time"

// FactorScores is the per-factor breakdown behind a composite score.
// Values are cross-sectionally normalized, not raw.
type FactorScores struct {
	Value      float64 `json:"value"`
	Growth     float64 `json:"growth"`
	Quality    float64 `json:"quality"`
	Momentum   float64 `json:"momentum"`
	Bounce     float64 `json:"bounce"`
	Analyst    float64 `json:"analyst"`
	Liquidity  float64 `json:"liquidity"`
	Volatility float64 `json:"volatility"`
}

// RankEntry is one scored ticker of a daily run
type RankEntry struct {
	Date         time.Time    `json:"date"`
	Ticker       string       `json:"ticker"`
	Price        float64      `json:"price"`
	TotalScore   float64      `json:"total_score"`
	Scores       FactorScores `json:"scores"`
	Rank         int          `json:"rank"`                    // 1-based, dense, no gaps
	PreviousRank *int         `json:"previous_rank,omitempty"` // nil on the first run
	RankChange   *int         `json:"rank_change,omitempty"`   // previous_rank - rank, positive = improved
}

// IsTopRanked checks if the entry is in the top N ranks
func (r *RankEntry) IsTopRanked(n int) bool {
	return r.Rank > 0 && r.Rank <= n
}
