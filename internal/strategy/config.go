package strategy

// Config is the full model strategy configuration
type Config struct {
	Meta          Meta          `yaml:"meta" json:"meta"`
	Liquidity     Liquidity     `yaml:"liquidity" json:"liquidity"`
	Fundamentals  Fundamentals  `yaml:"fundamentals" json:"fundamentals"`
	Factors       FactorWeights `yaml:"factors" json:"factors"`
	Normalization Normalization `yaml:"normalization" json:"normalization"`
	Portfolio     Portfolio     `yaml:"portfolio" json:"portfolio"`
	Backtest      Backtest      `yaml:"backtest" json:"backtest"`
}

// Meta identifies the strategy
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Liquidity holds the admission thresholds (strict > comparisons)
type Liquidity struct {
	MinPrice     float64 `yaml:"min_price" json:"min_price"`
	MinVolume    float64 `yaml:"min_volume" json:"min_volume"`
	LookbackDays int     `yaml:"lookback_days" json:"lookback_days"`
}

// Fundamentals holds fetcher parameters
type Fundamentals struct {
	Workers int `yaml:"workers" json:"workers"` // bounded concurrency toward the provider
}

// FactorWeights is the composite weight table. Must sum to 1.0 within 1e-6.
type FactorWeights struct {
	Value      float64 `yaml:"value" json:"value"`
	Growth     float64 `yaml:"growth" json:"growth"`
	Quality    float64 `yaml:"quality" json:"quality"`
	Momentum   float64 `yaml:"momentum" json:"momentum"`
	Bounce     float64 `yaml:"bounce" json:"bounce"`
	Analyst    float64 `yaml:"analyst" json:"analyst"`
	Liquidity  float64 `yaml:"liquidity" json:"liquidity"`
	Volatility float64 `yaml:"volatility" json:"volatility"`
}

// Sum returns the sum of all factor weights
func (w FactorWeights) Sum() float64 {
	return w.Value + w.Growth + w.Quality + w.Momentum +
		w.Bounce + w.Analyst + w.Liquidity + w.Volatility
}

// Normalization selects the cross-sectional scaling scheme. The scheme is
// applied uniformly to all factors within a run, never mixed.
type Normalization struct {
	Scheme  string  `yaml:"scheme" json:"scheme"` // "zscore" or "minmax"
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`
}

// Portfolio holds rank-buffer construction parameters
type Portfolio struct {
	TopN           int `yaml:"top_n" json:"top_n"`
	EntryThreshold int `yaml:"entry_threshold" json:"entry_threshold"` // fresh entries need rank <= entry
	ExitThreshold  int `yaml:"exit_threshold" json:"exit_threshold"`   // held names survive to rank <= exit
}

// Backtest holds forward performance parameters
type Backtest struct {
	HorizonDays int    `yaml:"horizon_days" json:"horizon_days"`
	Benchmark   string `yaml:"benchmark" json:"benchmark"`
}

// Default returns the canonical strategy: z-score normalization over the
// 8-factor table with the rank buffer enabled.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "us_equity_multifactor",
			Version:    "1.0.0",
		},
		Liquidity: Liquidity{
			MinPrice:     5,
			MinVolume:    500_000,
			LookbackDays: 126, // ~6 months of trading days
		},
		Fundamentals: Fundamentals{
			Workers: 12,
		},
		Factors: FactorWeights{
			Value:      0.18,
			Growth:     0.18,
			Quality:    0.14,
			Momentum:   0.14,
			Bounce:     0.08,
			Analyst:    0.08,
			Liquidity:  0.10,
			Volatility: 0.10,
		},
		Normalization: Normalization{
			Scheme:  SchemeZScore,
			Epsilon: 1e-9,
		},
		Portfolio: Portfolio{
			TopN:           20,
			EntryThreshold: 15,
			ExitThreshold:  30,
		},
		Backtest: Backtest{
			HorizonDays: 60,
			Benchmark:   "SPY",
		},
	}
}

// Normalization schemes
const (
	SchemeZScore = "zscore"
	SchemeMinMax = "minmax"
)
