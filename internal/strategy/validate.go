package strategy

import (
	"fmt"
	"math"
)

// weightTolerance is the allowed deviation of the factor weight sum from 1.0
const weightTolerance = 1e-6

// Validate rejects configurations that would violate model invariants.
// Called at load time so a bad weight table never reaches a run.
func Validate(cfg *Config) error {
	if sum := cfg.Factors.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("factor weights must sum to 1.0, got %.8f", sum)
	}

	for name, w := range map[string]float64{
		"value":      cfg.Factors.Value,
		"growth":     cfg.Factors.Growth,
		"quality":    cfg.Factors.Quality,
		"momentum":   cfg.Factors.Momentum,
		"bounce":     cfg.Factors.Bounce,
		"analyst":    cfg.Factors.Analyst,
		"liquidity":  cfg.Factors.Liquidity,
		"volatility": cfg.Factors.Volatility,
	} {
		if w < 0 {
			return fmt.Errorf("factor weight %s must not be negative, got %.4f", name, w)
		}
	}

	if cfg.Normalization.Scheme != SchemeZScore && cfg.Normalization.Scheme != SchemeMinMax {
		return fmt.Errorf("normalization scheme must be %q or %q, got %q",
			SchemeZScore, SchemeMinMax, cfg.Normalization.Scheme)
	}
	if cfg.Normalization.Epsilon <= 0 {
		return fmt.Errorf("normalization epsilon must be positive, got %g", cfg.Normalization.Epsilon)
	}

	if cfg.Liquidity.MinPrice < 0 {
		return fmt.Errorf("liquidity min_price must not be negative, got %.2f", cfg.Liquidity.MinPrice)
	}
	if cfg.Liquidity.MinVolume < 0 {
		return fmt.Errorf("liquidity min_volume must not be negative, got %.0f", cfg.Liquidity.MinVolume)
	}
	if cfg.Liquidity.LookbackDays <= 0 {
		return fmt.Errorf("liquidity lookback_days must be positive, got %d", cfg.Liquidity.LookbackDays)
	}

	if cfg.Fundamentals.Workers <= 0 {
		return fmt.Errorf("fundamentals workers must be positive, got %d", cfg.Fundamentals.Workers)
	}

	if cfg.Portfolio.TopN <= 0 {
		return fmt.Errorf("portfolio top_n must be positive, got %d", cfg.Portfolio.TopN)
	}
	if cfg.Portfolio.EntryThreshold <= 0 {
		return fmt.Errorf("portfolio entry_threshold must be positive, got %d", cfg.Portfolio.EntryThreshold)
	}
	if cfg.Portfolio.ExitThreshold < cfg.Portfolio.EntryThreshold {
		return fmt.Errorf("portfolio exit_threshold (%d) must be >= entry_threshold (%d)",
			cfg.Portfolio.ExitThreshold, cfg.Portfolio.EntryThreshold)
	}

	if cfg.Backtest.HorizonDays <= 0 {
		return fmt.Errorf("backtest horizon_days must be positive, got %d", cfg.Backtest.HorizonDays)
	}
	if cfg.Backtest.Benchmark == "" {
		return fmt.Errorf("backtest benchmark is required")
	}

	return nil
}
