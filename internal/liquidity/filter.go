package liquidity

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/pkg/logger"
)

// Filter admits only liquid names and retains their price history for the
// factor scorer, avoiding a second download.
type Filter struct {
	provider contracts.MarketDataProvider
	config   strategy.Liquidity
	logger   *logger.Logger
}

// Result is the admitted ticker set plus each ticker's retained series
type Result struct {
	Date     time.Time
	Admitted []string
	Series   map[string]*contracts.PriceSeries
	Dropped  map[string]string // ticker -> drop reason
}

// NewFilter creates a new liquidity filter
func NewFilter(provider contracts.MarketDataProvider, cfg strategy.Liquidity, log *logger.Logger) *Filter {
	return &Filter{
		provider: provider,
		config:   cfg,
		logger:   log,
	}
}

// Apply downloads lookback history for the whole universe in one bulk call
// and admits ticker t iff lastClose(t) > MinPrice and meanVolume(t) >
// MinVolume, both strict. Per-ticker failures drop the ticker, never the
// run. Zero admitted tickers is an empty result, not an error.
func (f *Filter) Apply(ctx context.Context, universe *contracts.Universe) (*Result, error) {
	series, err := f.provider.DownloadHistory(ctx, universe.Tickers, f.config.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("bulk history download failed: %w", err)
	}

	result := &Result{
		Date:     universe.Date,
		Admitted: make([]string, 0, len(series)),
		Series:   make(map[string]*contracts.PriceSeries, len(series)),
		Dropped:  make(map[string]string),
	}

	// Iterate universe order so the admitted list stays deterministic
	for _, ticker := range universe.Tickers {
		s, ok := series[ticker]
		if !ok || s.IsEmpty() {
			result.Dropped[ticker] = "no price data"
			continue
		}

		lastClose := s.LastClose()
		meanVolume := s.MeanVolume()

		if lastClose <= f.config.MinPrice {
			result.Dropped[ticker] = fmt.Sprintf("price %.2f <= %.2f", lastClose, f.config.MinPrice)
			continue
		}
		if meanVolume <= f.config.MinVolume {
			result.Dropped[ticker] = fmt.Sprintf("avg volume %.0f <= %.0f", meanVolume, f.config.MinVolume)
			continue
		}

		result.Admitted = append(result.Admitted, ticker)
		result.Series[ticker] = s
	}

	f.logger.WithFields(map[string]interface{}{
		"universe": universe.Count(),
		"admitted": len(result.Admitted),
		"dropped":  len(result.Dropped),
	}).Info("Liquidity filter applied")

	return result, nil
}
