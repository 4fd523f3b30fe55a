package yahoo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
)

// chartResponse mirrors the v8 chart API payload
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetHistory fetches daily OHLCV for one ticker over the lookback window
func (c *Client) GetHistory(ctx context.Context, ticker string, lookbackDays int) (*contracts.PriceSeries, error) {
	cacheKey := fmt.Sprintf("history:%s:%d", ticker, lookbackDays)
	cached := &contracts.PriceSeries{}
	if found, _ := c.cache.Get(ctx, cacheKey, cached); found {
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	// Calendar window is wider than the trading-day lookback; weekends and
	// holidays produce no bars.
	now := time.Now()
	from := now.AddDate(0, 0, -(lookbackDays*7/5 + 7))

	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&events=history",
		c.chartBaseURL, ticker, from.Unix(), now.Unix())

	var payload chartResponse
	if err := c.httpClient.GetJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("chart request for %s failed: %w", ticker, err)
	}

	series, err := parseChart(ticker, &payload)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, cacheKey, series, c.cacheTTL)
	return series, nil
}

// DownloadHistory fetches lookback OHLCV for many tickers and returns an
// explicit ticker -> series mapping. Failed or empty tickers are absent
// from the map; only a fully failed batch is an error.
func (c *Client) DownloadHistory(ctx context.Context, tickers []string, lookbackDays int) (map[string]*contracts.PriceSeries, error) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = make(map[string]*contracts.PriceSeries, len(tickers))
		sem    = make(chan struct{}, c.bulkWorkers)
	)

	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			series, err := c.GetHistory(ctx, ticker, lookbackDays)
			if err != nil {
				c.logger.WithFields(map[string]interface{}{
					"ticker": ticker,
					"error":  err.Error(),
				}).Warn("History download failed, dropping ticker")
				return
			}
			if series.IsEmpty() {
				return
			}

			mu.Lock()
			result[ticker] = series
			mu.Unlock()
		}(ticker)
	}

	wg.Wait()

	if len(result) == 0 && len(tickers) > 0 {
		return nil, fmt.Errorf("history download failed for all %d tickers", len(tickers))
	}

	return result, nil
}

// parseChart converts the chart payload into a PriceSeries. Rows with
// missing closes are skipped rather than filled with zeros.
func parseChart(ticker string, payload *chartResponse) (*contracts.PriceSeries, error) {
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", ticker)
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data for %s", ticker)
	}
	quote := result.Indicators.Quote[0]

	series := &contracts.PriceSeries{
		Ticker: ticker,
		Bars:   make([]contracts.Bar, 0, len(result.Timestamp)),
	}

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := contracts.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}

		series.Bars = append(series.Bars, bar)
	}

	return series, nil
}
