package fundamentals

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/pkg/logger"
)

// Fetcher retrieves fundamental snapshots for admitted tickers through a
// fixed-size worker pool. Bounded concurrency respects provider rate
// limits while parallelizing I/O-bound latency.
type Fetcher struct {
	provider contracts.MarketDataProvider
	workers  int
	logger   *logger.Logger
}

// NewFetcher creates a new fundamentals fetcher
func NewFetcher(provider contracts.MarketDataProvider, workers int, log *logger.Logger) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{
		provider: provider,
		workers:  workers,
		logger:   log,
	}
}

// FetchAll resolves snapshots for the given tickers. Individual failures
// yield no snapshot for that ticker and never abort sibling requests.
// Results are keyed by ticker, so completion order does not matter.
func (f *Fetcher) FetchAll(ctx context.Context, tickers []string, date time.Time) *contracts.FundamentalSet {
	set := &contracts.FundamentalSet{
		Date:      date,
		Snapshots: make(map[string]*contracts.FundamentalSnapshot, len(tickers)),
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		queue = make(chan string)
	)

	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range queue {
				snapshot, err := f.provider.GetFundamentals(ctx, ticker)
				if err != nil {
					f.logger.WithFields(map[string]interface{}{
						"ticker": ticker,
						"error":  err.Error(),
					}).Warn("Fundamentals fetch failed, dropping ticker")
					continue
				}
				if snapshot == nil {
					continue
				}

				mu.Lock()
				set.Snapshots[ticker] = snapshot
				mu.Unlock()
			}
		}()
	}

	for _, ticker := range tickers {
		queue <- ticker
	}
	close(queue)
	wg.Wait()

	f.logger.WithFields(map[string]interface{}{
		"requested": len(tickers),
		"resolved":  set.Count(),
	}).Info("Fundamentals fetched")

	return set
}
