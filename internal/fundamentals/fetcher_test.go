package fundamentals

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/pkg/logger"
)

type stubProvider struct {
	mu        sync.Mutex
	inFlight  int32
	maxFlight int32
	failures  map[string]bool
	delay     time.Duration
	callCount int32
}

func (s *stubProvider) GetFundamentals(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	current := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	atomic.AddInt32(&s.callCount, 1)

	s.mu.Lock()
	if current > s.maxFlight {
		s.maxFlight = current
	}
	failed := s.failures[ticker]
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	if failed {
		return nil, fmt.Errorf("provider timeout for %s", ticker)
	}

	return &contracts.FundamentalSnapshot{
		Ticker:     ticker,
		TrailingPE: contracts.Float(20),
		FetchedAt:  time.Now(),
	}, nil
}

func (s *stubProvider) DownloadHistory(ctx context.Context, tickers []string, lookbackDays int) (map[string]*contracts.PriceSeries, error) {
	return nil, nil
}

func (s *stubProvider) GetHistory(ctx context.Context, ticker string, lookbackDays int) (*contracts.PriceSeries, error) {
	return nil, nil
}

func TestFetchAll_ResolvesSubset(t *testing.T) {
	provider := &stubProvider{failures: map[string]bool{"FAIL": true}}
	fetcher := NewFetcher(provider, 4, logger.NewNop())

	set := fetcher.FetchAll(context.Background(), []string{"AAPL", "FAIL", "MSFT"}, time.Now())

	assert.Equal(t, 2, set.Count())
	_, ok := set.Get("AAPL")
	assert.True(t, ok)
	_, ok = set.Get("FAIL")
	assert.False(t, ok, "failed ticker must be absent, not zero-valued")
}

func TestFetchAll_BoundedConcurrency(t *testing.T) {
	provider := &stubProvider{delay: 5 * time.Millisecond}
	fetcher := NewFetcher(provider, 3, logger.NewNop())

	tickers := make([]string, 30)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i)
	}

	set := fetcher.FetchAll(context.Background(), tickers, time.Now())

	assert.Equal(t, 30, set.Count())
	assert.Equal(t, int32(30), atomic.LoadInt32(&provider.callCount))
	assert.LessOrEqual(t, provider.maxFlight, int32(3), "in-flight requests must not exceed the pool size")
}

func TestFetchAll_EmptyInput(t *testing.T) {
	fetcher := NewFetcher(&stubProvider{}, 12, logger.NewNop())

	set := fetcher.FetchAll(context.Background(), nil, time.Now())
	assert.Equal(t, 0, set.Count())
}
