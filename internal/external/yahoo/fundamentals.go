package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
)

// rawValue is Yahoo's {raw, fmt} number wrapper. Only raw is used; a
// missing field stays nil.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// summaryResponse mirrors the v10 quoteSummary payload for the modules we
// request.
type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail *struct {
				TrailingPE *rawValue `json:"trailingPE"`
				ForwardPE  *rawValue `json:"forwardPE"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				RevenueGrowth   *rawValue `json:"revenueGrowth"`
				EarningsGrowth  *rawValue `json:"earningsGrowth"`
				ProfitMargins   *rawValue `json:"profitMargins"`
				DebtToEquity    *rawValue `json:"debtToEquity"`
				TargetMeanPrice *rawValue `json:"targetMeanPrice"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetFundamentals fetches the fundamental snapshot for one ticker
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	cacheKey := fmt.Sprintf("fundamentals:%s", ticker)
	cached := &contracts.FundamentalSnapshot{}
	if found, _ := c.cache.Get(ctx, cacheKey, cached); found {
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	url := fmt.Sprintf("%s/%s?modules=summaryDetail%%2CfinancialData",
		c.summaryBaseURL, ticker)

	var payload summaryResponse
	if err := c.httpClient.GetJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("quoteSummary request for %s failed: %w", ticker, err)
	}

	snapshot, err := parseSummary(ticker, &payload)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, cacheKey, snapshot, c.cacheTTL)
	return snapshot, nil
}

// parseSummary converts the quoteSummary payload into a snapshot. Absent
// provider fields stay nil, never zero.
func parseSummary(ticker string, payload *summaryResponse) (*contracts.FundamentalSnapshot, error) {
	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary API error for %s: %s",
			ticker, payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quoteSummary result for %s", ticker)
	}

	result := payload.QuoteSummary.Result[0]
	snapshot := &contracts.FundamentalSnapshot{
		Ticker:    ticker,
		FetchedAt: time.Now().UTC(),
	}

	if sd := result.SummaryDetail; sd != nil {
		snapshot.TrailingPE = rawOf(sd.TrailingPE)
		snapshot.ForwardPE = rawOf(sd.ForwardPE)
	}
	if fd := result.FinancialData; fd != nil {
		snapshot.RevenueGrowth = rawOf(fd.RevenueGrowth)
		snapshot.EarningsGrowth = rawOf(fd.EarningsGrowth)
		snapshot.ProfitMargin = rawOf(fd.ProfitMargins)
		snapshot.DebtToEquity = rawOf(fd.DebtToEquity)
		snapshot.AnalystTarget = rawOf(fd.TargetMeanPrice)
	}

	return snapshot, nil
}

func rawOf(v *rawValue) *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}
