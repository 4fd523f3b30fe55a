package slickcharts

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/pkg/config"
	"github.com/wonny/alphadesk/pkg/httputil"
	"github.com/wonny/alphadesk/pkg/logger"
)

// SP500 scrapes the S&P 500 constituents table. A narrower universe than
// the full exchange directory, useful for fast runs and development.
type SP500 struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewSP500 creates a new S&P 500 listing source
func NewSP500(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *SP500 {
	return &SP500{
		httpClient: httpClient,
		logger:     log,
		url:        cfg.Nasdaq.SP500URL,
	}
}

// Symbols scrapes the constituents table. Index members are equities by
// construction, so no ETF flagging is needed here.
func (s *SP500) Symbols(ctx context.Context) ([]contracts.SymbolRecord, error) {
	body, err := s.httpClient.GetBody(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents page failed: %w", err)
	}

	records, err := parseConstituents(string(body))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"count": len(records),
	}).Debug("Scraped S&P 500 constituents")

	return records, nil
}

// parseConstituents extracts (symbol, name) rows from the first table on
// the page. Row layout: # | Company | Symbol | Weight | ...
func parseConstituents(html string) ([]contracts.SymbolRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	var records []contracts.SymbolRecord
	seen := make(map[string]bool)

	doc.Find("table").First().Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		symbol := strings.TrimSpace(cells.Eq(2).Text())
		if symbol == "" || seen[symbol] {
			return
		}
		seen[symbol] = true

		records = append(records, contracts.SymbolRecord{
			Symbol: symbol,
			Name:   strings.TrimSpace(cells.Eq(1).Text()),
		})
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("no constituents found in page")
	}

	return records, nil
}
