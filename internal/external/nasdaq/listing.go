package nasdaq

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/pkg/config"
	"github.com/wonny/alphadesk/pkg/httputil"
	"github.com/wonny/alphadesk/pkg/logger"
)

// Listing fetches the Nasdaq Trader symbol directory files. Covers both
// Nasdaq-listed and other-listed (NYSE, AMEX) securities.
type Listing struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	listedURL  string
	otherURL   string
}

// NewListing creates a new listing source
func NewListing(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Listing {
	return &Listing{
		httpClient: httpClient,
		logger:     log,
		listedURL:  cfg.Nasdaq.ListedURL,
		otherURL:   cfg.Nasdaq.OtherURL,
	}
}

// Symbols fetches and merges both directory files. Listing source failure
// is fatal to the run: with no universe nothing downstream can proceed.
func (l *Listing) Symbols(ctx context.Context) ([]contracts.SymbolRecord, error) {
	listed, err := l.fetchDirectory(ctx, l.listedURL, nasdaqLayout)
	if err != nil {
		return nil, fmt.Errorf("fetch nasdaqlisted failed: %w", err)
	}

	other, err := l.fetchDirectory(ctx, l.otherURL, otherLayout)
	if err != nil {
		return nil, fmt.Errorf("fetch otherlisted failed: %w", err)
	}

	records := append(listed, other...)
	l.logger.WithFields(map[string]interface{}{
		"nasdaq": len(listed),
		"other":  len(other),
	}).Debug("Fetched symbol directory")

	return records, nil
}

// columnLayout maps the differing column positions of the two files
type columnLayout struct {
	symbol    int
	name      int
	etf       int
	testIssue int
	columns   int
}

var (
	// Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
	nasdaqLayout = columnLayout{symbol: 0, name: 1, testIssue: 3, etf: 6, columns: 8}

	// ACT Symbol|Security Name|Exchange|CQS Symbol|ETF|Round Lot Size|Test Issue|NASDAQ Symbol
	otherLayout = columnLayout{symbol: 0, name: 1, etf: 4, testIssue: 6, columns: 8}
)

func (l *Listing) fetchDirectory(ctx context.Context, url string, layout columnLayout) ([]contracts.SymbolRecord, error) {
	body, err := l.httpClient.GetBody(ctx, url)
	if err != nil {
		return nil, err
	}

	return parseDirectory(string(body), layout), nil
}

// parseDirectory parses the pipe-delimited directory format. The first row
// is a header and the last row is a "File Creation Time" trailer.
func parseDirectory(body string, layout columnLayout) []contracts.SymbolRecord {
	var records []contracts.SymbolRecord

	for i, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if i == 0 || line == "" || strings.HasPrefix(line, "File Creation Time") {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < layout.columns {
			continue
		}

		symbol := strings.TrimSpace(fields[layout.symbol])
		if symbol == "" {
			continue
		}

		records = append(records, contracts.SymbolRecord{
			Symbol:    symbol,
			Name:      strings.TrimSpace(fields[layout.name]),
			IsETF:     fields[layout.etf] == "Y",
			TestIssue: fields[layout.testIssue] == "Y",
		})
	}

	return records
}
