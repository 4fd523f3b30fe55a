package universe

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/pkg/logger"
)

// symbolPattern admits plain equity tickers plus class shares (BRK.B, BF-B)
var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}([.-][A-Z])?$`)

// Loader produces the candidate ticker set for a run
type Loader struct {
	source    contracts.ListingSource
	watchlist []string
	logger    *logger.Logger
}

// NewLoader creates a new universe loader. The watchlist is a curated
// supplemental list merged in after exchange filtering.
func NewLoader(source contracts.ListingSource, watchlist []string, log *logger.Logger) *Loader {
	return &Loader{
		source:    source,
		watchlist: watchlist,
		logger:    log,
	}
}

// Load builds the deduplicated candidate universe for the given date.
// Listing source failure propagates: no universe means nothing downstream
// can proceed.
func (l *Loader) Load(ctx context.Context, date time.Time) (*contracts.Universe, error) {
	records, err := l.source.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing source failed: %w", err)
	}

	universe := &contracts.Universe{
		Date:     date,
		Tickers:  make([]string, 0, len(records)),
		Excluded: make(map[string]string),
	}

	seen := make(map[string]bool)
	for _, record := range records {
		symbol := strings.ToUpper(strings.TrimSpace(record.Symbol))
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		if reason := checkExclusion(symbol, record); reason != "" {
			universe.Excluded[symbol] = reason
			continue
		}

		universe.Tickers = append(universe.Tickers, symbol)
	}

	// Merge the curated watchlist; exchange exclusions still apply
	for _, symbol := range l.watchlist {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		if !symbolPattern.MatchString(symbol) {
			universe.Excluded[symbol] = "malformed symbol"
			continue
		}
		universe.Tickers = append(universe.Tickers, symbol)
	}

	// Deterministic downstream ordering
	sort.Strings(universe.Tickers)

	l.logger.WithFields(map[string]interface{}{
		"date":     date.Format("2006-01-02"),
		"tickers":  len(universe.Tickers),
		"excluded": len(universe.Excluded),
	}).Info("Universe loaded")

	return universe, nil
}

// checkExclusion returns a non-empty reason when the symbol must not enter
// the universe
func checkExclusion(symbol string, record contracts.SymbolRecord) string {
	if !symbolPattern.MatchString(symbol) {
		return "malformed symbol"
	}
	if record.IsETF {
		return "ETF"
	}
	if record.TestIssue {
		return "test issue"
	}
	if isIndexOrFund(record.Name) {
		return "non-equity instrument"
	}
	return ""
}

// isIndexOrFund catches non-equity instruments the directory flags miss
func isIndexOrFund(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"etf", "etn", " index", " fund", " trust units"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
