package portfolio

import (
	"sort"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/pkg/logger"
)

// Constructor builds the buffered Top-N portfolio from a ranked
// cross-section. The rank buffer gives held names a wider exit band
// than fresh entries, which damps churn from small rank wiggles.
// SSOT: portfolio membership rules live here only
type Constructor struct {
	cfg strategy.Portfolio
	log *logger.Logger
}

// NewConstructor creates a new portfolio constructor
func NewConstructor(cfg strategy.Portfolio, log *logger.Logger) *Constructor {
	return &Constructor{cfg: cfg, log: log}
}

// Construct selects up to TopN constituents for the run date.
//   - a name already held survives while its rank stays <= ExitThreshold
//   - a name not held enters only when its rank is <= EntryThreshold
//
// prior is the most recent earlier snapshot, nil when none exists; with
// no prior every candidate must clear the entry threshold. Selected
// names are equal-weighted at 1/len(selected).
func (c *Constructor) Construct(date time.Time, entries []contracts.RankEntry, prior *contracts.PortfolioSnapshot) *contracts.PortfolioSnapshot {
	held := make(map[string]bool)
	if prior != nil {
		for _, p := range prior.Positions {
			held[p.Ticker] = true
		}
	}

	selected := make([]contracts.RankEntry, 0, c.cfg.TopN)
	for _, e := range entries {
		threshold := c.cfg.EntryThreshold
		if held[e.Ticker] {
			threshold = c.cfg.ExitThreshold
		}
		if e.Rank <= threshold {
			selected = append(selected, e)
		}
	}

	// Best ranks first, then cap at TopN
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Rank < selected[j].Rank
	})
	if len(selected) > c.cfg.TopN {
		selected = selected[:c.cfg.TopN]
	}

	snapshot := &contracts.PortfolioSnapshot{
		Date:      date,
		Positions: make([]contracts.Position, len(selected)),
	}
	if len(selected) > 0 {
		weight := 1.0 / float64(len(selected))
		for i, e := range selected {
			snapshot.Positions[i] = contracts.Position{
				Ticker: e.Ticker,
				Rank:   e.Rank,
				Weight: weight,
			}
		}
	}

	retained := 0
	for _, p := range snapshot.Positions {
		if held[p.Ticker] {
			retained++
		}
	}
	c.log.WithFields(map[string]interface{}{
		"positions": snapshot.Count(),
		"retained":  retained,
		"entered":   snapshot.Count() - retained,
	}).Info("portfolio constructed")

	return snapshot
}
