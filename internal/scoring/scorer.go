package scoring

import (
	"sort"
	"time"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/internal/strategy"
	"github.com/wonny/alphadesk/pkg/logger"
)

// Scorer turns admitted tickers with price and fundamental data into a
// ranked cross-section. Tickers missing either input are excluded from
// the run rather than scored with fabricated data.
type Scorer struct {
	weights strategy.FactorWeights
	norm    strategy.Normalization
	log     *logger.Logger
}

// NewScorer creates a Scorer from the strategy configuration
func NewScorer(cfg *strategy.Config, log *logger.Logger) *Scorer {
	return &Scorer{
		weights: cfg.Factors,
		norm:    cfg.Normalization,
		log:     log,
	}
}

// candidate carries one ticker through the scoring pipeline
type candidate struct {
	ticker string
	price  float64
	raw    RawFactors
}

// Score ranks the admitted tickers for one run date. The tickers slice
// fixes iteration order, so equal inputs always yield equal output.
// prevRanks is the prior run's ticker-to-rank mapping, nil on the first
// run.
func (s *Scorer) Score(
	date time.Time,
	tickers []string,
	series map[string]*contracts.PriceSeries,
	fundamentals *contracts.FundamentalSet,
	prevRanks map[string]int,
) ([]contracts.RankEntry, error) {
	candidates := make([]candidate, 0, len(tickers))
	for _, ticker := range tickers {
		ps := series[ticker]
		if ps.IsEmpty() {
			continue
		}
		snapshot, ok := fundamentals.Get(ticker)
		if !ok {
			s.log.WithField("ticker", ticker).Debug("skipping ticker without fundamentals")
			continue
		}
		candidates = append(candidates, candidate{
			ticker: ticker,
			price:  ps.LastClose(),
			raw:    computeRawFactors(ps, snapshot, s.norm.Epsilon),
		})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	normalized, err := s.normalizeAll(candidates)
	if err != nil {
		return nil, err
	}

	entries := make([]contracts.RankEntry, len(candidates))
	for i, c := range candidates {
		scores := normalized[i]
		entries[i] = contracts.RankEntry{
			Date:       date,
			Ticker:     c.ticker,
			Price:      c.price,
			TotalScore: s.composite(scores),
			Scores:     scores,
		}
	}

	// Rank by score descending, ties broken by ticker for stable output
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Ticker < entries[j].Ticker
	})
	for i := range entries {
		entries[i].Rank = i + 1
		if prev, ok := prevRanks[entries[i].Ticker]; ok {
			p := prev
			change := prev - entries[i].Rank
			entries[i].PreviousRank = &p
			entries[i].RankChange = &change
		}
	}

	s.log.WithFields(map[string]interface{}{
		"candidates": len(tickers),
		"ranked":     len(entries),
		"scheme":     s.norm.Scheme,
	}).Info("cross-section ranked")
	return entries, nil
}

// factorColumns maps each factor to its raw extractor and normalized
// setter, so normalization runs the same code path for all eight.
var factorColumns = []struct {
	get func(RawFactors) float64
	set func(*contracts.FactorScores, float64)
}{
	{func(r RawFactors) float64 { return r.Value }, func(s *contracts.FactorScores, v float64) { s.Value = v }},
	{func(r RawFactors) float64 { return r.Growth }, func(s *contracts.FactorScores, v float64) { s.Growth = v }},
	{func(r RawFactors) float64 { return r.Quality }, func(s *contracts.FactorScores, v float64) { s.Quality = v }},
	{func(r RawFactors) float64 { return r.Momentum }, func(s *contracts.FactorScores, v float64) { s.Momentum = v }},
	{func(r RawFactors) float64 { return r.Bounce }, func(s *contracts.FactorScores, v float64) { s.Bounce = v }},
	{func(r RawFactors) float64 { return r.Analyst }, func(s *contracts.FactorScores, v float64) { s.Analyst = v }},
	{func(r RawFactors) float64 { return r.Liquidity }, func(s *contracts.FactorScores, v float64) { s.Liquidity = v }},
	{func(r RawFactors) float64 { return r.Volatility }, func(s *contracts.FactorScores, v float64) { s.Volatility = v }},
}

// normalizeAll rescales every factor column across the candidate set
func (s *Scorer) normalizeAll(candidates []candidate) ([]contracts.FactorScores, error) {
	out := make([]contracts.FactorScores, len(candidates))
	column := make([]float64, len(candidates))
	for _, fc := range factorColumns {
		for i, c := range candidates {
			column[i] = fc.get(c.raw)
		}
		scaled, err := normalizeColumn(column, s.norm.Scheme, s.norm.Epsilon)
		if err != nil {
			return nil, err
		}
		for i, v := range scaled {
			fc.set(&out[i], v)
		}
	}
	return out, nil
}

// composite applies the strategy weights to normalized factor scores
func (s *Scorer) composite(f contracts.FactorScores) float64 {
	w := s.weights
	return f.Value*w.Value +
		f.Growth*w.Growth +
		f.Quality*w.Quality +
		f.Momentum*w.Momentum +
		f.Bounce*w.Bounce +
		f.Analyst*w.Analyst +
		f.Liquidity*w.Liquidity +
		f.Volatility*w.Volatility
}
