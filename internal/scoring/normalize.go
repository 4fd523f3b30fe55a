package scoring

import (
	"fmt"

	"github.com/wonny/alphadesk/internal/strategy"
)

// normalizeColumn rescales one factor's cross-sectional values so that
// factors with different natural units become comparable before
// weighting. The same scheme is applied to every factor in a run.
func normalizeColumn(values []float64, scheme string, epsilon float64) ([]float64, error) {
	switch scheme {
	case strategy.SchemeZScore:
		return zscore(values, epsilon), nil
	case strategy.SchemeMinMax:
		return minmax(values, epsilon), nil
	default:
		return nil, fmt.Errorf("unknown normalization scheme %q", scheme)
	}
}

// zscore maps each value to (v - mean) / (stdev + epsilon). A column of
// identical values maps to all zeros.
func zscore(values []float64, epsilon float64) []float64 {
	m := mean(values)
	sd := stdev(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - m) / (sd + epsilon)
	}
	return out
}

// minmax maps each value into [0, 100] within the column's range. A
// column of identical values maps to all zeros.
func minmax(values []float64, epsilon float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo + epsilon) * 100
	}
	return out
}
