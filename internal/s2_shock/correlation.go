package s2_shock

import "math"

// CorrelationMatrix is a square symmetric matrix over an ordered subset of
// assets. The diagonal is exactly 1; off-diagonal entries lie in [-1, 1].
type CorrelationMatrix struct {
	Assets []string
	Data   [][]float64
}

// activeAssets returns the assets with at least shortWindow non-NaN
// returns in the short trailing range and longWindow in the long range,
// both ending at axis index t. The active set may differ per date.
func (rs *ReturnSeries) activeAssets(t, shortWindow, longWindow int) []string {
	shortFrom := t - shortWindow + 1
	longFrom := t - longWindow + 1

	active := make([]string, 0, len(rs.Assets))
	for _, symbol := range rs.Assets {
		if rs.validCount(symbol, shortFrom, t) >= shortWindow &&
			rs.validCount(symbol, longFrom, t) >= longWindow {
			active = append(active, symbol)
		}
	}
	return active
}

// correlationMatrix computes pairwise Pearson correlations over the
// inclusive axis range [from, to] for the given asset order.
func (rs *ReturnSeries) correlationMatrix(assets []string, from, to int) CorrelationMatrix {
	n := len(assets)
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, n)
		data[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(rs.Returns[assets[i]], rs.Returns[assets[j]], from, to)
			data[i][j] = r
			data[j][i] = r
		}
	}

	return CorrelationMatrix{Assets: assets, Data: data}
}

// pearson computes the population Pearson correlation of two return
// columns over [from, to], using only indices where both are non-NaN.
// Fewer than 2 overlapping samples, or a zero standard deviation on
// either side, yields 0 (a fallback, not an error).
func pearson(xs, ys []float64, from, to int) float64 {
	var sumX, sumY float64
	n := 0
	for i := from; i <= to; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		sumX += xs[i]
		sumY += ys[i]
		n++
	}
	if n < 2 {
		return 0
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var varX, varY, cov float64
	for i := from; i <= to; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		varX += dx * dx
		varY += dy * dy
		cov += dx * dy
	}

	// Population covariance over the product of population standard
	// deviations; the 1/n factors cancel, so divide once under the root.
	// This keeps identical and exactly negated series at r = +-1.
	if varX <= 0 || varY <= 0 {
		return 0
	}
	r := cov / math.Sqrt(varX*varY)

	// Floating point can push |r| a hair past 1.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// effectiveMinAssets is the adaptive minimum active-asset count for a
// date: max(floor, min(target, activeCount)). Permissive when overall
// coverage is thin, while still enforcing an absolute floor.
func effectiveMinAssets(floor, target, activeCount int) int {
	effective := target
	if activeCount < effective {
		effective = activeCount
	}
	if effective < floor {
		effective = floor
	}
	return effective
}
