package s2_shock

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/tremor/internal/contracts"
)

// ReturnSeries holds per-asset log returns aligned to a shared ascending
// date axis. A missing return is NaN; it only becomes JSON null at the
// artifact boundary.
type ReturnSeries struct {
	Dates   []time.Time
	Assets  []string
	Returns map[string][]float64 // per asset, same length as Dates
}

// BuildReturnSeries aligns all assets onto the sorted union of trading
// dates at or after startDate and computes per-asset daily log returns.
//
// For axis index i > 0 the return is ln(close_i / close_{i-1}) when the
// asset has positive closes on both axis dates; otherwise NaN. Index 0 is
// always NaN (no prior date). Assets with fewer than 2 bars in range end
// up all-NaN and simply never become active later.
func BuildReturnSeries(bars map[string][]contracts.Bar, startDate time.Time) *ReturnSeries {
	dateSet := make(map[string]time.Time)
	for _, series := range bars {
		for _, bar := range series {
			if bar.Date.Before(startDate) {
				continue
			}
			dateSet[contracts.FormatDate(bar.Date)] = bar.Date.UTC()
		}
	}

	keys := make([]string, 0, len(dateSet))
	for k := range dateSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dates := make([]time.Time, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		dates[i] = dateSet[k]
		index[k] = i
	}

	assets := make([]string, 0, len(bars))
	for symbol := range bars {
		assets = append(assets, symbol)
	}
	sort.Strings(assets)

	returns := make(map[string][]float64, len(assets))
	for _, symbol := range assets {
		closes := make([]float64, len(dates))
		for i := range closes {
			closes[i] = math.NaN()
		}
		for _, bar := range bars[symbol] {
			if i, ok := index[contracts.FormatDate(bar.Date)]; ok {
				closes[i] = bar.Close
			}
		}

		col := make([]float64, len(dates))
		if len(col) > 0 {
			col[0] = math.NaN()
		}
		for i := 1; i < len(dates); i++ {
			prev, curr := closes[i-1], closes[i]
			if math.IsNaN(prev) || math.IsNaN(curr) || prev <= 0 || curr <= 0 {
				col[i] = math.NaN()
				continue
			}
			col[i] = math.Log(curr / prev)
		}
		returns[symbol] = col
	}

	return &ReturnSeries{Dates: dates, Assets: assets, Returns: returns}
}

// validCount returns the number of non-NaN returns for an asset in the
// inclusive axis range [from, to].
func (rs *ReturnSeries) validCount(symbol string, from, to int) int {
	col := rs.Returns[symbol]
	count := 0
	for i := from; i <= to; i++ {
		if !math.IsNaN(col[i]) {
			count++
		}
	}
	return count
}
