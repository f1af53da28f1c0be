// Package mockdata generates deterministic daily bars for development
// runs, so the pipeline can be exercised without hitting any remote data
// source.
package mockdata

import (
	"math"
	"math/rand"
	"time"

	"github.com/wonny/tremor/internal/contracts"
)

// Params controls the generated universe. The RNG is explicit: the same
// seed always produces the same bars.
type Params struct {
	Symbols    []string
	StartDate  time.Time
	Days       int
	Seed       int64
	DailyVol   float64 // per-asset idiosyncratic daily volatility
	CommonBeta float64 // loading on the shared market factor
	BreakAt    int     // day index where correlation regime flips, <0 disables
}

// DefaultParams covers a small correlated universe with a regime break
// two thirds of the way in.
func DefaultParams() Params {
	return Params{
		Symbols:    []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF", "GGG", "HHH"},
		StartDate:  time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Days:       420,
		Seed:       42,
		DailyVol:   0.012,
		CommonBeta: 0.7,
		BreakAt:    280,
	}
}

// Generate produces correlated random-walk close series, one per symbol.
// Before BreakAt every asset loads on one shared factor; after it, half
// the universe flips to a second factor, shifting the correlation
// structure the shock indicator is built to detect.
func Generate(params Params) map[string][]contracts.Bar {
	rng := rand.New(rand.NewSource(params.Seed))

	closes := make(map[string]float64, len(params.Symbols))
	for _, symbol := range params.Symbols {
		closes[symbol] = 50 + rng.Float64()*150
	}

	bars := make(map[string][]contracts.Bar, len(params.Symbols))
	for day := 0; day < params.Days; day++ {
		date := params.StartDate.AddDate(0, 0, day)
		factorA := rng.NormFloat64() * params.DailyVol
		factorB := rng.NormFloat64() * params.DailyVol

		for i, symbol := range params.Symbols {
			factor := factorA
			if params.BreakAt >= 0 && day >= params.BreakAt && i%2 == 1 {
				factor = factorB
			}

			ret := params.CommonBeta*factor +
				(1-params.CommonBeta)*rng.NormFloat64()*params.DailyVol
			closes[symbol] *= math.Exp(ret)

			bars[symbol] = append(bars[symbol], contracts.Bar{
				Date:  date,
				Close: closes[symbol],
			})
		}
	}

	return bars
}
