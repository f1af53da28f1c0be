// Package s2_gates computes market-regime gates from a single benchmark
// symbol's daily bars. The gates are persisted as their own artifact and
// consumed by the composite joiner, which never recomputes them.
package s2_gates

import (
	"math"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/logger"
)

// tradingDaysPerYear annualizes the daily realized volatility.
const tradingDaysPerYear = 252

// Computer derives trend and volatility gates from benchmark bars.
type Computer struct {
	cfg    config.GatesConfig
	logger *logger.Logger
}

// NewComputer creates a gate computer with the given parameters.
func NewComputer(cfg config.GatesConfig, log *logger.Logger) *Computer {
	return &Computer{cfg: cfg, logger: log}
}

// Compute emits one GatePoint per benchmark bar, in bar order.
//
// Trend gate: close >= TrendWindow-day simple moving average. Null while
// fewer than TrendWindow bars exist.
//
// Vol gate: annualized realized volatility of the last VolWindow daily
// log returns below VolCeiling. Null while fewer than VolWindow+1 bars
// exist (a return needs two closes).
func (c *Computer) Compute(bars []contracts.Bar) []contracts.GatePoint {
	points := make([]contracts.GatePoint, 0, len(bars))

	returns := logReturns(bars)

	for i, bar := range bars {
		point := contracts.GatePoint{Date: contracts.FormatDate(bar.Date)}

		if i+1 >= c.cfg.TrendWindow {
			sma := mean(closes(bars[i+1-c.cfg.TrendWindow : i+1]))
			point.TrendGate = contracts.Bool(bar.Close >= sma)
		}

		// returns[k] is the return ending at bar k+1.
		if i >= c.cfg.VolWindow {
			vol := realizedVol(returns[i-c.cfg.VolWindow : i])
			point.VolGate = contracts.Bool(vol < c.cfg.VolCeiling)
		}

		points = append(points, point)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": c.cfg.BenchmarkSymbol,
		"points": len(points),
	}).Debug("Gates computed")

	return points
}

// logReturns yields len(bars)-1 daily log returns. A non-positive close
// on either side produces NaN, which realizedVol skips.
func logReturns(bars []contracts.Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	returns := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev, curr := bars[i-1].Close, bars[i].Close
		if prev > 0 && curr > 0 {
			returns[i-1] = math.Log(curr / prev)
		} else {
			returns[i-1] = math.NaN()
		}
	}
	return returns
}

// realizedVol is the annualized population standard deviation of the
// valid returns in the window.
func realizedVol(returns []float64) float64 {
	var sum float64
	var n int
	for _, r := range returns {
		if !math.IsNaN(r) {
			sum += r
			n++
		}
	}
	if n < 2 {
		return 0
	}
	mu := sum / float64(n)

	var ss float64
	for _, r := range returns {
		if !math.IsNaN(r) {
			d := r - mu
			ss += d * d
		}
	}

	return math.Sqrt(ss/float64(n)) * math.Sqrt(tradingDaysPerYear)
}

func closes(bars []contracts.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
