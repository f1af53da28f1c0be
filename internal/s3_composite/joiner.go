// Package s3_composite joins the shock series with the regime gates into
// the composite signal artifact.
package s3_composite

import (
	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/logger"
)

// Joiner merges shock points and gate points by date.
type Joiner struct {
	zThreshold float64
	logger     *logger.Logger
}

// NewJoiner creates a joiner with the given shock z-score threshold.
func NewJoiner(zThreshold float64, log *logger.Logger) *Joiner {
	return &Joiner{zThreshold: zThreshold, logger: log}
}

// Join produces one CompositePoint per shock point. The shock series
// defines the date domain; dates missing from the gate series carry null
// gates. A null gate makes IsSignal null — unknown regime is never
// treated as "no signal". With both gates known, the signal fires when
// the z-score is present, at or above the threshold, and both gates are
// open.
func (j *Joiner) Join(shocks []contracts.ShockPoint, gates []contracts.GatePoint) []contracts.CompositePoint {
	gatesByDate := make(map[string]contracts.GatePoint, len(gates))
	for _, g := range gates {
		gatesByDate[g.Date] = g
	}

	points := make([]contracts.CompositePoint, 0, len(shocks))
	signals := 0
	for _, s := range shocks {
		point := contracts.CompositePoint{
			Date:     s.Date,
			ShockZ:   s.ShockZ,
			ShockRaw: s.ShockRaw,
		}

		if g, ok := gatesByDate[s.Date]; ok {
			point.TrendGate = g.TrendGate
			point.VolGate = g.VolGate
		}

		if point.TrendGate.Valid && point.VolGate.Valid {
			fired := s.ShockZ.Valid && s.ShockZ.Float64 >= j.zThreshold &&
				point.TrendGate.Bool && point.VolGate.Bool
			point.IsSignal = contracts.Bool(fired)
			if fired {
				signals++
			}
		}

		points = append(points, point)
	}

	j.logger.WithFields(map[string]interface{}{
		"points":  len(points),
		"signals": signals,
	}).Debug("Composite joined")

	return points
}
