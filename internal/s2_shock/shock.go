package s2_shock

import (
	"math"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/logger"
)

// Computer derives the correlation-structure shock series from aligned
// return series. It is a single-pass batch computation with no internal
// concurrency; every run recomputes from scratch.
type Computer struct {
	params config.PipelineConfig
	logger *logger.Logger
}

// NewComputer creates a new shock computer.
func NewComputer(params config.PipelineConfig, log *logger.Logger) *Computer {
	return &Computer{params: params, logger: log}
}

// Compute walks the date axis and emits one ShockPoint per evaluation
// date, starting once longWindow dates exist.
//
// Raw shock for a date is the RMS difference between the short- and
// long-window off-diagonal correlation entries over the active assets.
// The z-score is the raw value in population standard-deviation units
// over a trailing window of up to ZWindow non-null raws, emitted only
// once MinZPoints samples have accumulated.
func (c *Computer) Compute(rs *ReturnSeries) []contracts.ShockPoint {
	p := c.params

	points := make([]contracts.ShockPoint, 0, len(rs.Dates))
	rawHistory := make([]float64, 0, len(rs.Dates))
	computed := 0

	for t := p.LongWindow - 1; t < len(rs.Dates); t++ {
		active := rs.activeAssets(t, p.ShortWindow, p.LongWindow)
		nAssets := len(active)
		nPairs := nAssets * (nAssets - 1) / 2

		point := contracts.ShockPoint{
			Date:    contracts.FormatDate(rs.Dates[t]),
			NAssets: nAssets,
			NPairs:  nPairs,
		}

		minAssets := effectiveMinAssets(p.MinAssetsFloor, p.MinAssetsTarget, nAssets)
		if nAssets < minAssets {
			// Degraded output, not an error: the date keeps its
			// diagnostics and carries null raw/z.
			points = append(points, point)
			continue
		}

		corrShort := rs.correlationMatrix(active, t-p.ShortWindow+1, t)
		corrLong := rs.correlationMatrix(active, t-p.LongWindow+1, t)

		raw := offDiagonalRMS(corrShort, corrLong)
		point.ShockRaw = contracts.Float(raw)

		rawHistory = append(rawHistory, raw)
		if z, ok := trailingZScore(rawHistory, p.ZWindow, p.MinZPoints, p.Epsilon); ok {
			point.ShockZ = contracts.Float(z)
		}

		computed++
		points = append(points, point)
	}

	c.logger.WithFields(map[string]interface{}{
		"axis_dates": len(rs.Dates),
		"points":     len(points),
		"computed":   computed,
	}).Info("Shock series computed")

	return points
}

// offDiagonalRMS is the root-mean-square of (short - long) over all
// unique off-diagonal pairs i<j. Zero pairs yields 0 by convention; that
// path is guarded by the minimum-assets check upstream.
func offDiagonalRMS(short, long CorrelationMatrix) float64 {
	n := len(short.Assets)
	pairs := n * (n - 1) / 2
	if pairs == 0 {
		return 0
	}

	var sumSq float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := short.Data[i][j] - long.Data[i][j]
			sumSq += d * d
		}
	}
	return math.Sqrt(sumSq / float64(pairs))
}

// trailingZScore computes the z-score of the latest raw value against the
// up-to-window most recent raws (the latest included). It reports false
// until minPoints samples exist. Population mean and std; the std is
// floored at epsilon so a locally constant series cannot divide by zero.
func trailingZScore(raws []float64, window, minPoints int, epsilon float64) (float64, bool) {
	n := len(raws)
	if n < minPoints {
		return 0, false
	}
	from := n - window
	if from < 0 {
		from = 0
	}
	sample := raws[from:]

	var sum float64
	for _, v := range sample {
		sum += v
	}
	mean := sum / float64(len(sample))

	var sumSq float64
	for _, v := range sample {
		d := v - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(len(sample)))
	if std < epsilon {
		std = epsilon
	}

	return (raws[n-1] - mean) / std, true
}

// TrimTrailingNulls removes the unresolved trailing run so the persisted
// series always ends on a computed value. Trailing dates near today may
// not yet have enough ingested bars; persisting them would make the
// artifact silently rewind once the data lands.
func TrimTrailingNulls(points []contracts.ShockPoint) []contracts.ShockPoint {
	last := len(points) - 1
	for last >= 0 && !points[last].ShockRaw.Valid {
		last--
	}
	return points[:last+1]
}
