package s0_data

import (
	"time"

	"github.com/wonny/tremor/internal/contracts"
)

// HealthSnapshot summarizes bar-cache coverage for one day: how many
// universe symbols have usable bars. The orchestrator merges the snapshot
// into the daily health history artifact.
func HealthSnapshot(date time.Time, universe []string, available map[string][]contracts.Bar) contracts.HealthPoint {
	point := contracts.HealthPoint{
		Date:     contracts.FormatDate(date),
		Symbols:  len(universe),
		WithBars: len(available),
	}
	if point.Symbols > 0 {
		point.Coverage = float64(point.WithBars) / float64(point.Symbols)
	}
	return point
}
