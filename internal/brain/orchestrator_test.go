package brain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tremor/internal/artifacts"
	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/internal/s0_data"
	"github.com/wonny/tremor/internal/s1_universe"
	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/logger"
)

type fixedUniverse struct {
	symbols []string
}

func (f *fixedUniverse) Symbols(ctx context.Context) ([]string, error) {
	return f.symbols, nil
}

var testBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func seedBars(t *testing.T, cache *s0_data.BarCache, symbol string, closes []float64) {
	t.Helper()
	bars := make([]contracts.Bar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.Bar{Date: testBase.AddDate(0, 0, i), Close: c}
	}
	require.NoError(t, cache.SaveBars(context.Background(), symbol, bars))
}

func testConfig(dataDir string) *config.Config {
	return &config.Config{
		DataDir: dataDir,
		Pipeline: config.PipelineConfig{
			StartDate:       testBase,
			ShortWindow:     2,
			LongWindow:      3,
			ZWindow:         4,
			MinZPoints:      2,
			MinAssetsFloor:  2,
			MinAssetsTarget: 3,
			ZThreshold:      2.0,
			Epsilon:         1e-10,
			StaleDays:       0,
		},
		Gates: config.GatesConfig{
			BenchmarkSymbol: "SPY",
			TrendWindow:     2,
			VolWindow:       2,
			VolCeiling:      100,
		},
	}
}

func newTestOrchestrator(t *testing.T, symbols []string) (*Orchestrator, *s0_data.BarCache, *artifacts.Store) {
	t.Helper()
	dir := t.TempDir()
	log := logger.NewNop()
	cache := s0_data.NewBarCache(dir, log)
	store := artifacts.NewStore(dir, log)
	resolver := s1_universe.NewResolver(&fixedUniverse{symbols: symbols}, 2, log)
	return NewOrchestrator(testConfig(dir), resolver, cache, store, log), cache, store
}

func TestRun_EndToEnd(t *testing.T) {
	orch, cache, store := newTestOrchestrator(t, []string{"AAA", "BBB", "CCC"})

	closesA := []float64{100, 101, 99, 102, 100, 103, 101, 104, 102, 105}
	closesB := []float64{50, 50.6, 49.4, 51, 50.1, 51.4, 50.6, 52, 51.1, 52.6}
	closesC := []float64{200, 198, 203, 197, 204, 196, 205, 195, 206, 194}
	seedBars(t, cache, "AAA", closesA)
	seedBars(t, cache, "BBB", closesB)
	seedBars(t, cache, "CCC", closesC)
	seedBars(t, cache, "SPY", []float64{400, 401, 402, 403, 404, 405, 406, 407, 408, 409})

	asOf := testBase.AddDate(0, 0, 9)
	result, err := orch.Run(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, 3, result.UniverseSize)
	assert.Equal(t, 3, result.FreshAssets)
	assert.Greater(t, result.ShockPoints, 0)
	assert.Equal(t, 10, result.GatePoints)

	shock, err := store.LoadShock()
	require.NoError(t, err)
	assert.Len(t, shock, result.ShockPoints)

	composite, err := store.LoadComposite()
	require.NoError(t, err)
	assert.Equal(t, result.CompositePoints, len(composite))
	// Composite domain is the shock domain.
	assert.Equal(t, shock[0].Date, composite[0].Date)

	health, err := store.LoadHealth()
	require.NoError(t, err)
	require.Len(t, health, 1)
	assert.Equal(t, "2024-01-10", health[0].Date)
}

func TestRun_InsufficientAssetsWritesNothing(t *testing.T) {
	orch, cache, store := newTestOrchestrator(t, []string{"AAA", "BBB"})

	seedBars(t, cache, "AAA", []float64{100, 101, 102, 103})
	// BBB has no cached bars: only one fresh asset against a floor of 2.

	_, err := orch.Run(context.Background(), testBase.AddDate(0, 0, 3))
	require.ErrorIs(t, err, ErrInsufficientAssets)

	shock, err := store.LoadShock()
	require.NoError(t, err)
	assert.Empty(t, shock)

	health, err := store.LoadHealth()
	require.NoError(t, err)
	assert.Empty(t, health)
}

func TestRun_MissingBenchmarkDegradesToNullSignals(t *testing.T) {
	orch, cache, store := newTestOrchestrator(t, []string{"AAA", "BBB", "CCC"})

	seedBars(t, cache, "AAA", []float64{100, 101, 99, 102, 100, 103, 101, 104})
	seedBars(t, cache, "BBB", []float64{50, 50.6, 49.4, 51, 50.1, 51.4, 50.6, 52})
	seedBars(t, cache, "CCC", []float64{200, 198, 203, 197, 204, 196, 205, 195})
	// No SPY bars.

	result, err := orch.Run(context.Background(), testBase.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 0, result.GatePoints)
	assert.Equal(t, 0, result.Signals)

	composite, err := store.LoadComposite()
	require.NoError(t, err)
	require.NotEmpty(t, composite)
	for _, p := range composite {
		assert.False(t, p.IsSignal.Valid, "signal must be null on date %s", p.Date)
	}
}

func TestRun_IsIdempotent(t *testing.T) {
	orch, cache, store := newTestOrchestrator(t, []string{"AAA", "BBB", "CCC"})

	seedBars(t, cache, "AAA", []float64{100, 101, 99, 102, 100, 103, 101, 104})
	seedBars(t, cache, "BBB", []float64{50, 50.6, 49.4, 51, 50.1, 51.4, 50.6, 52})
	seedBars(t, cache, "CCC", []float64{200, 198, 203, 197, 204, 196, 205, 195})
	seedBars(t, cache, "SPY", []float64{400, 401, 402, 403, 404, 405, 406, 407})

	asOf := testBase.AddDate(0, 0, 7)
	first, err := orch.Run(context.Background(), asOf)
	require.NoError(t, err)
	second, err := orch.Run(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, first.ShockPoints, second.ShockPoints)

	shock, err := store.LoadShock()
	require.NoError(t, err)
	assert.Len(t, shock, first.ShockPoints)

	health, err := store.LoadHealth()
	require.NoError(t, err)
	assert.Len(t, health, 1) // same date upserts, not appends
}
