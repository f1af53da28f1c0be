package s0_data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/logger"
)

func day(d int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestBarCache_MissingSymbolIsUnavailable(t *testing.T) {
	cache := NewBarCache(t.TempDir(), logger.NewNop())

	bars, ok, err := cache.Bars(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, bars)
}

func TestBarCache_MalformedFileIsUnavailableNotFatal(t *testing.T) {
	dir := t.TempDir()
	cache := NewBarCache(dir, logger.NewNop())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bars"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bars", "BAD.json"), []byte("not an array"), 0o644))

	_, ok, err := cache.Bars(context.Background(), "BAD")
	require.NoError(t, err, "malformed cache is a skip, not an error")
	assert.False(t, ok)
}

func TestBarCache_SaveAndReload(t *testing.T) {
	cache := NewBarCache(t.TempDir(), logger.NewNop())
	ctx := context.Background()

	bars := []contracts.Bar{
		{Date: day(0), Close: 100},
		{Date: day(1), Close: 101.5},
	}
	require.NoError(t, cache.SaveBars(ctx, "aapl", bars))

	loaded, ok, err := cache.Bars(ctx, "AAPL")
	require.NoError(t, err)
	require.True(t, ok, "symbol lookup is case-insensitive on write")
	require.Len(t, loaded, 2)
	assert.Equal(t, 100.0, loaded[0].Close)
	assert.True(t, loaded[0].Date.Before(loaded[1].Date))
}

func TestBarCache_ReingestOverwritesDate(t *testing.T) {
	cache := NewBarCache(t.TempDir(), logger.NewNop())
	ctx := context.Background()

	require.NoError(t, cache.SaveBars(ctx, "AAPL", []contracts.Bar{{Date: day(0), Close: 100}}))
	require.NoError(t, cache.SaveBars(ctx, "AAPL", []contracts.Bar{
		{Date: day(0), Close: 99.5}, // corrected close, last writer wins
		{Date: day(1), Close: 101},
	}))

	loaded, _, err := cache.Bars(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 99.5, loaded[0].Close)
}

func TestLoadUniverseBars_SkipsUnavailable(t *testing.T) {
	cache := NewBarCache(t.TempDir(), logger.NewNop())
	ctx := context.Background()

	require.NoError(t, cache.SaveBars(ctx, "AAA", []contracts.Bar{{Date: day(0), Close: 1}}))

	bars, err := LoadUniverseBars(ctx, cache, []string{"AAA", "MISSING"})
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Contains(t, bars, "AAA")
}

func TestFilterStale(t *testing.T) {
	bars := map[string][]contracts.Bar{
		"FRESH": {{Date: day(95), Close: 1}, {Date: day(100), Close: 1}},
		"STALE": {{Date: day(0), Close: 1}, {Date: day(50), Close: 1}},
	}

	fresh := FilterStale(bars, day(100), 14)

	assert.Contains(t, fresh, "FRESH")
	assert.NotContains(t, fresh, "STALE")

	// Disabled filter keeps everything.
	assert.Len(t, FilterStale(bars, day(100), 0), 2)
}

func TestHealthSnapshot(t *testing.T) {
	universe := []string{"AAA", "BBB", "CCC", "DDD"}
	available := map[string][]contracts.Bar{
		"AAA": {{Date: day(0), Close: 1}},
		"BBB": {{Date: day(0), Close: 1}},
		"CCC": {{Date: day(0), Close: 1}},
	}

	point := HealthSnapshot(day(10), universe, available)

	assert.Equal(t, "2024-01-11", point.Date)
	assert.Equal(t, 4, point.Symbols)
	assert.Equal(t, 3, point.WithBars)
	assert.InDelta(t, 0.75, point.Coverage, 1e-12)
}
