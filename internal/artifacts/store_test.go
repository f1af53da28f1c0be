package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), logger.NewNop())
}

func TestStore_MissingArtifactIsEmptySeries(t *testing.T) {
	store := newTestStore(t)

	points, err := store.LoadShock()
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestStore_ShockRoundTrip(t *testing.T) {
	store := newTestStore(t)

	batch := []contracts.ShockPoint{
		{Date: "2024-01-02", NAssets: 8, NPairs: 28, ShockRaw: contracts.Float(0.12), ShockZ: contracts.Float(1.3)},
		{Date: "2024-01-03", NAssets: 7, NPairs: 21},
	}
	require.NoError(t, store.SaveShock(batch, 0))

	loaded, err := store.LoadShock()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, batch[0], loaded[0])
	assert.False(t, loaded[1].ShockRaw.Valid)
}

func TestStore_SaveUpsertsByDate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveShock([]contracts.ShockPoint{
		{Date: "2024-01-02", NAssets: 8, NPairs: 28, ShockRaw: contracts.Float(0.12)},
	}, 0))

	// Re-running the same date overwrites in place, never duplicates.
	require.NoError(t, store.SaveShock([]contracts.ShockPoint{
		{Date: "2024-01-02", NAssets: 9, NPairs: 36, ShockRaw: contracts.Float(0.15)},
	}, 0))

	loaded, err := store.LoadShock()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 9, loaded[0].NAssets)
}

func TestStore_MalformedArtifactIsAnError(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, logger.NewNop())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "artifacts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "artifacts", "shock_series.json"), []byte("{not json"), 0o644))

	_, err := store.LoadShock()
	assert.Error(t, err)
}

func TestStore_RejectsBadDates(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, logger.NewNop())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "artifacts"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "artifacts", "gate_series.json"),
		[]byte(`[{"date":"02/01/2024","trendGate":true,"volGate":false}]`), 0o644))

	_, err := store.LoadGates()
	assert.Error(t, err)
}

func TestStore_GateNullsSurviveRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveGates([]contracts.GatePoint{
		{Date: "2024-01-02", TrendGate: contracts.Bool(true)},
	}, 0))

	loaded, err := store.LoadGates()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, loaded[0].TrendGate.True())
	assert.False(t, loaded[0].VolGate.Valid, "absent gate stays null, not false")
}

func TestStore_HealthRetention(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveHealth(contracts.HealthPoint{Date: "2023-01-02", Symbols: 10, WithBars: 9, Coverage: 0.9}, 365))
	require.NoError(t, store.SaveHealth(contracts.HealthPoint{Date: "2024-06-03", Symbols: 10, WithBars: 10, Coverage: 1.0}, 365))

	loaded, err := store.LoadHealth()
	require.NoError(t, err)
	require.Len(t, loaded, 1, "entry beyond retention must be trimmed")
	assert.Equal(t, "2024-06-03", loaded[0].Date)
}
