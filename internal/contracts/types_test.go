package contracts

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullFloat64_NullVsValue(t *testing.T) {
	out, err := json.Marshal(ShockPoint{Date: "2024-01-02", NAssets: 3, NPairs: 3})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"shockRaw":null`)
	assert.Contains(t, string(out), `"shockZ":null`)

	var p ShockPoint
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-02","nAssets":3,"nPairs":3,"shockRaw":0.125,"shockZ":null}`), &p))
	assert.True(t, p.ShockRaw.Valid)
	assert.Equal(t, 0.125, p.ShockRaw.Float64)
	assert.False(t, p.ShockZ.Valid)
}

func TestNullFloat64_MissingFieldIsNull(t *testing.T) {
	// An absent field decodes to the same invalid state as an explicit
	// null; readers must not rely on the distinction.
	var p ShockPoint
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-02"}`), &p))
	assert.False(t, p.ShockRaw.Valid)
	assert.False(t, p.ShockZ.Valid)
}

func TestNullFloat64_NaNEncodesAsNull(t *testing.T) {
	out, err := json.Marshal(Float(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestNullBool_Propagation(t *testing.T) {
	var g GatePoint
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-02","trendGate":true,"volGate":null}`), &g))
	assert.True(t, g.TrendGate.True())
	assert.False(t, g.VolGate.Valid)
	// null is not false
	assert.False(t, g.VolGate.True())

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"volGate":null`)
	assert.Contains(t, string(out), `"trendGate":true`)
}

func TestBar_JSONRoundTrip(t *testing.T) {
	var b Bar
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-15","close":187.42}`), &b))
	assert.Equal(t, "2024-03-15", FormatDate(b.Date))
	assert.Equal(t, 187.42, b.Close)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-15","close":187.42}`, string(out))
}

func TestBar_RejectsBadDate(t *testing.T) {
	var b Bar
	err := json.Unmarshal([]byte(`{"date":"15/03/2024","close":1}`), &b)
	assert.Error(t, err)
}
