package stooq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/httputil"
	"github.com/wonny/tremor/pkg/logger"
)

const sampleCSV = `Date,Open,High,Low,Close,Volume
2024-01-02,185.10,186.00,184.00,185.90,12345
2024-01-03,186.00,187.50,185.00,186.75,23456
2024-01-04,bad,row,with,garbage,close
2024-01-05,187.00,188.00,186.50,187.25,34567
`

func TestParseCSV(t *testing.T) {
	bars, err := parseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, "2024-01-02", bars[0].Date.Format("2006-01-02"))
	assert.Equal(t, 185.90, bars[0].Close)
	assert.Equal(t, 186.75, bars[1].Close)
}

func TestParseCSV_NoData(t *testing.T) {
	bars, err := parseCSV(strings.NewReader("No data"))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestClient_DailyBars(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	log := logger.NewNop()
	cfg := config.StooqConfig{BaseURL: server.URL, Suffix: ".us", RatePerSec: 100}
	client := New(cfg, httputil.New(log).DisableRetry(), log)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	bars, err := client.DailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Contains(t, gotQuery, "s=aapl.us")
	assert.Contains(t, gotQuery, "d1=20240101")
	assert.Contains(t, gotQuery, "d2=20240131")
}

func TestClient_DailyBars_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	log := logger.NewNop()
	cfg := config.StooqConfig{BaseURL: server.URL, Suffix: ".us", RatePerSec: 100}
	client := New(cfg, httputil.New(log).DisableRetry(), log)

	_, err := client.DailyBars(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	assert.Error(t, err)
}
