package slickcharts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tremor/pkg/httputil"
	"github.com/wonny/tremor/pkg/logger"
)

const samplePage = `
<html><body>
<table class="table">
<thead><tr><th>#</th><th>Company</th><th>Symbol</th><th>Weight</th></tr></thead>
<tbody>
<tr><td>1</td><td><a href="/symbol/AAPL">Apple Inc.</a></td><td><a href="/symbol/AAPL">AAPL</a></td><td>8.9%</td></tr>
<tr><td>2</td><td><a href="/symbol/MSFT">Microsoft</a></td><td><a href="/symbol/MSFT">MSFT</a></td><td>8.5%</td></tr>
<tr><td>3</td><td><a href="/symbol/BRK.B">Berkshire</a></td><td><a href="/symbol/BRK.B">BRK.B</a></td><td>1.7%</td></tr>
<tr><td>4</td><td>No Link Corp</td><td>NVDA</td><td>1.0%</td></tr>
</tbody>
</table>
</body></html>`

func TestParseConstituents(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	require.NoError(t, err)

	symbols := parseConstituents(doc)

	assert.Equal(t, []string{"AAPL", "MSFT", "BRK.B", "NVDA"}, symbols)
}

func TestParseConstituents_EmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	assert.Empty(t, parseConstituents(doc))
}

func TestClient_Symbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	log := logger.NewNop()
	client := New(server.URL, httputil.New(log).DisableRetry(), log)

	symbols, err := client.Symbols(context.Background())
	require.NoError(t, err)
	assert.Len(t, symbols, 4)
	assert.Equal(t, "AAPL", symbols[0])
}

func TestClient_Symbols_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	log := logger.NewNop()
	client := New(server.URL, httputil.New(log).DisableRetry(), log)

	_, err := client.Symbols(context.Background())
	assert.Error(t, err)
}
