// Package slickcharts scrapes index constituent symbols from a Slickcharts
// components page. It is the primary universe source; the resolver falls
// back to a static list when the scrape fails or comes back thin.
package slickcharts

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/tremor/pkg/httputil"
	"github.com/wonny/tremor/pkg/logger"
)

// Symbols look like "AAPL", "BRK.B", "GOOG".
var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// Client fetches and parses a constituent page.
type Client struct {
	url        string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// New creates a new constituents client for the given page URL.
func New(url string, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{url: url, httpClient: httpClient, logger: log}
}

// Symbols fetches the page and extracts constituent symbols in page
// order (weight order on Slickcharts).
func (c *Client) Symbols(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse constituents page: %w", err)
	}

	symbols := parseConstituents(doc)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no constituent symbols found at %s", c.url)
	}

	c.logger.WithFields(map[string]interface{}{
		"url":     c.url,
		"symbols": len(symbols),
	}).Debug("Constituents scraped")

	return symbols, nil
}

// parseConstituents walks the components table. Slickcharts links every
// symbol cell to /symbol/<SYM>, so anchor hrefs are the stable signal;
// the visible cell text is the fallback.
func parseConstituents(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0, 128)

	add := func(raw string) {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if !symbolPattern.MatchString(symbol) || seen[symbol] {
			return
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		link := row.Find(`a[href^="/symbol/"]`).First()
		if href, ok := link.Attr("href"); ok {
			add(strings.TrimPrefix(href, "/symbol/"))
			return
		}

		cells := row.Find("td")
		if cells.Length() >= 3 {
			add(cells.Eq(2).Text())
		}
	})

	return symbols
}
