// Package stooq fetches daily price bars from the Stooq CSV endpoint.
// This is the remote bar-fetching side of the system; the analytic core
// only ever reads the local cache the fetcher fills.
package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/httputil"
	"github.com/wonny/tremor/pkg/logger"
)

// Client downloads daily bar history per symbol.
type Client struct {
	cfg        config.StooqConfig
	httpClient *httputil.Client
	logger     *logger.Logger
}

// New creates a Stooq client. The rate limit from config is applied to
// the underlying HTTP client.
func New(cfg config.StooqConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	httpClient.WithRateLimit(cfg.RatePerSec)
	return &Client{cfg: cfg, httpClient: httpClient, logger: log}
}

// DailyBars fetches the ascending daily close series for a symbol in
// [from, to]. An unknown symbol yields an empty series, not an error.
func (c *Client) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	endpoint := fmt.Sprintf("%s?s=%s&d1=%s&d2=%s&i=d",
		c.cfg.BaseURL,
		url.QueryEscape(strings.ToLower(symbol)+c.cfg.Suffix),
		from.Format("20060102"),
		to.Format("20060102"),
	)

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, symbol)
	}

	bars, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse bars for %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Daily bars fetched")

	return bars, nil
}

// parseCSV decodes the Stooq daily CSV (Date,Open,High,Low,Close,Volume).
// Rows with missing or unparsable dates/closes are skipped; Stooq answers
// unknown symbols with a plain "No data" body, which parses to empty.
func parseCSV(r io.Reader) ([]contracts.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var bars []contracts.Bar
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if first {
			first = false
			if len(record) > 0 && strings.EqualFold(record[0], "Date") {
				continue
			}
		}
		if len(record) < 5 {
			continue
		}

		date, err := contracts.ParseDate(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		close, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil {
			continue
		}

		bars = append(bars, contracts.Bar{Date: date, Close: close})
	}

	return bars, nil
}
