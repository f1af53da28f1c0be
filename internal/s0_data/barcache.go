package s0_data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/internal/series"
	"github.com/wonny/tremor/pkg/logger"
)

// BarCache is the file-backed bar store: one JSON array of daily bars per
// symbol under <dataDir>/bars. It implements contracts.BarReader and
// contracts.BarWriter.
//
// A missing, unreadable or malformed cache file means "symbol unavailable
// for this run", never a fatal error; the pipeline simply excludes the
// symbol.
type BarCache struct {
	dir    string
	logger *logger.Logger
}

// NewBarCache creates a bar cache rooted at dataDir.
func NewBarCache(dataDir string, log *logger.Logger) *BarCache {
	return &BarCache{dir: filepath.Join(dataDir, "bars"), logger: log}
}

// Bars returns the cached ascending bar series for a symbol. The second
// return value is false when the symbol has no usable cache.
func (c *BarCache) Bars(ctx context.Context, symbol string) ([]contracts.Bar, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(c.path(symbol))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.WithError(err).WithField("symbol", symbol).Warn("Bar cache unreadable, skipping symbol")
		}
		return nil, false, nil
	}

	var bars []contracts.Bar
	if err := json.Unmarshal(data, &bars); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Bar cache malformed, skipping symbol")
		return nil, false, nil
	}
	if len(bars) == 0 {
		return nil, false, nil
	}

	return bars, true, nil
}

// SaveBars merges freshly fetched bars into the symbol's cache file.
// Merge is keyed by date with last-writer-wins, so a corrected close for
// an already-cached date replaces the old value in place.
func (c *BarCache) SaveBars(ctx context.Context, symbol string, bars []contracts.Bar) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(bars) == 0 {
		return nil
	}

	existing, _, err := c.Bars(ctx, symbol)
	if err != nil {
		return err
	}

	merged := series.Merge(existing, bars, func(b contracts.Bar) string {
		return contracts.FormatDate(b.Date)
	}, 0)

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create bar dir: %w", err)
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bars for %s: %w", symbol, err)
	}

	tmp, err := os.CreateTemp(c.dir, symbol+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write bars for %s: %w", symbol, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close bars for %s: %w", symbol, err)
	}
	if err := os.Rename(tmpName, c.path(symbol)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename bars for %s: %w", symbol, err)
	}

	return nil
}

func (c *BarCache) path(symbol string) string {
	return filepath.Join(c.dir, strings.ToUpper(symbol)+".json")
}

// LoadUniverseBars reads the cache for every symbol in the universe and
// returns the available series. Unavailable symbols are excluded, with a
// count returned for health reporting.
func LoadUniverseBars(ctx context.Context, reader contracts.BarReader, symbols []string) (map[string][]contracts.Bar, error) {
	bars := make(map[string][]contracts.Bar, len(symbols))
	for _, symbol := range symbols {
		series, ok, err := reader.Bars(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("read bars for %s: %w", symbol, err)
		}
		if !ok {
			continue
		}
		bars[symbol] = series
	}
	return bars, nil
}

// FilterStale drops assets whose most recent bar is more than staleDays
// calendar days before asOf. Staleness is applied here, at load time,
// before any per-date eligibility logic runs.
func FilterStale(bars map[string][]contracts.Bar, asOf time.Time, staleDays int) map[string][]contracts.Bar {
	if staleDays <= 0 {
		return bars
	}

	cutoff := asOf.AddDate(0, 0, -staleDays)
	fresh := make(map[string][]contracts.Bar, len(bars))
	for symbol, series := range bars {
		if len(series) == 0 {
			continue
		}
		if series[len(series)-1].Date.Before(cutoff) {
			continue
		}
		fresh[symbol] = series
	}
	return fresh
}
