package s1_universe

import (
	"context"
	"strings"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/logger"
)

// FallbackSymbols is the static universe used when the primary source
// cannot be resolved. Large, liquid US names with long daily histories.
var FallbackSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AVGO",
	"JPM", "V", "UNH", "XOM", "JNJ", "PG", "HD", "COST",
	"MRK", "ABBV", "KO", "PEP", "WMT", "CSCO", "ORCL", "MCD",
}

// Resolver supplies the ordered list of asset symbols to analyze: the
// primary source first, the static fallback when the primary fails or
// yields fewer symbols than the absolute floor.
type Resolver struct {
	primary  contracts.UniverseProvider
	minCount int
	logger   *logger.Logger
}

// NewResolver creates a universe resolver. minCount is the absolute
// floor below which the primary result is considered unusable.
func NewResolver(primary contracts.UniverseProvider, minCount int, log *logger.Logger) *Resolver {
	return &Resolver{primary: primary, minCount: minCount, logger: log}
}

// Symbols resolves the universe. Falling back is a data-quality event,
// not an error; the pipeline always gets a usable list.
func (r *Resolver) Symbols(ctx context.Context) ([]string, error) {
	if r.primary != nil {
		symbols, err := r.primary.Symbols(ctx)
		if err == nil {
			symbols = Normalize(symbols)
			if len(symbols) >= r.minCount {
				return symbols, nil
			}
			r.logger.WithFields(map[string]interface{}{
				"resolved": len(symbols),
				"min":      r.minCount,
			}).Warn("Primary universe too thin, using fallback")
		} else {
			r.logger.WithError(err).Warn("Primary universe failed, using fallback")
		}
	}

	return Normalize(FallbackSymbols), nil
}

// Normalize upper-cases, trims and deduplicates symbols, preserving
// first-seen order.
func Normalize(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		out = append(out, symbol)
	}
	return out
}
