package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// fetchCmd refreshes the bar store from the remote daily-bar source.
var fetchCmd = &cobra.Command{
	Use:   "fetch [symbols...]",
	Short: "Fetch daily bars into the bar store",
	Long: `Fetches daily bars for the resolved universe plus the benchmark
symbol and merges them into the bar store. Explicit symbols override the
universe.

Example:
  go run ./cmd/tremor fetch
  go run ./cmd/tremor fetch AAPL MSFT`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()

	symbols := args
	if len(symbols) == 0 {
		symbols, err = app.universeResolver().Symbols(ctx)
		if err != nil {
			return fmt.Errorf("resolve universe: %w", err)
		}
		symbols = append(symbols, app.cfg.Gates.BenchmarkSymbol)
	}

	fetcher := app.fetcher()
	now := time.Now().UTC()
	fetched, failed := 0, 0
	for _, symbol := range symbols {
		bars, err := fetcher.DailyBars(ctx, symbol, app.cfg.Pipeline.StartDate, now)
		if err != nil {
			failed++
			app.log.WithError(err).WithField("symbol", symbol).Warn("Bar fetch failed")
			continue
		}
		if err := app.writer.SaveBars(ctx, symbol, bars); err != nil {
			return fmt.Errorf("save bars for %s: %w", symbol, err)
		}
		fetched++
		fmt.Printf("  %-8s %d bars\n", symbol, len(bars))
	}

	fmt.Printf("\nFetched %d symbols, %d failed\n", fetched, failed)
	return nil
}
