package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tremor/internal/brain"
	"github.com/wonny/tremor/internal/contracts"
)

// runCmd executes a full pipeline pass over the cached bars.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full shock pipeline",
	Long: `Runs the full pipeline over the cached bars:
universe → bars → shock series → regime gates → composite → health.

Example:
  go run ./cmd/tremor run
  go run ./cmd/tremor run --date 2024-06-03`,
	RunE: runPipeline,
}

var runDate string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "as-of date (YYYY-MM-DD, default today)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	asOf := time.Now().UTC()
	if runDate != "" {
		asOf, err = contracts.ParseDate(runDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	result, err := app.orchestrator().Run(context.Background(), asOf)
	if errors.Is(err, brain.ErrInsufficientAssets) {
		return fmt.Errorf("%w; run `tremor fetch` (or `tremor mock`) to fill the bar store first", err)
	}
	if err != nil {
		return err
	}

	fmt.Println("=== Pipeline Run ===")
	fmt.Printf("Date:       %s\n", contracts.FormatDate(result.Date))
	fmt.Printf("Universe:   %d symbols (%d fresh)\n", result.UniverseSize, result.FreshAssets)
	fmt.Printf("Shock:      %d points\n", result.ShockPoints)
	fmt.Printf("Gates:      %d points\n", result.GatePoints)
	fmt.Printf("Composite:  %d points (%d signals)\n", result.CompositePoints, result.Signals)
	fmt.Printf("Duration:   %s\n", result.Duration.Round(time.Millisecond))

	return nil
}
