package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tremor/internal/s2_gates"
)

// gatesCmd recomputes and persists the regime gates from the benchmark.
var gatesCmd = &cobra.Command{
	Use:   "gates",
	Short: "Compute regime gates from the benchmark bars",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		benchmark := app.cfg.Gates.BenchmarkSymbol
		bars, ok, err := app.bars.Bars(context.Background(), benchmark)
		if err != nil {
			return fmt.Errorf("load benchmark bars: %w", err)
		}
		if !ok {
			return fmt.Errorf("no cached bars for benchmark %s, run fetch first", benchmark)
		}

		points := s2_gates.NewComputer(app.cfg.Gates, app.log).Compute(bars)
		if err := app.store.SaveGates(points, app.cfg.Pipeline.ShockRetentionDays); err != nil {
			return fmt.Errorf("save gate series: %w", err)
		}

		fmt.Printf("Computed %d gate points from %s (%d bars)\n", len(points), benchmark, len(bars))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gatesCmd)
}
