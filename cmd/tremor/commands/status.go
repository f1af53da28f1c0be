package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tremor/internal/contracts"
)

// statusCmd prints the latest state of every persisted artifact.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest persisted pipeline state",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		shock, err := app.store.LoadShock()
		if err != nil {
			return fmt.Errorf("load shock series: %w", err)
		}
		composite, err := app.store.LoadComposite()
		if err != nil {
			return fmt.Errorf("load composite series: %w", err)
		}
		health, err := app.store.LoadHealth()
		if err != nil {
			return fmt.Errorf("load health history: %w", err)
		}

		fmt.Println("=== Tremor Status ===")

		if len(shock) == 0 {
			fmt.Println("Shock:     no data")
		} else {
			last := shock[len(shock)-1]
			fmt.Printf("Shock:     %d points, latest %s (raw %s, z %s, %d assets)\n",
				len(shock), last.Date, fmtFloat(last.ShockRaw), fmtFloat(last.ShockZ), last.NAssets)
		}

		if len(composite) == 0 {
			fmt.Println("Composite: no data")
		} else {
			last := composite[len(composite)-1]
			fmt.Printf("Composite: %d points, latest %s (signal %s)\n",
				len(composite), last.Date, fmtBool(last.IsSignal))
		}

		if len(health) == 0 {
			fmt.Println("Health:    no data")
		} else {
			last := health[len(health)-1]
			fmt.Printf("Health:    latest %s, %d/%d symbols with bars (%.0f%%)\n",
				last.Date, last.WithBars, last.Symbols, last.Coverage*100)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func fmtFloat(v contracts.NullFloat64) string {
	if !v.Valid {
		return "null"
	}
	return fmt.Sprintf("%.4f", v.Float64)
}

func fmtBool(v contracts.NullBool) string {
	if !v.Valid {
		return "null"
	}
	return fmt.Sprintf("%t", v.Bool)
}
