package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tremor/internal/s3_composite"
)

// joinCmd rebuilds the composite series from the persisted artifacts.
var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join shock and gate series into the composite signal",
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
		if len(shock) == 0 {
			return fmt.Errorf("no shock series persisted, run the pipeline first")
		}

		gates, err := app.store.LoadGates()
		if err != nil {
			return fmt.Errorf("load gate series: %w", err)
		}

		joiner := s3_composite.NewJoiner(app.cfg.Pipeline.ZThreshold, app.log)
		composite := joiner.Join(shock, gates)
		if err := app.store.SaveComposite(composite, app.cfg.Pipeline.ShockRetentionDays); err != nil {
			return fmt.Errorf("save composite series: %w", err)
		}

		signals := 0
		for _, p := range composite {
			if p.IsSignal.True() {
				signals++
			}
		}
		fmt.Printf("Joined %d composite points, %d signals\n", len(composite), signals)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
}
