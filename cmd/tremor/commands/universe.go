package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// universeCmd resolves and prints the current universe.
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Resolve and print the asset universe",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		symbols, err := app.universeResolver().Symbols(context.Background())
		if err != nil {
			return err
		}

		for _, symbol := range symbols {
			fmt.Println(symbol)
		}
		fmt.Printf("\n%d symbols\n", len(symbols))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(universeCmd)
}
