package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tremor",
	Short: "Tremor - correlation-structure shock indicator",
	Long: `Tremor CLI

Daily pipeline computing a correlation-structure shock indicator over an
equity universe: rolling short/long correlation matrices, a z-scored
shock score, market-regime gates and a composite signal.

Usage:
  go run ./cmd/tremor [command]

Examples:
  go run ./cmd/tremor fetch
  go run ./cmd/tremor run
  go run ./cmd/tremor status
  go run ./cmd/tremor api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
