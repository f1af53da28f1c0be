package main

import (
	"os"

	"github.com/wonny/tremor/cmd/tremor/commands"
)

// Unified CLI entry point: go run ./cmd/tremor [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
