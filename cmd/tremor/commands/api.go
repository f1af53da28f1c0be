package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tremor/internal/api"
	"github.com/wonny/tremor/internal/api/handlers"
)

// apiCmd serves the persisted artifacts over HTTP.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the artifact API server",
	Long: `Starts the read-only HTTP API over the persisted artifacts.

Endpoints:
  GET /health
  GET /api/shock
  GET /api/gates
  GET /api/composite
  GET /api/health-history

Example:
  go run ./cmd/tremor api
  go run ./cmd/tremor api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	handler := handlers.NewArtifactHandler(app.store, app.log)
	router := api.NewRouter(handler, app.log)
	server := api.New(app.cfg, app.log, router)

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
