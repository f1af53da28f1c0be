package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/tremor/internal/scheduler"
	"github.com/wonny/tremor/internal/scheduler/jobs"
)

// schedulerCmd runs the daily pipeline on a cron schedule.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the daily pipeline scheduler",
	Long: `Starts the scheduler with the daily pipeline job: fetch fresh
bars after the US close, then run the full pipeline.

Example:
  go run ./cmd/tremor scheduler
  go run ./cmd/tremor scheduler --now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "trigger the daily job immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	job := jobs.NewDailyPipelineJob(
		app.cfg,
		app.universeResolver(),
		app.fetcher(),
		app.writer,
		app.orchestrator(),
		app.log,
	)

	sched := scheduler.New(app.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register daily job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("Scheduler running, %s scheduled at %q\n", job.Name(), job.Schedule())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
