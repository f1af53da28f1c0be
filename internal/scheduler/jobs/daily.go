// Package jobs defines the scheduled jobs wired into the scheduler.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tremor/internal/brain"
	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/internal/external/stooq"
	"github.com/wonny/tremor/internal/s1_universe"
	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/logger"
)

// DailyPipelineJob refreshes the bar cache and runs the full pipeline.
// Scheduled for weekday evenings after the US close.
type DailyPipelineJob struct {
	cfg          *config.Config
	universe     *s1_universe.Resolver
	fetcher      *stooq.Client
	writer       contracts.BarWriter
	orchestrator *brain.Orchestrator
	logger       *logger.Logger
}

// NewDailyPipelineJob wires the fetch-then-run job.
func NewDailyPipelineJob(
	cfg *config.Config,
	universe *s1_universe.Resolver,
	fetcher *stooq.Client,
	writer contracts.BarWriter,
	orchestrator *brain.Orchestrator,
	log *logger.Logger,
) *DailyPipelineJob {
	return &DailyPipelineJob{
		cfg:          cfg,
		universe:     universe,
		fetcher:      fetcher,
		writer:       writer,
		orchestrator: orchestrator,
		logger:       log,
	}
}

// Name implements scheduler.Job.
func (j *DailyPipelineJob) Name() string {
	return "daily_pipeline"
}

// Schedule implements scheduler.Job: 22:30 UTC Monday through Friday,
// after the US market close.
func (j *DailyPipelineJob) Schedule() string {
	return "0 30 22 * * 1-5"
}

// Run fetches fresh bars for the universe plus the benchmark, then runs
// the pipeline. Per-symbol fetch failures are logged and skipped; stale
// cached data still feeds the run.
func (j *DailyPipelineJob) Run(ctx context.Context) error {
	symbols, err := j.universe.Symbols(ctx)
	if err != nil {
		return fmt.Errorf("resolve universe: %w", err)
	}
	symbols = append(symbols, j.cfg.Gates.BenchmarkSymbol)

	now := time.Now().UTC()
	fetched, failed := 0, 0
	for _, symbol := range symbols {
		bars, err := j.fetcher.DailyBars(ctx, symbol, j.cfg.Pipeline.StartDate, now)
		if err != nil {
			failed++
			j.logger.WithError(err).WithField("symbol", symbol).Warn("Bar fetch failed, keeping cached data")
			continue
		}
		if err := j.writer.SaveBars(ctx, symbol, bars); err != nil {
			return fmt.Errorf("save bars for %s: %w", symbol, err)
		}
		fetched++
	}

	j.logger.WithFields(map[string]interface{}{
		"fetched": fetched,
		"failed":  failed,
	}).Info("Bar refresh completed")

	_, err = j.orchestrator.Run(ctx, now)
	return err
}
