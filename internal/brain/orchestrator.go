// Package brain coordinates the full pipeline run.
package brain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/tremor/internal/artifacts"
	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/internal/s0_data"
	"github.com/wonny/tremor/internal/s1_universe"
	"github.com/wonny/tremor/internal/s2_gates"
	"github.com/wonny/tremor/internal/s2_shock"
	"github.com/wonny/tremor/internal/s3_composite"
	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/logger"
)

// ErrInsufficientAssets aborts a run before anything is written: the
// fresh universe is smaller than the absolute floor, so no correlation
// is meaningful.
var ErrInsufficientAssets = errors.New("insufficient assets after staleness filter")

// Orchestrator runs the pipeline stages in order:
// universe → bars → shock → gates → composite → health.
// Pipeline orchestration happens here and nowhere else.
type Orchestrator struct {
	cfg      *config.Config
	universe *s1_universe.Resolver
	bars     contracts.BarReader
	store    *artifacts.Store
	logger   *logger.Logger
}

// RunResult summarizes a completed pipeline run.
type RunResult struct {
	Date            time.Time
	UniverseSize    int
	FreshAssets     int
	ShockPoints     int
	GatePoints      int
	CompositePoints int
	Signals         int
	Duration        time.Duration
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(
	cfg *config.Config,
	universe *s1_universe.Resolver,
	bars contracts.BarReader,
	store *artifacts.Store,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		universe: universe,
		bars:     bars,
		store:    store,
		logger:   log,
	}
}

// Run executes a full pipeline pass as of the given date. On
// ErrInsufficientAssets no artifact is touched; any later stage error
// may leave earlier artifacts updated, which is safe because every
// write is an idempotent date-keyed merge.
func (o *Orchestrator) Run(ctx context.Context, asOf time.Time) (*RunResult, error) {
	startTime := time.Now()
	p := o.cfg.Pipeline

	o.logger.WithField("asOf", contracts.FormatDate(asOf)).Info("Pipeline run starting")

	symbols, err := o.universe.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve universe: %w", err)
	}

	allBars, err := s0_data.LoadUniverseBars(ctx, o.bars, symbols)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	fresh := s0_data.FilterStale(allBars, asOf, p.StaleDays)

	if len(fresh) < p.MinAssetsFloor {
		return nil, fmt.Errorf("%w: %d fresh of %d required (universe %d)",
			ErrInsufficientAssets, len(fresh), p.MinAssetsFloor, len(symbols))
	}

	// Shock series.
	returns := s2_shock.BuildReturnSeries(fresh, p.StartDate)
	shockPoints := s2_shock.NewComputer(p, o.logger).Compute(returns)
	shockPoints = s2_shock.TrimTrailingNulls(shockPoints)
	if err := o.store.SaveShock(shockPoints, p.ShockRetentionDays); err != nil {
		return nil, fmt.Errorf("save shock series: %w", err)
	}

	// Regime gates from the benchmark. A missing benchmark degrades the
	// composite to null signals instead of failing the run.
	gatePoints, err := o.computeGates(ctx)
	if err != nil {
		return nil, err
	}
	if len(gatePoints) > 0 {
		if err := o.store.SaveGates(gatePoints, p.ShockRetentionDays); err != nil {
			return nil, fmt.Errorf("save gate series: %w", err)
		}
	}

	// Composite joins the full merged histories, not just this run's output.
	shockSeries, err := o.store.LoadShock()
	if err != nil {
		return nil, fmt.Errorf("load shock series: %w", err)
	}
	gateSeries, err := o.store.LoadGates()
	if err != nil {
		return nil, fmt.Errorf("load gate series: %w", err)
	}

	composite := s3_composite.NewJoiner(p.ZThreshold, o.logger).Join(shockSeries, gateSeries)
	if err := o.store.SaveComposite(composite, p.ShockRetentionDays); err != nil {
		return nil, fmt.Errorf("save composite series: %w", err)
	}

	health := s0_data.HealthSnapshot(asOf, symbols, fresh)
	if err := o.store.SaveHealth(health, p.HealthRetentionDays); err != nil {
		return nil, fmt.Errorf("save health snapshot: %w", err)
	}

	result := &RunResult{
		Date:            asOf,
		UniverseSize:    len(symbols),
		FreshAssets:     len(fresh),
		ShockPoints:     len(shockPoints),
		GatePoints:      len(gatePoints),
		CompositePoints: len(composite),
		Signals:         countSignals(composite),
		Duration:        time.Since(startTime),
	}

	o.logger.WithFields(map[string]interface{}{
		"universe":  result.UniverseSize,
		"fresh":     result.FreshAssets,
		"shock":     result.ShockPoints,
		"composite": result.CompositePoints,
		"signals":   result.Signals,
		"duration":  result.Duration.String(),
	}).Info("Pipeline run completed")

	return result, nil
}

func (o *Orchestrator) computeGates(ctx context.Context) ([]contracts.GatePoint, error) {
	benchmark := o.cfg.Gates.BenchmarkSymbol

	bars, ok, err := o.bars.Bars(ctx, benchmark)
	if err != nil {
		return nil, fmt.Errorf("load benchmark bars: %w", err)
	}
	if !ok {
		o.logger.WithField("symbol", benchmark).Warn("Benchmark bars unavailable, gates will stay null")
		return nil, nil
	}

	return s2_gates.NewComputer(o.cfg.Gates, o.logger).Compute(bars), nil
}

func countSignals(points []contracts.CompositePoint) int {
	n := 0
	for _, p := range points {
		if p.IsSignal.True() {
			n++
		}
	}
	return n
}
