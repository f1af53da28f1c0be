package commands

import (
	"fmt"

	"github.com/wonny/tremor/internal/artifacts"
	"github.com/wonny/tremor/internal/brain"
	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/internal/external/slickcharts"
	"github.com/wonny/tremor/internal/external/stooq"
	"github.com/wonny/tremor/internal/s0_data"
	"github.com/wonny/tremor/internal/s1_universe"
	"github.com/wonny/tremor/pkg/config"
	"github.com/wonny/tremor/pkg/database"
	"github.com/wonny/tremor/pkg/httputil"
	"github.com/wonny/tremor/pkg/logger"
)

// app bundles the wired components every command starts from. Wiring
// happens here and nowhere else.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB // nil unless DATABASE_URL is set
	bars   contracts.BarReader
	writer contracts.BarWriter
	store  *artifacts.Store
}

// newApp loads config and wires storage. With DATABASE_URL set the bar
// store is PostgreSQL; otherwise the file cache under DATA_DIR.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	a := &app{
		cfg:   cfg,
		log:   log,
		store: artifacts.NewStore(cfg.DataDir, log),
	}

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repo := s0_data.NewBarRepository(db.Pool)
		a.db = db
		a.bars = repo
		a.writer = repo
		log.Info("Using PostgreSQL bar store")
	} else {
		cache := s0_data.NewBarCache(cfg.DataDir, log)
		a.bars = cache
		a.writer = cache
	}

	return a, nil
}

// Close releases held resources.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// universeResolver builds the scrape-with-fallback universe source.
func (a *app) universeResolver() *s1_universe.Resolver {
	scraper := slickcharts.New(a.cfg.Universe.ConstituentsURL, httputil.New(a.log), a.log)
	return s1_universe.NewResolver(scraper, a.cfg.Pipeline.MinAssetsFloor, a.log)
}

// fetcher builds the rate-limited daily-bar client.
func (a *app) fetcher() *stooq.Client {
	return stooq.New(a.cfg.Stooq, httputil.New(a.log), a.log)
}

// orchestrator builds the pipeline orchestrator.
func (a *app) orchestrator() *brain.Orchestrator {
	return brain.NewOrchestrator(a.cfg, a.universeResolver(), a.bars, a.store, a.log)
}
