package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else; the analytic
// core only ever sees this struct.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Storage
	DataDir  string
	Database DatabaseConfig

	// Pipeline
	Pipeline PipelineConfig
	Gates    GatesConfig

	// External data
	Stooq    StooqConfig
	Universe UniverseConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds the optional PostgreSQL bar store configuration.
// The database is only used when URL is set; the default bar source is
// the file cache under DataDir.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PipelineConfig enumerates the recognized analytic options with their
// documented defaults. It is passed into the pipeline entry point so the
// core never touches the process environment.
type PipelineConfig struct {
	StartDate time.Time // analysis window start

	ShortWindow int // trailing short correlation window (days on the axis)
	LongWindow  int // trailing long correlation window
	ZWindow     int // trailing raw-shock samples for the z-score
	MinZPoints  int // minimum non-null raws before a z is emitted

	MinAssetsFloor  int // absolute minimum active assets
	MinAssetsTarget int // target active assets for the adaptive minimum

	ZThreshold float64 // composite signal threshold on the shock z-score
	Epsilon    float64 // std-dev floor for the z denominator

	StaleDays int // drop assets whose last cached bar is older than this

	ShockRetentionDays  int // 0 = keep the full shock/composite history
	HealthRetentionDays int // daily health history retention
}

// GatesConfig holds the market-regime gate parameters. Gates are computed
// from a single benchmark symbol's bars, independently of the shock core.
type GatesConfig struct {
	BenchmarkSymbol string
	TrendWindow     int     // SMA lookback for the trend gate
	VolWindow       int     // realized-vol lookback for the vol gate
	VolCeiling      float64 // annualized volatility ceiling
}

// StooqConfig holds the Stooq daily-bar endpoint configuration.
type StooqConfig struct {
	BaseURL    string
	Suffix     string  // market suffix appended to symbols, e.g. ".us"
	RatePerSec float64 // request rate limit
}

// UniverseConfig holds universe resolution configuration.
type UniverseConfig struct {
	ConstituentsURL string // index constituent page scraped for symbols
}

// defaultStartDate is the fixed historical default for the analysis window.
var defaultStartDate = time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC)

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		DataDir: getEnv("DATA_DIR", "data"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Pipeline: PipelineConfig{
			StartDate:           getEnvAsDate("SHOCK_START_DATE", defaultStartDate),
			ShortWindow:         getEnvAsInt("SHOCK_SHORT_WINDOW", 20),
			LongWindow:          getEnvAsInt("SHOCK_LONG_WINDOW", 60),
			ZWindow:             getEnvAsInt("SHOCK_Z_WINDOW", 252),
			MinZPoints:          getEnvAsInt("SHOCK_MIN_Z_POINTS", 100),
			MinAssetsFloor:      getEnvAsInt("SHOCK_MIN_ASSETS_FLOOR", 6),
			MinAssetsTarget:     getEnvAsInt("SHOCK_MIN_ASSETS_TARGET", 8),
			ZThreshold:          getEnvAsFloat("SHOCK_Z_THRESHOLD", 2.0),
			Epsilon:             getEnvAsFloat("SHOCK_EPSILON", 1e-10),
			StaleDays:           getEnvAsInt("SHOCK_STALE_DAYS", 14),
			ShockRetentionDays:  getEnvAsInt("SHOCK_RETENTION_DAYS", 0),
			HealthRetentionDays: getEnvAsInt("HEALTH_RETENTION_DAYS", 365),
		},

		Gates: GatesConfig{
			BenchmarkSymbol: getEnv("GATE_BENCHMARK_SYMBOL", "SPY"),
			TrendWindow:     getEnvAsInt("GATE_TREND_WINDOW", 200),
			VolWindow:       getEnvAsInt("GATE_VOL_WINDOW", 20),
			VolCeiling:      getEnvAsFloat("GATE_VOL_CEILING", 0.25),
		},

		Stooq: StooqConfig{
			BaseURL:    getEnv("STOOQ_BASE_URL", "https://stooq.com/q/d/l/"),
			Suffix:     getEnv("STOOQ_SUFFIX", ".us"),
			RatePerSec: getEnvAsFloat("STOOQ_RATE_PER_SEC", 2.0),
		},

		Universe: UniverseConfig{
			ConstituentsURL: getEnv("UNIVERSE_CONSTITUENTS_URL", "https://www.slickcharts.com/nasdaq100"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks cross-field constraints the pipeline depends on.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	p := c.Pipeline
	if p.ShortWindow < 2 {
		return fmt.Errorf("SHOCK_SHORT_WINDOW must be at least 2")
	}
	if p.LongWindow <= p.ShortWindow {
		return fmt.Errorf("SHOCK_LONG_WINDOW (%d) must exceed SHOCK_SHORT_WINDOW (%d)", p.LongWindow, p.ShortWindow)
	}
	if p.MinAssetsFloor < 2 {
		return fmt.Errorf("SHOCK_MIN_ASSETS_FLOOR must be at least 2")
	}
	if p.MinAssetsTarget < p.MinAssetsFloor {
		return fmt.Errorf("SHOCK_MIN_ASSETS_TARGET (%d) must be >= SHOCK_MIN_ASSETS_FLOOR (%d)", p.MinAssetsTarget, p.MinAssetsFloor)
	}
	if p.MinZPoints < 2 || p.MinZPoints > p.ZWindow {
		return fmt.Errorf("SHOCK_MIN_Z_POINTS must be in [2, SHOCK_Z_WINDOW]")
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("SHOCK_EPSILON must be positive")
	}

	g := c.Gates
	if g.TrendWindow < 2 || g.VolWindow < 2 {
		return fmt.Errorf("gate windows must be at least 2")
	}
	if g.VolCeiling <= 0 {
		return fmt.Errorf("GATE_VOL_CEILING must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsDate(key string, defaultValue time.Time) time.Time {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	date, err := time.Parse("2006-01-02", valueStr)
	if err != nil {
		return defaultValue
	}

	return date.UTC()
}
