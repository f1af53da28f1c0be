// Package artifacts persists the date-sorted series the pipeline produces
// and consumes: the shock series, the regime-gate series, the composite
// signal series and the daily cache-health history. Every write goes
// through the generic series merge, so re-running a day upserts in place.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/internal/series"
	"github.com/wonny/tremor/pkg/logger"
)

const (
	shockFile     = "shock_series.json"
	gateFile      = "gate_series.json"
	compositeFile = "composite_series.json"
	healthFile    = "health_history.json"
)

// Store reads and writes artifact files under <dataDir>/artifacts.
// Single-writer batch semantics: read once at the start of a write (for
// the merge), written once at the end via temp file + rename.
type Store struct {
	dir    string
	logger *logger.Logger
}

// NewStore creates an artifact store rooted at dataDir.
func NewStore(dataDir string, log *logger.Logger) *Store {
	return &Store{dir: filepath.Join(dataDir, "artifacts"), logger: log}
}

// LoadShock returns the persisted shock series, empty when no artifact
// exists yet.
func (s *Store) LoadShock() ([]contracts.ShockPoint, error) {
	var points []contracts.ShockPoint
	if err := s.load(shockFile, &points); err != nil {
		return nil, err
	}
	if err := validateDates(points, func(p contracts.ShockPoint) string { return p.Date }); err != nil {
		return nil, fmt.Errorf("%s: %w", shockFile, err)
	}
	return points, nil
}

// SaveShock merges freshly computed points into the persisted shock
// series. retentionDays <= 0 keeps the full history.
func (s *Store) SaveShock(points []contracts.ShockPoint, retentionDays int) error {
	existing, err := s.LoadShock()
	if err != nil {
		return err
	}
	merged := series.Merge(existing, points, func(p contracts.ShockPoint) string { return p.Date }, retentionDays)
	return s.save(shockFile, merged)
}

// LoadGates returns the persisted gate series. The gate artifact is
// produced by the gate pipeline; this store never recomputes or repairs
// gate values, it only checks the shape.
func (s *Store) LoadGates() ([]contracts.GatePoint, error) {
	var points []contracts.GatePoint
	if err := s.load(gateFile, &points); err != nil {
		return nil, err
	}
	if err := validateDates(points, func(p contracts.GatePoint) string { return p.Date }); err != nil {
		return nil, fmt.Errorf("%s: %w", gateFile, err)
	}
	return points, nil
}

// SaveGates merges computed gate points into the persisted gate series.
func (s *Store) SaveGates(points []contracts.GatePoint, retentionDays int) error {
	existing, err := s.LoadGates()
	if err != nil {
		return err
	}
	merged := series.Merge(existing, points, func(p contracts.GatePoint) string { return p.Date }, retentionDays)
	return s.save(gateFile, merged)
}

// LoadComposite returns the persisted composite signal series.
func (s *Store) LoadComposite() ([]contracts.CompositePoint, error) {
	var points []contracts.CompositePoint
	if err := s.load(compositeFile, &points); err != nil {
		return nil, err
	}
	if err := validateDates(points, func(p contracts.CompositePoint) string { return p.Date }); err != nil {
		return nil, fmt.Errorf("%s: %w", compositeFile, err)
	}
	return points, nil
}

// SaveComposite merges joined points into the persisted composite series.
func (s *Store) SaveComposite(points []contracts.CompositePoint, retentionDays int) error {
	existing, err := s.LoadComposite()
	if err != nil {
		return err
	}
	merged := series.Merge(existing, points, func(p contracts.CompositePoint) string { return p.Date }, retentionDays)
	return s.save(compositeFile, merged)
}

// LoadHealth returns the persisted cache-health history.
func (s *Store) LoadHealth() ([]contracts.HealthPoint, error) {
	var points []contracts.HealthPoint
	if err := s.load(healthFile, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// SaveHealth merges a daily health snapshot into the history, trimmed to
// the configured retention.
func (s *Store) SaveHealth(point contracts.HealthPoint, retentionDays int) error {
	existing, err := s.LoadHealth()
	if err != nil {
		return err
	}
	merged := series.Merge(existing, []contracts.HealthPoint{point}, func(p contracts.HealthPoint) string { return p.Date }, retentionDays)
	return s.save(healthFile, merged)
}

// load decodes an artifact file into out; a missing file is an empty
// series, any other failure is an error (the caller decides whether the
// artifact is load-bearing).
func (s *Store) load(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// save writes an artifact atomically: temp file in the same directory,
// then rename.
func (s *Store) save(name string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"artifact": name,
		"bytes":    len(data),
	}).Debug("Artifact written")

	return nil
}

// validateDates rejects artifacts whose entries carry unparseable keys.
func validateDates[T any](points []T, key func(T) string) error {
	for i, p := range points {
		if _, err := contracts.ParseDate(key(p)); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}
