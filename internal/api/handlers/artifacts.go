// Package handlers implements the read-only artifact API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/tremor/internal/artifacts"
	"github.com/wonny/tremor/internal/contracts"
	"github.com/wonny/tremor/pkg/logger"
)

// ArtifactHandler serves the persisted series artifacts. It only reads;
// artifacts are written by pipeline runs.
type ArtifactHandler struct {
	store  *artifacts.Store
	logger *logger.Logger
}

// NewArtifactHandler creates the artifact handler.
func NewArtifactHandler(store *artifacts.Store, log *logger.Logger) *ArtifactHandler {
	return &ArtifactHandler{store: store, logger: log}
}

// seriesResponse is the common envelope for series endpoints.
type seriesResponse struct {
	Count int         `json:"count"`
	Data  interface{} `json:"data"`
}

// GetShock returns the shock series.
// GET /api/shock?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ArtifactHandler) GetShock(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.LoadShock()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load shock series")
		respondError(w, http.StatusInternalServerError, "Failed to load shock series")
		return
	}

	filtered := filterByDate(points, func(p contracts.ShockPoint) string { return p.Date }, r)
	respondJSON(w, http.StatusOK, seriesResponse{Count: len(filtered), Data: filtered})
}

// GetGates returns the regime-gate series.
// GET /api/gates?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ArtifactHandler) GetGates(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.LoadGates()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load gate series")
		respondError(w, http.StatusInternalServerError, "Failed to load gate series")
		return
	}

	filtered := filterByDate(points, func(p contracts.GatePoint) string { return p.Date }, r)
	respondJSON(w, http.StatusOK, seriesResponse{Count: len(filtered), Data: filtered})
}

// GetComposite returns the composite signal series.
// GET /api/composite?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ArtifactHandler) GetComposite(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.LoadComposite()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load composite series")
		respondError(w, http.StatusInternalServerError, "Failed to load composite series")
		return
	}

	filtered := filterByDate(points, func(p contracts.CompositePoint) string { return p.Date }, r)
	respondJSON(w, http.StatusOK, seriesResponse{Count: len(filtered), Data: filtered})
}

// GetHealthHistory returns the daily data-health history.
// GET /api/health-history?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ArtifactHandler) GetHealthHistory(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.LoadHealth()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load health history")
		respondError(w, http.StatusInternalServerError, "Failed to load health history")
		return
	}

	filtered := filterByDate(points, func(p contracts.HealthPoint) string { return p.Date }, r)
	respondJSON(w, http.StatusOK, seriesResponse{Count: len(filtered), Data: filtered})
}

// filterByDate applies optional from/to query bounds. ISO date strings
// compare correctly as plain strings, so no parsing is needed.
func filterByDate[T any](points []T, key func(T) string, r *http.Request) []T {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		if points == nil {
			return []T{} // encode as [] rather than null
		}
		return points
	}

	filtered := make([]T, 0, len(points))
	for _, p := range points {
		date := key(p)
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
