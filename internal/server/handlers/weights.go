// internal/server/handlers/weights.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/domain/weights"
)

// WeightStore is the persistence surface the weight handlers need.
type WeightStore interface {
	GetActive(ctx context.Context) (weights.WeightConfiguration, error)
	Save(ctx context.Context, candidate weights.WeightConfiguration) (weights.WeightConfiguration, error)
	Activate(ctx context.Context, id string) (weights.WeightConfiguration, error)
	History(ctx context.Context, limit int) ([]weights.WeightConfiguration, error)
}

// WeightsHandler handles weight configuration HTTP requests
type WeightsHandler struct {
	store WeightStore
}

// NewWeightsHandler creates a new weights handler
func NewWeightsHandler(store WeightStore) *WeightsHandler {
	return &WeightsHandler{store: store}
}

// GetActive returns the currently active weight configuration
func (h *WeightsHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.GetActive(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get active weight configuration")
		return
	}

	respondWithJSON(w, http.StatusOK, cfg)
}

// Create validates and persists a new weight configuration, making it
// active
func (h *WeightsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var candidate weights.WeightConfiguration
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.store.Save(r.Context(), candidate)
	if err != nil {
		var vErr *weights.ValidationError
		if errors.As(err, &vErr) {
			respondWithError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to save weight configuration")
		return
	}

	respondWithJSON(w, http.StatusCreated, saved)
}

// Activate makes a historical configuration the active one
func (h *WeightsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing configuration ID")
		return
	}

	cfg, err := h.store.Activate(r.Context(), id)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Weight configuration not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to activate weight configuration")
		return
	}

	respondWithJSON(w, http.StatusOK, cfg)
}

// History returns past configurations, most recent first
func (h *WeightsHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := h.store.History(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get weight history")
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}
