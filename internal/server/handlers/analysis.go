// internal/server/handlers/analysis.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/pipeline"
)

const dateLayout = "2006-01-02"

// AnalysisRunner starts an analysis batch.
type AnalysisRunner interface {
	Run(ctx context.Context, req pipeline.Request) ([]analysis.AnalysisRecord, error)
}

// RecordStore is the persistence surface the analysis handlers need.
type RecordStore interface {
	Get(ctx context.Context, id string) (analysis.AnalysisRecord, error)
	FindRecent(ctx context.Context, keyword string, start, end time.Time, limit int) ([]analysis.AnalysisRecord, error)
	FindByKeywordAndDateRange(ctx context.Context, keyword string, start, end time.Time) ([]analysis.AnalysisRecord, error)
	Stats(ctx context.Context, keyword string, start, end time.Time) (analysis.Stats, error)
	Delete(ctx context.Context, id string) error
}

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	runner AnalysisRunner
	store  RecordStore
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(runner AnalysisRunner, store RecordStore) *AnalysisHandler {
	return &AnalysisHandler{runner: runner, store: store}
}

type startRequest struct {
	Keywords  []string `json:"keywords"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
}

// Start runs the analysis pipeline for a batch of keywords
func (h *AnalysisHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	records, err := h.runner.Run(r.Context(), pipeline.Request{
		Keywords: req.Keywords,
		Start:    start,
		End:      end,
	})
	if err != nil {
		var vErr *analysis.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, analysis.ErrDuplicateRecord):
			// Records completed before the duplicate stay persisted;
			// report the conflict with what got through.
			respondWithJSON(w, http.StatusConflict, map[string]interface{}{
				"error":     "analysis already exists for keyword and date",
				"completed": records,
			})
		default:
			respondWithError(w, http.StatusInternalServerError, "Analysis run failed")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

// Results returns recent records for a keyword, newest first
func (h *AnalysisHandler) Results(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		respondWithError(w, http.StatusBadRequest, "Missing keyword parameter")
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.store.FindRecent(r.Context(), keyword, start, end, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get analysis results")
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

// Get returns one analysis record by ID
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing record ID")
		return
	}

	record, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Analysis record not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get analysis record")
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// TimeSeries returns a keyword's records ascending by date
func (h *AnalysisHandler) TimeSeries(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")
	if keyword == "" {
		respondWithError(w, http.StatusBadRequest, "Missing keyword")
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.FindByKeywordAndDateRange(r.Context(), keyword, start, end)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get time series")
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

// Stats returns aggregate statistics for a keyword over a date range
func (h *AnalysisHandler) Stats(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")
	if keyword == "" {
		respondWithError(w, http.StatusBadRequest, "Missing keyword")
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.store.Stats(r.Context(), keyword, start, end)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// Delete removes one analysis record
func (h *AnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing record ID")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Analysis record not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete analysis record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDateRange reads start/end query parameters, defaulting to the
// last 30 days.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid start parameter, expected YYYY-MM-DD")
		}
		start = parsed
	}
	if s := r.URL.Query().Get("end"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid end parameter, expected YYYY-MM-DD")
		}
		end = parsed
	}

	return start, end, nil
}
