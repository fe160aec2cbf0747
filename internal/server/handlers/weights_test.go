// internal/server/handlers/weights_test.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/domain/weights"
)

type fakeWeightStore struct {
	active  weights.WeightConfiguration
	history []weights.WeightConfiguration
	err     error
}

func (f *fakeWeightStore) GetActive(context.Context) (weights.WeightConfiguration, error) {
	return f.active, f.err
}

func (f *fakeWeightStore) Save(_ context.Context, candidate weights.WeightConfiguration) (weights.WeightConfiguration, error) {
	if err := candidate.Validate(); err != nil {
		return weights.WeightConfiguration{}, err
	}
	candidate.ID = "saved-1"
	candidate.IsActive = true
	return candidate, nil
}

func (f *fakeWeightStore) Activate(_ context.Context, id string) (weights.WeightConfiguration, error) {
	if f.err != nil {
		return weights.WeightConfiguration{}, f.err
	}
	cfg := f.active
	cfg.ID = id
	cfg.IsActive = true
	return cfg, nil
}

func (f *fakeWeightStore) History(context.Context, int) ([]weights.WeightConfiguration, error) {
	return f.history, f.err
}

func newWeightsRouter(store *fakeWeightStore) *chi.Mux {
	h := NewWeightsHandler(store)
	r := chi.NewRouter()
	r.Get("/weights", h.GetActive)
	r.Post("/weights", h.Create)
	r.Get("/weights/history", h.History)
	r.Post("/weights/activate/{id}", h.Activate)
	return r
}

func TestWeightsGetActive(t *testing.T) {
	store := &fakeWeightStore{active: weights.Default()}
	router := newWeightsRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/weights", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got weights.WeightConfiguration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "default", got.Name)
}

func TestWeightsCreate(t *testing.T) {
	store := &fakeWeightStore{}
	router := newWeightsRouter(store)

	body, err := json.Marshal(weights.Default())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/weights", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got weights.WeightConfiguration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "saved-1", got.ID)
	assert.True(t, got.IsActive)
}

func TestWeightsCreateRejectsInvalidSums(t *testing.T) {
	store := &fakeWeightStore{}
	router := newWeightsRouter(store)

	cfg := weights.Default()
	cfg.Overall.Exposure = 0.9
	body, err := json.Marshal(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/weights", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "overall")
}

func TestWeightsCreateRejectsBadBody(t *testing.T) {
	router := newWeightsRouter(&fakeWeightStore{})

	req := httptest.NewRequest(http.MethodPost, "/weights", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeightsActivateNotFound(t *testing.T) {
	store := &fakeWeightStore{err: analysis.ErrNotFound}
	router := newWeightsRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/weights/activate/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWeightsHistory(t *testing.T) {
	store := &fakeWeightStore{history: []weights.WeightConfiguration{weights.Default(), weights.Default()}}
	router := newWeightsRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/weights/history?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []weights.WeightConfiguration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
