package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "client", r.Header.Get("X-Api-Client-Id"))

		var req trendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2026-08-01", req.StartDate)
		assert.Equal(t, "date", req.TimeUnit)
		require.Len(t, req.KeywordGroups, 1)
		assert.Equal(t, []string{"golang"}, req.KeywordGroups[0].Keywords)

		switch r.URL.Path {
		case "/v1/datalab/search":
			w.Write([]byte(`{"results":[{"title":"golang","data":[
				{"period":"2026-08-01","ratio":40},
				{"period":"2026-08-02","ratio":50},
				{"period":"2026-08-03","ratio":90}
			]}]}`))
		case "/v1/datalab/shopping":
			w.Write([]byte(`{"results":[{"title":"golang","data":[
				{"period":"2026-08-01","ratio":10},
				{"period":"2026-08-02","ratio":30}
			]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewTrendClient(srv.URL, "client", "secret", time.Second)
	start, end := testWindow()

	m, err := client.Collect(context.Background(), "golang", start, end)

	require.NoError(t, err)
	assert.InDelta(t, 60.0, m.SearchVolume, 1e-9)
	assert.InDelta(t, 90.0, m.TrendScore, 1e-9)
	assert.InDelta(t, 20.0, m.ShoppingScore, 1e-9)
}

func TestTrendCollectShoppingFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/datalab/shopping" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"results":[{"title":"golang","data":[{"period":"2026-08-01","ratio":55}]}]}`))
	}))
	defer srv.Close()

	client := NewTrendClient(srv.URL, "client", "secret", time.Second)
	start, end := testWindow()

	m, err := client.Collect(context.Background(), "golang", start, end)

	require.NoError(t, err)
	assert.InDelta(t, 55.0, m.SearchVolume, 1e-9)
	assert.InDelta(t, 0.0, m.ShoppingScore, 1e-9)
}

func TestTrendCollectSearchFailureFailsSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewTrendClient(srv.URL, "client", "secret", time.Second)
	start, end := testWindow()

	_, err := client.Collect(context.Background(), "golang", start, end)

	require.Error(t, err)
}

func TestTrendCollectEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := NewTrendClient(srv.URL, "client", "secret", time.Second)
	start, end := testWindow()

	m, err := client.Collect(context.Background(), "obscure", start, end)

	require.NoError(t, err)
	assert.InDelta(t, 0.0, m.SearchVolume, 1e-9)
	assert.InDelta(t, 0.0, m.TrendScore, 1e-9)
}
