package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow() (time.Time, time.Time) {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
}

func TestNewsCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search/news.json", r.URL.Path)
		assert.Equal(t, "go conference", r.URL.Query().Get("query"))
		assert.Equal(t, "id-123", r.Header.Get("X-Api-Client-Id"))
		assert.Equal(t, "secret-456", r.Header.Get("X-Api-Client-Secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 2,
			"items": [
				{"title": "Go conference announced", "link": "https://news.example/1", "description": "d1", "pubDate": "Mon, 03 Aug 2026 09:00:00 +0000"},
				{"title": "Speakers revealed", "link": "https://news.example/2", "description": "d2", "pubDate": "Tue, 04 Aug 2026 10:30:00 +0000"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, "id-123", "secret-456", time.Second)
	start, end := testWindow()

	m, err := client.Collect(context.Background(), "go conference", start, end)

	require.NoError(t, err)
	assert.Equal(t, 2, m.ArticleCount)
	// Estimate: 2 results * 150 views per result, per article.
	assert.Equal(t, int64(600), m.TotalViews)
	assert.InDelta(t, 300.0, m.AvgViews, 1e-9)
	require.Len(t, m.TopArticles, 2)
	assert.Equal(t, "Go conference announced", m.TopArticles[0].Title)
	assert.Equal(t, int64(300), m.TopArticles[0].EstimatedViews)
	assert.Equal(t, 2026, m.TopArticles[0].PublishedAt.Year())
}

func TestNewsCollectZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0, "items": []}`))
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, "id", "secret", time.Second)
	start, end := testWindow()

	m, err := client.Collect(context.Background(), "nobody searches this", start, end)

	require.NoError(t, err)
	assert.Equal(t, 0, m.ArticleCount)
	assert.Equal(t, int64(0), m.TotalViews)
	assert.Empty(t, m.TopArticles)
}

func TestNewsCollectUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, "id", "secret", time.Second)
	start, end := testWindow()

	_, err := client.Collect(context.Background(), "golang", start, end)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewsCollectTruncatesTopArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 12, "items": [
			{"title":"1"},{"title":"2"},{"title":"3"},{"title":"4"},{"title":"5"},{"title":"6"},
			{"title":"7"},{"title":"8"},{"title":"9"},{"title":"10"},{"title":"11"},{"title":"12"}
		]}`))
	}))
	defer srv.Close()

	client := NewNewsClient(srv.URL, "id", "secret", time.Second)
	start, end := testWindow()

	m, err := client.Collect(context.Background(), "golang", start, end)

	require.NoError(t, err)
	assert.Equal(t, 12, m.ArticleCount)
	assert.Len(t, m.TopArticles, topItemLimit)
}
