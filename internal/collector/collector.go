package collector

import (
	"context"
	"net/http"
	"time"

	"hotindex/internal/domain/analysis"
)

// defaultTimeout bounds every outbound request. A timed-out collector
// surfaces an error that the pipeline's fan-in treats as a zero-valued
// source.
const defaultTimeout = 10 * time.Second

// topItemLimit is how many drill-down items each collector retains.
const topItemLimit = 10

// NewsCollector fetches raw counters from the news search source.
type NewsCollector interface {
	Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.NewsMetrics, error)
}

// TrendCollector fetches the search-trend index for a keyword.
type TrendCollector interface {
	Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.TrendMetrics, error)
}

// VideoCollector fetches long-form video counters for a keyword.
type VideoCollector interface {
	Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.VideoMetrics, error)
}

// MicroblogCollector fetches microblog post counters for a keyword.
type MicroblogCollector interface {
	Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.MicroblogMetrics, error)
}

// PhotoCollector fetches photo-share post counters for a keyword.
type PhotoCollector interface {
	Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.PhotoMetrics, error)
}

// ShortVideoCollector fetches short-video counters for a keyword.
type ShortVideoCollector interface {
	Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.ShortVideoMetrics, error)
}

// Set bundles the six collectors the pipeline fans out to.
type Set struct {
	News       NewsCollector
	Trend      TrendCollector
	Video      VideoCollector
	Microblog  MicroblogCollector
	Photo      PhotoCollector
	ShortVideo ShortVideoCollector
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
