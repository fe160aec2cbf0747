package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotindex/internal/domain/analysis"
)

// VideoClient adapts the long-form video platform API. Collection is a
// two-step fetch: a relevance search for video IDs, then a statistics
// lookup for the matched IDs.
type VideoClient struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	MaxResults int
}

// NewVideoClient creates a long-form video collector.
func NewVideoClient(baseURL, apiKey string, timeout time.Duration) *VideoClient {
	return &VideoClient{
		HTTPClient: newHTTPClient(timeout),
		BaseURL:    baseURL,
		APIKey:     apiKey,
		MaxResults: 25,
	}
}

type videoSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Collect searches videos published in the window and aggregates their
// view, like and comment counters.
func (c *VideoClient) Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.VideoMetrics, error) {
	var m analysis.VideoMetrics

	ids, err := c.searchVideoIDs(ctx, keyword, start, end)
	if err != nil {
		return m, err
	}
	if len(ids) == 0 {
		return m, nil
	}

	endpoint := fmt.Sprintf("%s/v3/videos?part=snippet,statistics&id=%s&key=%s",
		c.BaseURL, strings.Join(ids, ","), url.QueryEscape(c.APIKey))

	var decoded videoListResponse
	if err := c.getJSON(ctx, endpoint, &decoded); err != nil {
		return m, err
	}

	m.VideoCount = len(decoded.Items)
	for i, item := range decoded.Items {
		views := parseCount(item.Statistics.ViewCount)
		likes := parseCount(item.Statistics.LikeCount)
		comments := parseCount(item.Statistics.CommentCount)

		m.TotalViews += views
		m.TotalLikes += likes
		m.TotalComments += comments

		if i < topItemLimit {
			m.TopVideos = append(m.TopVideos, analysis.VideoItem{
				ID:       item.ID,
				Title:    item.Snippet.Title,
				Channel:  item.Snippet.ChannelTitle,
				Views:    views,
				Likes:    likes,
				Comments: comments,
			})
		}
	}
	if m.VideoCount > 0 {
		m.AvgViews = float64(m.TotalViews) / float64(m.VideoCount)
	}

	return m, nil
}

func (c *VideoClient) searchVideoIDs(ctx context.Context, keyword string, start, end time.Time) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v3/search?part=id&type=video&order=relevance&maxResults=%d&q=%s&publishedAfter=%s&publishedBefore=%s&key=%s",
		c.BaseURL,
		c.MaxResults,
		url.QueryEscape(keyword),
		url.QueryEscape(start.UTC().Format(time.RFC3339)),
		url.QueryEscape(end.UTC().Format(time.RFC3339)),
		url.QueryEscape(c.APIKey))

	var decoded videoSearchResponse
	if err := c.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *VideoClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create video request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("video request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("video API returned status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode video response: %w", err)
	}
	return nil
}

// parseCount reads a numeric string counter; sources omit counters on
// some items, which counts as 0.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
