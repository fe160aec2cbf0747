package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hotindex/internal/domain/analysis"
)

// ShortVideoClient adapts the short-video platform's keyword search
// API.
type ShortVideoClient struct {
	HTTPClient  *http.Client
	BaseURL     string
	AccessToken string
}

// NewShortVideoClient creates a short-video collector.
func NewShortVideoClient(baseURL, accessToken string, timeout time.Duration) *ShortVideoClient {
	return &ShortVideoClient{
		HTTPClient:  newHTTPClient(timeout),
		BaseURL:     baseURL,
		AccessToken: accessToken,
	}
}

type shortVideoSearchResponse struct {
	Videos []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		ViewCount    int64  `json:"view_count"`
		LikeCount    int64  `json:"like_count"`
		CommentCount int64  `json:"comment_count"`
		ShareCount   int64  `json:"share_count"`
	} `json:"videos"`
}

// Collect searches clips matching the keyword in the window and
// aggregates view and interaction counters.
func (c *ShortVideoClient) Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.ShortVideoMetrics, error) {
	var m analysis.ShortVideoMetrics

	endpoint := fmt.Sprintf("%s/v1/video/search?keyword=%s&start_date=%s&end_date=%s&count=50",
		c.BaseURL,
		url.QueryEscape(keyword),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return m, fmt.Errorf("failed to create short-video request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return m, fmt.Errorf("short-video search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return m, fmt.Errorf("short-video API returned status code %d", resp.StatusCode)
	}

	var decoded shortVideoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return m, fmt.Errorf("failed to decode short-video response: %w", err)
	}

	m.VideoCount = len(decoded.Videos)
	for i, video := range decoded.Videos {
		m.TotalViews += video.ViewCount
		m.TotalLikes += video.LikeCount
		m.TotalComments += video.CommentCount
		m.TotalShares += video.ShareCount

		if i < topItemLimit {
			m.TopVideos = append(m.TopVideos, analysis.ShortVideoItem{
				ID:       video.ID,
				Title:    video.Title,
				Views:    video.ViewCount,
				Likes:    video.LikeCount,
				Comments: video.CommentCount,
				Shares:   video.ShareCount,
			})
		}
	}
	if m.VideoCount > 0 {
		m.AvgViews = float64(m.TotalViews) / float64(m.VideoCount)
	}

	return m, nil
}
