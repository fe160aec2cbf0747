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

// PhotoClient adapts the photo-sharing platform's media-search API.
type PhotoClient struct {
	HTTPClient  *http.Client
	BaseURL     string
	AccessToken string
}

// NewPhotoClient creates a photo-share collector.
func NewPhotoClient(baseURL, accessToken string, timeout time.Duration) *PhotoClient {
	return &PhotoClient{
		HTTPClient:  newHTTPClient(timeout),
		BaseURL:     baseURL,
		AccessToken: accessToken,
	}
}

type photoSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Caption       string `json:"caption"`
		Permalink     string `json:"permalink"`
		LikeCount     int64  `json:"like_count"`
		CommentsCount int64  `json:"comments_count"`
		ShareCount    int64  `json:"share_count"`
	} `json:"data"`
}

// Collect searches posts tagged with the keyword in the window and
// aggregates their interaction counters.
func (c *PhotoClient) Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.PhotoMetrics, error) {
	var m analysis.PhotoMetrics

	endpoint := fmt.Sprintf("%s/v1/media/search?query=%s&since=%s&until=%s&limit=50",
		c.BaseURL,
		url.QueryEscape(keyword),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return m, fmt.Errorf("failed to create photo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return m, fmt.Errorf("photo search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return m, fmt.Errorf("photo API returned status code %d", resp.StatusCode)
	}

	var decoded photoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return m, fmt.Errorf("failed to decode photo response: %w", err)
	}

	m.PostCount = len(decoded.Data)
	for i, post := range decoded.Data {
		m.TotalLikes += post.LikeCount
		m.TotalComments += post.CommentsCount
		m.TotalShares += post.ShareCount

		if i < topItemLimit {
			m.TopPosts = append(m.TopPosts, analysis.PhotoPost{
				ID:       post.ID,
				Caption:  post.Caption,
				Link:     post.Permalink,
				Likes:    post.LikeCount,
				Comments: post.CommentsCount,
				Shares:   post.ShareCount,
			})
		}
	}
	if m.PostCount > 0 {
		m.AvgEngagement = float64(m.TotalLikes+m.TotalComments+m.TotalShares) / float64(m.PostCount)
	}

	return m, nil
}
