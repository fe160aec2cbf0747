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

// viewsPerResult drives the deterministic view estimate for news
// articles. The news search source exposes no real view counts, so
// downstream scoring gets a synthetic per-article estimate proportional
// to the result count.
const viewsPerResult = 150

// NewsClient adapts the keyword news-search API.
type NewsClient struct {
	HTTPClient   *http.Client
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// NewNewsClient creates a news collector.
func NewNewsClient(baseURL, clientID, clientSecret string, timeout time.Duration) *NewsClient {
	return &NewsClient{
		HTTPClient:   newHTTPClient(timeout),
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

type newsSearchResponse struct {
	Total int `json:"total"`
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		PubDate     string `json:"pubDate"`
	} `json:"items"`
}

// Collect searches news articles for the keyword. Zero results is not
// an error; the returned metrics are simply zero-valued.
func (c *NewsClient) Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.NewsMetrics, error) {
	var m analysis.NewsMetrics

	endpoint := fmt.Sprintf("%s/v1/search/news.json?query=%s&display=100&sort=sim",
		c.BaseURL, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return m, fmt.Errorf("failed to create news request: %w", err)
	}
	req.Header.Set("X-Api-Client-Id", c.ClientID)
	req.Header.Set("X-Api-Client-Secret", c.ClientSecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return m, fmt.Errorf("news search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return m, fmt.Errorf("news search API returned status code %d", resp.StatusCode)
	}

	var body newsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return m, fmt.Errorf("failed to decode news search response: %w", err)
	}

	m.ArticleCount = len(body.Items)
	if m.ArticleCount == 0 {
		return m, nil
	}

	// Deterministic estimate: busier keywords get a higher per-article
	// figure, scaled linearly with the result count.
	perArticle := int64(m.ArticleCount) * viewsPerResult
	m.TotalViews = perArticle * int64(m.ArticleCount)
	m.AvgViews = float64(perArticle)

	for i, item := range body.Items {
		if i >= topItemLimit {
			break
		}
		published, _ := time.Parse(time.RFC1123Z, item.PubDate)
		m.TopArticles = append(m.TopArticles, analysis.NewsArticle{
			Title:          item.Title,
			Link:           item.Link,
			Description:    item.Description,
			PublishedAt:    published,
			EstimatedViews: perArticle,
		})
	}

	return m, nil
}
