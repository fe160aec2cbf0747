package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hotindex/internal/domain/analysis"
)

// TrendClient adapts the search-trend index API. Ratios from the source
// are already normalized to 0-100.
type TrendClient struct {
	HTTPClient   *http.Client
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// NewTrendClient creates a trend collector.
func NewTrendClient(baseURL, clientID, clientSecret string, timeout time.Duration) *TrendClient {
	return &TrendClient{
		HTTPClient:   newHTTPClient(timeout),
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

type trendRequest struct {
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	TimeUnit      string              `json:"timeUnit"`
	KeywordGroups []trendKeywordGroup `json:"keywordGroups"`
}

type trendKeywordGroup struct {
	GroupName string   `json:"groupName"`
	Keywords  []string `json:"keywords"`
}

type trendResponse struct {
	Results []struct {
		Title string `json:"title"`
		Data  []struct {
			Period string  `json:"period"`
			Ratio  float64 `json:"ratio"`
		} `json:"data"`
	} `json:"results"`
}

// Collect fetches daily search ratios for the keyword over the window.
// The shopping-interest score comes from a second call against the
// shopping endpoint; its failure degrades to 0 rather than failing the
// whole source.
func (c *TrendClient) Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.TrendMetrics, error) {
	var m analysis.TrendMetrics

	ratios, err := c.fetchRatios(ctx, "/v1/datalab/search", keyword, start, end)
	if err != nil {
		return m, err
	}

	if len(ratios) > 0 {
		sum := 0.0
		for _, r := range ratios {
			sum += r
		}
		m.SearchVolume = sum / float64(len(ratios))
		m.TrendScore = ratios[len(ratios)-1]
	}

	if shopping, err := c.fetchRatios(ctx, "/v1/datalab/shopping", keyword, start, end); err == nil && len(shopping) > 0 {
		sum := 0.0
		for _, r := range shopping {
			sum += r
		}
		m.ShoppingScore = sum / float64(len(shopping))
	}

	return m, nil
}

func (c *TrendClient) fetchRatios(ctx context.Context, path, keyword string, start, end time.Time) ([]float64, error) {
	payload := trendRequest{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		TimeUnit:  "date",
		KeywordGroups: []trendKeywordGroup{
			{GroupName: keyword, Keywords: []string{keyword}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create trend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Client-Id", c.ClientID)
	req.Header.Set("X-Api-Client-Secret", c.ClientSecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trend API returned status code %d", resp.StatusCode)
	}

	var decoded trendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode trend response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return nil, nil
	}

	ratios := make([]float64, 0, len(decoded.Results[0].Data))
	for _, point := range decoded.Results[0].Data {
		ratios = append(ratios, point.Ratio)
	}
	return ratios, nil
}
