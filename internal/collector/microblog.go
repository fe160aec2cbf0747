package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"hotindex/internal/domain/analysis"
)

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// MicroblogClient adapts the microblog platform via its recent-search
// API, reading public interaction metrics off each matched post.
type MicroblogClient struct {
	client     *twitter.Client
	maxResults int
}

// NewMicroblogClient creates a microblog collector. host overrides the
// platform endpoint for testing; empty means the production API.
func NewMicroblogClient(host, bearerToken string, timeout time.Duration) *MicroblogClient {
	if host == "" {
		host = "https://api.twitter.com"
	}
	return &MicroblogClient{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: bearerToken},
			Client:     newHTTPClient(timeout),
			Host:       host,
		},
		maxResults: 100,
	}
}

// Collect searches recent posts mentioning the keyword and aggregates
// likes, reshares and replies.
func (c *MicroblogClient) Collect(ctx context.Context, keyword string, start, end time.Time) (analysis.MicroblogMetrics, error) {
	var m analysis.MicroblogMetrics

	opts := twitter.TweetRecentSearchOpts{
		MaxResults: c.maxResults,
		StartTime:  start,
		EndTime:    end,
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldPublicMetrics,
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldAuthorID,
		},
	}

	resp, err := c.client.TweetRecentSearch(ctx, keyword, opts)
	if err != nil {
		return m, fmt.Errorf("microblog search failed: %w", err)
	}
	if resp.Raw == nil {
		return m, nil
	}

	for i, tweet := range resp.Raw.Tweets {
		if tweet == nil {
			continue
		}
		m.PostCount++

		var likes, reshares, replies int64
		if pm := tweet.PublicMetrics; pm != nil {
			likes = int64(pm.Likes)
			reshares = int64(pm.Retweets + pm.Quotes)
			replies = int64(pm.Replies)
		}
		m.TotalLikes += likes
		m.TotalReshares += reshares
		m.TotalReplies += replies

		if i < topItemLimit {
			m.TopPosts = append(m.TopPosts, analysis.MicroblogPost{
				ID:       tweet.ID,
				Text:     tweet.Text,
				Author:   tweet.AuthorID,
				Likes:    likes,
				Reshares: reshares,
				Replies:  replies,
			})
		}
	}

	if m.PostCount > 0 {
		m.AvgEngagement = float64(m.TotalLikes+m.TotalReshares+m.TotalReplies) / float64(m.PostCount)
	}

	return m, nil
}
