package insight

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"hotindex/internal/domain/analysis"
)

const requestTimeout = 30 * time.Second

// Generator produces narrative insight for an analysis record through a
// chat-completion model, parsing the response with the section grammar
// in Parse.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewGenerator creates an insight generator.
func NewGenerator(apiKey, model string, temperature float32, maxTokens int, logger *zap.Logger) *Generator {
	if model == "" {
		model = openai.GPT4oMini
	}
	if maxTokens == 0 {
		maxTokens = 1500
	}
	return &Generator{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

const systemPrompt = `You are a content-marketing analyst. Given the popularity
indices and raw source counters for one keyword, write a structured analysis in
markdown using exactly these section headers:

## Summary
## Data Interpretation
### Exposure
### Engagement
### Demand
## Key Findings
## Strategic Recommendations
### Short-term
### Medium-term
### Long-term
## Trend Outlook
### Positive Factors
### Negative Factors
### Scenarios
Best: ...
Base: ...
Worst: ...
## Risk Factors
## Opportunities
## Action Items

Use bullet points inside list sections. Be concrete and concise.`

// GenerateInsights asks the model for commentary on the record. The
// returned result is always fully populated; on transport failure the
// error is returned so the caller can decide to fall back.
func (g *Generator) GenerateInsights(ctx context.Context, record analysis.AnalysisRecord) (analysis.InsightResult, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(record)},
		},
	})
	if err != nil {
		return Fallback(record), fmt.Errorf("insight completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Fallback(record), fmt.Errorf("insight completion returned no choices")
	}

	g.logger.Debug("insight generated",
		zap.String("keyword", record.Keyword),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return Parse(resp.Choices[0].Message.Content, record), nil
}

func buildPrompt(record analysis.AnalysisRecord) string {
	s := record.Sources
	return fmt.Sprintf(`Keyword: %s
Analysis date: %s
Indices (0-100): exposure=%d engagement=%d demand=%d overall=%d
Data quality: %s

Raw counters:
- news: %d articles, %d estimated views
- trend: search volume %.1f, trend score %.1f, shopping interest %.1f
- video: %d videos, %d views, %d likes, %d comments
- microblog: %d posts, %d likes, %d reshares, %d replies
- photo: %d posts, %d likes, %d comments, %d shares
- short video: %d clips, %d views, %d likes, %d comments, %d shares`,
		record.Keyword,
		record.Date.Format("2006-01-02"),
		record.Metrics.Exposure, record.Metrics.Engagement, record.Metrics.Demand, record.Metrics.Overall,
		record.DataQuality,
		s.News.ArticleCount, s.News.TotalViews,
		s.Trend.SearchVolume, s.Trend.TrendScore, s.Trend.ShoppingScore,
		s.Video.VideoCount, s.Video.TotalViews, s.Video.TotalLikes, s.Video.TotalComments,
		s.Microblog.PostCount, s.Microblog.TotalLikes, s.Microblog.TotalReshares, s.Microblog.TotalReplies,
		s.Photo.PostCount, s.Photo.TotalLikes, s.Photo.TotalComments, s.Photo.TotalShares,
		s.ShortVideo.VideoCount, s.ShortVideo.TotalViews, s.ShortVideo.TotalLikes, s.ShortVideo.TotalComments, s.ShortVideo.TotalShares)
}

// StaticGenerator returns the deterministic fallback insight without
// calling any model. Used when no API key is configured.
type StaticGenerator struct{}

// GenerateInsights implements the collaborator contract with fallback
// content only.
func (StaticGenerator) GenerateInsights(_ context.Context, record analysis.AnalysisRecord) (analysis.InsightResult, error) {
	return Fallback(record), nil
}
