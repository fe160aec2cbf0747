package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/scoring"
)

// Renderer writes one markdown report per analysis record. The report
// ID is stable and the file path retrievable afterwards.
type Renderer struct {
	outputDir string
	logger    *zap.Logger
}

// NewRenderer creates a report renderer writing into outputDir.
func NewRenderer(outputDir string, logger *zap.Logger) *Renderer {
	return &Renderer{outputDir: outputDir, logger: logger}
}

// RenderReport renders the record and its insight into a markdown file.
func (r *Renderer) RenderReport(ctx context.Context, record analysis.AnalysisRecord, ins analysis.InsightResult) (analysis.ReportInfo, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return analysis.ReportInfo{}, fmt.Errorf("failed to create report directory: %w", err)
	}

	id := uuid.New().String()
	name := fmt.Sprintf("%s_%s_%s.md",
		sanitizeFilename(record.Keyword),
		record.Date.Format("2006-01-02"),
		id[:8])
	path := filepath.Join(r.outputDir, name)

	if err := os.WriteFile(path, []byte(render(record, ins)), 0o644); err != nil {
		return analysis.ReportInfo{}, fmt.Errorf("failed to write report: %w", err)
	}

	r.logger.Info("report rendered",
		zap.String("keyword", record.Keyword),
		zap.String("path", path))

	return analysis.ReportInfo{ID: id, FilePath: path}, nil
}

func render(record analysis.AnalysisRecord, ins analysis.InsightResult) string {
	var b strings.Builder
	m := record.Metrics

	fmt.Fprintf(&b, "# Popularity Report: %s\n\n", record.Keyword)
	fmt.Fprintf(&b, "Analysis date: %s  \n", record.AnalysisDate.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Data quality: %s\n\n", record.DataQuality)

	b.WriteString("## Indices\n\n")
	b.WriteString("| Index | Score | Grade |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Exposure | %d | %s |\n", m.Exposure, scoring.GradeExposure(m.Exposure))
	fmt.Fprintf(&b, "| Engagement | %d | %s |\n", m.Engagement, scoring.GradeEngagement(m.Engagement))
	fmt.Fprintf(&b, "| Demand | %d | %s |\n", m.Demand, scoring.GradeDemand(m.Demand))
	fmt.Fprintf(&b, "| Overall | %d | %s |\n\n", m.Overall, scoring.GradeOverall(m.Overall))

	b.WriteString("## Summary\n\n")
	b.WriteString(ins.Summary)
	b.WriteString("\n\n## Data Interpretation\n\n")
	fmt.Fprintf(&b, "- Exposure: %s\n", ins.DataInterpretation.Exposure)
	fmt.Fprintf(&b, "- Engagement: %s\n", ins.DataInterpretation.Engagement)
	fmt.Fprintf(&b, "- Demand: %s\n", ins.DataInterpretation.Demand)

	writeList(&b, "Key Findings", ins.KeyFindings)
	writeList(&b, "Short-term Recommendations", ins.StrategicRecommendations.ShortTerm)
	writeList(&b, "Medium-term Recommendations", ins.StrategicRecommendations.MediumTerm)
	writeList(&b, "Long-term Recommendations", ins.StrategicRecommendations.LongTerm)
	writeList(&b, "Positive Factors", ins.TrendOutlook.PositiveFactors)
	writeList(&b, "Negative Factors", ins.TrendOutlook.NegativeFactors)

	b.WriteString("\n## Scenarios\n\n")
	fmt.Fprintf(&b, "- Best: %s\n", ins.TrendOutlook.Scenarios.Best)
	fmt.Fprintf(&b, "- Base: %s\n", ins.TrendOutlook.Scenarios.Base)
	fmt.Fprintf(&b, "- Worst: %s\n", ins.TrendOutlook.Scenarios.Worst)

	writeList(&b, "Risk Factors", ins.RiskFactors)
	writeList(&b, "Opportunities", ins.Opportunities)
	writeList(&b, "Action Items", ins.ActionItems)

	writeTopItems(&b, record.Sources)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func writeTopItems(b *strings.Builder, sources analysis.SourceSet) {
	if len(sources.News.TopArticles) > 0 {
		b.WriteString("\n## Top News Articles\n\n")
		for _, a := range sources.News.TopArticles {
			fmt.Fprintf(b, "- [%s](%s)\n", a.Title, a.Link)
		}
	}
	if len(sources.Video.TopVideos) > 0 {
		b.WriteString("\n## Top Videos\n\n")
		for _, v := range sources.Video.TopVideos {
			fmt.Fprintf(b, "- %s (%s, %d views)\n", v.Title, v.Channel, v.Views)
		}
	}
	if len(sources.Microblog.TopPosts) > 0 {
		b.WriteString("\n## Top Microblog Posts\n\n")
		for _, p := range sources.Microblog.TopPosts {
			fmt.Fprintf(b, "- %s (%d likes)\n", p.Text, p.Likes)
		}
	}
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
