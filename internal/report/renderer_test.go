package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/insight"
)

func sampleRecord() analysis.AnalysisRecord {
	return analysis.AnalysisRecord{
		ID:           "rec-1234",
		Keyword:      "electric bikes",
		Date:         time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		AnalysisDate: time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
		Metrics:      analysis.Indices{Exposure: 62, Engagement: 41, Demand: 70, Overall: 58},
		DataQuality:  analysis.QualityHigh,
		Sources: analysis.SourceSet{
			News: analysis.NewsMetrics{
				ArticleCount: 1,
				TopArticles: []analysis.NewsArticle{
					{Title: "E-bike sales surge", Link: "https://news.example/1"},
				},
			},
		},
	}
}

func TestRenderReportWritesFile(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir, zap.NewNop())

	record := sampleRecord()
	info, err := renderer.RenderReport(context.Background(), record, insight.Fallback(record))

	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, dir, filepath.Dir(info.FilePath))

	content, err := os.ReadFile(info.FilePath)
	require.NoError(t, err)

	body := string(content)
	assert.Contains(t, body, "# Popularity Report: electric bikes")
	assert.Contains(t, body, "| Overall | 58 | medium |")
	assert.Contains(t, body, "| Exposure | 62 | high |")
	assert.Contains(t, body, "## Scenarios")
	assert.Contains(t, body, "[E-bike sales surge](https://news.example/1)")
}

func TestRenderReportFilenameIsSanitized(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir, zap.NewNop())

	record := sampleRecord()
	record.Keyword = "a/b:c keyword"

	info, err := renderer.RenderReport(context.Background(), record, insight.Fallback(record))

	require.NoError(t, err)
	name := filepath.Base(info.FilePath)
	assert.Contains(t, name, "a_b_c_keyword_2026-08-20_")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, ":")
}

func TestRenderReportCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	renderer := NewRenderer(dir, zap.NewNop())

	record := sampleRecord()
	_, err := renderer.RenderReport(context.Background(), record, insight.Fallback(record))

	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
