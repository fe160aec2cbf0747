package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotindex/internal/domain/analysis"
)

// records are built newest-first, matching the Stats query order.
func recordsWithOverall(overall ...int) []analysis.AnalysisRecord {
	records := make([]analysis.AnalysisRecord, len(overall))
	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i, v := range overall {
		records[i] = analysis.AnalysisRecord{
			Keyword: "golang",
			Date:    base.AddDate(0, 0, -i),
			Metrics: analysis.Indices{
				Exposure:   v + 1,
				Engagement: v - 1,
				Demand:     v,
				Overall:    v,
			},
		}
	}
	return records
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil)

	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, analysis.TrendStable, stats.Trend)
	assert.Equal(t, analysis.IndexStats{}, stats.Overall)
}

func TestComputeStatsSummaries(t *testing.T) {
	stats := computeStats(recordsWithOverall(70, 50, 60))

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 50, stats.Overall.Min)
	assert.Equal(t, 70, stats.Overall.Max)
	assert.InDelta(t, 60.0, stats.Overall.Avg, 1e-9)
	assert.Equal(t, 51, stats.Exposure.Min)
	assert.Equal(t, 71, stats.Exposure.Max)
	assert.Equal(t, 49, stats.Engagement.Min)
}

func TestDeriveTrend(t *testing.T) {
	tests := []struct {
		name    string
		overall []int
		want    analysis.TrendDirection
	}{
		{"rising past the margin", []int{70, 65, 60}, analysis.TrendIncreasing},
		{"falling past the margin", []int{58, 62, 65}, analysis.TrendDecreasing},
		{"inside the margin", []int{61, 60, 60}, analysis.TrendStable},
		{"exactly at the margin is stable", []int{65, 62, 60}, analysis.TrendStable},
		{"two records is stable", []int{90, 10}, analysis.TrendStable},
		{"single record is stable", []int{80}, analysis.TrendStable},
		{"older records beyond the window ignored", []int{70, 65, 60, 5, 5}, analysis.TrendIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveTrend(recordsWithOverall(tt.overall...))
			assert.Equal(t, tt.want, got)
		})
	}
}
