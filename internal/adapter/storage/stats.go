package storage

import (
	"hotindex/internal/domain/analysis"
)

// trendWindow is how many of the newest records the trend direction is
// derived from.
const trendWindow = 3

// trendMargin is the overall-index movement needed before the trend is
// called increasing or decreasing rather than stable.
const trendMargin = 5

// computeStats summarizes records ordered newest-first.
func computeStats(records []analysis.AnalysisRecord) analysis.Stats {
	stats := analysis.Stats{
		Count: len(records),
		Trend: deriveTrend(records),
	}
	if len(records) == 0 {
		return stats
	}

	exposure := make([]int, len(records))
	engagement := make([]int, len(records))
	demand := make([]int, len(records))
	overall := make([]int, len(records))
	for i, r := range records {
		exposure[i] = r.Metrics.Exposure
		engagement[i] = r.Metrics.Engagement
		demand[i] = r.Metrics.Demand
		overall[i] = r.Metrics.Overall
	}

	stats.Exposure = summarize(exposure)
	stats.Engagement = summarize(engagement)
	stats.Demand = summarize(demand)
	stats.Overall = summarize(overall)
	return stats
}

// deriveTrend compares the newest record's overall index against the
// oldest of the three most recent. Fewer than three records reads as
// stable.
func deriveTrend(records []analysis.AnalysisRecord) analysis.TrendDirection {
	if len(records) < trendWindow {
		return analysis.TrendStable
	}

	newest := records[0].Metrics.Overall
	oldest := records[trendWindow-1].Metrics.Overall

	switch {
	case newest > oldest+trendMargin:
		return analysis.TrendIncreasing
	case newest < oldest-trendMargin:
		return analysis.TrendDecreasing
	default:
		return analysis.TrendStable
	}
}

func summarize(values []int) analysis.IndexStats {
	out := analysis.IndexStats{Min: values[0], Max: values[0]}
	sum := 0
	for _, v := range values {
		sum += v
		if v < out.Min {
			out.Min = v
		}
		if v > out.Max {
			out.Max = v
		}
	}
	out.Avg = float64(sum) / float64(len(values))
	return out
}
