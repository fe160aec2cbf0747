package insight

import (
	"fmt"

	"hotindex/internal/domain/analysis"
)

// Fallback builds a fully populated InsightResult from the record's
// numbers alone. Downstream rendering assumes every field is present,
// so this is what a failed generation degrades to.
func Fallback(record analysis.AnalysisRecord) analysis.InsightResult {
	m := record.Metrics
	return analysis.InsightResult{
		Summary: fmt.Sprintf(
			"Keyword %q scored %d overall (exposure %d, engagement %d, demand %d) on %s.",
			record.Keyword, m.Overall, m.Exposure, m.Engagement, m.Demand,
			record.Date.Format("2006-01-02")),
		DataInterpretation: analysis.DataInterpretation{
			Exposure:   fmt.Sprintf("Exposure index is %d across %d news articles and %d videos.", m.Exposure, record.Sources.News.ArticleCount, record.Sources.Video.VideoCount),
			Engagement: fmt.Sprintf("Engagement index is %d based on per-item interaction averages.", m.Engagement),
			Demand:     fmt.Sprintf("Demand index is %d with a search volume of %.1f.", m.Demand, record.Sources.Trend.SearchVolume),
		},
		KeyFindings: []string{
			fmt.Sprintf("Overall popularity index: %d/100.", m.Overall),
			fmt.Sprintf("Data quality for this run: %s.", record.DataQuality),
		},
		StrategicRecommendations: analysis.StrategicRecommendations{
			ShortTerm:  []string{"Re-run the analysis once all sources respond to confirm the score."},
			MediumTerm: []string{"Track the keyword daily to establish a baseline trend."},
			LongTerm:   []string{"Compare against related keywords before committing budget."},
		},
		TrendOutlook: analysis.TrendOutlook{
			PositiveFactors: []string{"Automated collection keeps the index comparable day over day."},
			NegativeFactors: []string{"Narrative insight was unavailable for this run."},
			Scenarios: analysis.Scenarios{
				Best:  "Interest grows and the overall index climbs in the next runs.",
				Base:  "The overall index holds near its current level.",
				Worst: "Interest fades and the overall index declines.",
			},
		},
		RiskFactors:   []string{"Insight generation failed; numbers above are unannotated."},
		Opportunities: []string{"Review the per-source drill-down lists for standout content."},
		ActionItems:   []string{"Check collector credentials if data quality is below high."},
	}
}
