package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotindex/internal/domain/analysis"
)

func testRecord() analysis.AnalysisRecord {
	return analysis.AnalysisRecord{
		Keyword: "electric bikes",
		Metrics: analysis.Indices{Exposure: 62, Engagement: 41, Demand: 70, Overall: 58},
	}
}

const fullResponse = `## Summary
Interest in electric bikes is strong and still climbing.

## Data Interpretation
### Exposure
Coverage is broad across news and video.
### Engagement
Interaction rates sit mid-pack.
### Demand
Search demand is the strongest signal.

## Key Findings
- News coverage doubled this week
- Short-video views dominate raw volume

## Strategic Recommendations
### Short-term
- Boost paid placement while demand is high
### Medium-term
- Commission comparison content
### Long-term
- Build a dedicated category page

## Trend Outlook
### Positive Factors
- Seasonal tailwind through summer
### Negative Factors
- Price sensitivity in the segment
### Scenarios
- Best: breakout quarter with sustained demand
- Base: steady growth
- Worst: demand cools after the season

## Risk Factors
- Supply constraints

## Opportunities
- Untapped commuter audience

## Action Items
1. Schedule a follow-up analysis next week
`

func TestParseFullResponse(t *testing.T) {
	got := Parse(fullResponse, testRecord())

	assert.Equal(t, "Interest in electric bikes is strong and still climbing.", got.Summary)
	assert.Equal(t, "Coverage is broad across news and video.", got.DataInterpretation.Exposure)
	assert.Equal(t, "Interaction rates sit mid-pack.", got.DataInterpretation.Engagement)
	assert.Equal(t, "Search demand is the strongest signal.", got.DataInterpretation.Demand)
	assert.Equal(t, []string{"News coverage doubled this week", "Short-video views dominate raw volume"}, got.KeyFindings)
	assert.Equal(t, []string{"Boost paid placement while demand is high"}, got.StrategicRecommendations.ShortTerm)
	assert.Equal(t, []string{"Commission comparison content"}, got.StrategicRecommendations.MediumTerm)
	assert.Equal(t, []string{"Build a dedicated category page"}, got.StrategicRecommendations.LongTerm)
	assert.Equal(t, []string{"Seasonal tailwind through summer"}, got.TrendOutlook.PositiveFactors)
	assert.Equal(t, []string{"Price sensitivity in the segment"}, got.TrendOutlook.NegativeFactors)
	assert.Equal(t, "breakout quarter with sustained demand", got.TrendOutlook.Scenarios.Best)
	assert.Equal(t, "steady growth", got.TrendOutlook.Scenarios.Base)
	assert.Equal(t, "demand cools after the season", got.TrendOutlook.Scenarios.Worst)
	assert.Equal(t, []string{"Supply constraints"}, got.RiskFactors)
	assert.Equal(t, []string{"Untapped commuter audience"}, got.Opportunities)
	assert.Equal(t, []string{"Schedule a follow-up analysis next week"}, got.ActionItems)
}

func TestParseInlineDataInterpretation(t *testing.T) {
	text := `## Data Interpretation
- Exposure: coverage is thin
- Engagement: interactions are strong
- Demand: search interest is flat
`

	got := Parse(text, testRecord())

	assert.Equal(t, "coverage is thin", got.DataInterpretation.Exposure)
	assert.Equal(t, "interactions are strong", got.DataInterpretation.Engagement)
	assert.Equal(t, "search interest is flat", got.DataInterpretation.Demand)
}

func TestParsePreambleBecomesSummary(t *testing.T) {
	text := `The keyword shows moderate momentum overall.

## Key Findings
- One finding
`

	got := Parse(text, testRecord())

	assert.Equal(t, "The keyword shows moderate momentum overall.", got.Summary)
	assert.Equal(t, []string{"One finding"}, got.KeyFindings)
}

func TestParseBackfillsMissingSections(t *testing.T) {
	text := `## Summary
Short on detail this time.
`

	got := Parse(text, testRecord())
	fb := Fallback(testRecord())

	assert.Equal(t, "Short on detail this time.", got.Summary)
	// Everything the response skipped comes from the fallback.
	assert.Equal(t, fb.KeyFindings, got.KeyFindings)
	assert.Equal(t, fb.StrategicRecommendations, got.StrategicRecommendations)
	assert.Equal(t, fb.TrendOutlook.Scenarios, got.TrendOutlook.Scenarios)
	assert.Equal(t, fb.RiskFactors, got.RiskFactors)
}

func TestParseEmptyResponseIsFullyPopulated(t *testing.T) {
	got := Parse("", testRecord())

	assert.Equal(t, Fallback(testRecord()), got)
}

func TestFallbackIsFullyPopulated(t *testing.T) {
	fb := Fallback(testRecord())

	require.NotEmpty(t, fb.Summary)
	assert.Contains(t, fb.Summary, "electric bikes")
	assert.Contains(t, fb.Summary, "58")
	assert.NotEmpty(t, fb.DataInterpretation.Exposure)
	assert.NotEmpty(t, fb.DataInterpretation.Engagement)
	assert.NotEmpty(t, fb.DataInterpretation.Demand)
	assert.NotEmpty(t, fb.KeyFindings)
	assert.NotEmpty(t, fb.StrategicRecommendations.ShortTerm)
	assert.NotEmpty(t, fb.StrategicRecommendations.MediumTerm)
	assert.NotEmpty(t, fb.StrategicRecommendations.LongTerm)
	assert.NotEmpty(t, fb.TrendOutlook.PositiveFactors)
	assert.NotEmpty(t, fb.TrendOutlook.NegativeFactors)
	assert.NotEmpty(t, fb.TrendOutlook.Scenarios.Best)
	assert.NotEmpty(t, fb.TrendOutlook.Scenarios.Base)
	assert.NotEmpty(t, fb.TrendOutlook.Scenarios.Worst)
	assert.NotEmpty(t, fb.RiskFactors)
	assert.NotEmpty(t, fb.Opportunities)
	assert.NotEmpty(t, fb.ActionItems)
}
