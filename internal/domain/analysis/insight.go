package analysis

// DataInterpretation is the per-index commentary of an insight.
type DataInterpretation struct {
	Exposure   string `json:"exposure"`
	Engagement string `json:"engagement"`
	Demand     string `json:"demand"`
}

// StrategicRecommendations groups recommendations by horizon.
type StrategicRecommendations struct {
	ShortTerm  []string `json:"short_term"`
	MediumTerm []string `json:"medium_term"`
	LongTerm   []string `json:"long_term"`
}

// Scenarios are the best/base/worst outlook narratives.
type Scenarios struct {
	Best  string `json:"best"`
	Base  string `json:"base"`
	Worst string `json:"worst"`
}

// TrendOutlook describes expected movement with supporting factors.
type TrendOutlook struct {
	PositiveFactors []string  `json:"positive_factors"`
	NegativeFactors []string  `json:"negative_factors"`
	Scenarios       Scenarios `json:"scenarios"`
}

// InsightResult is the fixed-shape output of the insight collaborator.
// Every field is populated even when generation fails; downstream
// rendering assumes presence.
type InsightResult struct {
	Summary                  string                   `json:"summary"`
	DataInterpretation       DataInterpretation       `json:"data_interpretation"`
	KeyFindings              []string                 `json:"key_findings"`
	StrategicRecommendations StrategicRecommendations `json:"strategic_recommendations"`
	TrendOutlook             TrendOutlook             `json:"trend_outlook"`
	RiskFactors              []string                 `json:"risk_factors"`
	Opportunities            []string                 `json:"opportunities"`
	ActionItems              []string                 `json:"action_items"`
}
