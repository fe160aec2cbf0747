package insight

import (
	"strings"

	"hotindex/internal/domain/analysis"
)

// Parse turns the generator's free-text response into an InsightResult.
//
// The recognized grammar is a flat sequence of markdown-style sections.
// A line is a header when, after stripping leading '#', '*' and list
// markers and a trailing ':', it case-insensitively equals one of:
//
//	Summary
//	Data Interpretation        (sub-heads: Exposure, Engagement, Demand)
//	Key Findings
//	Strategic Recommendations  (sub-heads: Short-term, Medium-term, Long-term)
//	Trend Outlook              (sub-heads: Positive Factors, Negative Factors,
//	                            Scenarios; scenario lines: Best, Base, Worst)
//	Risk Factors
//	Opportunities
//	Action Items
//
// Bullet lines under a list section accumulate into the mapped field;
// plain lines under a scalar section are joined. Text before any header
// becomes the summary when no Summary section was present. Fields the
// response never filled fall back to the deterministic values from
// Fallback, so the result is always fully populated.
func Parse(text string, record analysis.AnalysisRecord) analysis.InsightResult {
	result := analysis.InsightResult{}

	section := ""
	subsection := ""
	var preamble []string

	appendScalar := func(dst *string, line string) {
		if *dst == "" {
			*dst = line
			return
		}
		*dst += " " + line
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if name, ok := matchHeader(line); ok {
			section = name
			subsection = ""
			continue
		}
		if section != "" {
			if sub, ok := matchSubHeader(section, line); ok {
				subsection = sub
				continue
			}
		}

		content := stripBullet(line)
		if content == "" {
			continue
		}

		switch section {
		case "":
			preamble = append(preamble, content)
		case "summary":
			appendScalar(&result.Summary, content)
		case "data_interpretation":
			target, value := subsection, content
			// inline form: "Exposure: commentary"
			if key, rest := splitScenario(content); key == "exposure" || key == "engagement" || key == "demand" {
				target, value = key, rest
			}
			switch target {
			case "exposure":
				appendScalar(&result.DataInterpretation.Exposure, value)
			case "engagement":
				appendScalar(&result.DataInterpretation.Engagement, value)
			case "demand":
				appendScalar(&result.DataInterpretation.Demand, value)
			}
		case "key_findings":
			result.KeyFindings = append(result.KeyFindings, content)
		case "strategic_recommendations":
			switch subsection {
			case "short_term":
				result.StrategicRecommendations.ShortTerm = append(result.StrategicRecommendations.ShortTerm, content)
			case "medium_term":
				result.StrategicRecommendations.MediumTerm = append(result.StrategicRecommendations.MediumTerm, content)
			case "long_term":
				result.StrategicRecommendations.LongTerm = append(result.StrategicRecommendations.LongTerm, content)
			}
		case "trend_outlook":
			switch subsection {
			case "positive_factors":
				result.TrendOutlook.PositiveFactors = append(result.TrendOutlook.PositiveFactors, content)
			case "negative_factors":
				result.TrendOutlook.NegativeFactors = append(result.TrendOutlook.NegativeFactors, content)
			case "scenarios":
				key, value := splitScenario(content)
				switch key {
				case "best":
					appendScalar(&result.TrendOutlook.Scenarios.Best, value)
				case "base":
					appendScalar(&result.TrendOutlook.Scenarios.Base, value)
				case "worst":
					appendScalar(&result.TrendOutlook.Scenarios.Worst, value)
				}
			}
		case "risk_factors":
			result.RiskFactors = append(result.RiskFactors, content)
		case "opportunities":
			result.Opportunities = append(result.Opportunities, content)
		case "action_items":
			result.ActionItems = append(result.ActionItems, content)
		}
	}

	if result.Summary == "" && len(preamble) > 0 {
		result.Summary = strings.Join(preamble, " ")
	}

	return fillGaps(result, record)
}

var sectionHeaders = map[string]string{
	"summary":                   "summary",
	"data interpretation":       "data_interpretation",
	"key findings":              "key_findings",
	"strategic recommendations": "strategic_recommendations",
	"trend outlook":             "trend_outlook",
	"risk factors":              "risk_factors",
	"opportunities":             "opportunities",
	"action items":              "action_items",
}

var subHeaders = map[string]map[string]string{
	"data_interpretation": {
		"exposure":   "exposure",
		"engagement": "engagement",
		"demand":     "demand",
	},
	"strategic_recommendations": {
		"short-term":  "short_term",
		"short term":  "short_term",
		"medium-term": "medium_term",
		"medium term": "medium_term",
		"long-term":   "long_term",
		"long term":   "long_term",
	},
	"trend_outlook": {
		"positive factors": "positive_factors",
		"negative factors": "negative_factors",
		"scenarios":        "scenarios",
	},
}

func normalizeHeader(line string) string {
	s := strings.TrimLeft(line, "#*- \t")
	s = strings.TrimRight(s, ": *")
	return strings.ToLower(strings.TrimSpace(s))
}

func matchHeader(line string) (string, bool) {
	name, ok := sectionHeaders[normalizeHeader(line)]
	return name, ok
}

func matchSubHeader(section, line string) (string, bool) {
	subs, ok := subHeaders[section]
	if !ok {
		return "", false
	}
	name, ok := subs[normalizeHeader(line)]
	return name, ok
}

func stripBullet(line string) string {
	s := strings.TrimSpace(line)
	for _, prefix := range []string{"- ", "* ", "+ ", "• "} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	// numbered bullets: "1. item" / "2) item"
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 3 {
		if isDigits(s[:i]) {
			return strings.TrimSpace(s[i+1:])
		}
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitScenario reads "Best: ..." style scenario lines.
func splitScenario(content string) (string, string) {
	parts := strings.SplitN(content, ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	key := strings.ToLower(strings.TrimSpace(strings.Trim(parts[0], "*")))
	return key, strings.TrimSpace(parts[1])
}

// fillGaps backfills any fields the parsed response left empty so the
// result honors the always-populated contract.
func fillGaps(result analysis.InsightResult, record analysis.AnalysisRecord) analysis.InsightResult {
	fb := Fallback(record)

	if result.Summary == "" {
		result.Summary = fb.Summary
	}
	if result.DataInterpretation.Exposure == "" {
		result.DataInterpretation.Exposure = fb.DataInterpretation.Exposure
	}
	if result.DataInterpretation.Engagement == "" {
		result.DataInterpretation.Engagement = fb.DataInterpretation.Engagement
	}
	if result.DataInterpretation.Demand == "" {
		result.DataInterpretation.Demand = fb.DataInterpretation.Demand
	}
	if len(result.KeyFindings) == 0 {
		result.KeyFindings = fb.KeyFindings
	}
	if len(result.StrategicRecommendations.ShortTerm) == 0 {
		result.StrategicRecommendations.ShortTerm = fb.StrategicRecommendations.ShortTerm
	}
	if len(result.StrategicRecommendations.MediumTerm) == 0 {
		result.StrategicRecommendations.MediumTerm = fb.StrategicRecommendations.MediumTerm
	}
	if len(result.StrategicRecommendations.LongTerm) == 0 {
		result.StrategicRecommendations.LongTerm = fb.StrategicRecommendations.LongTerm
	}
	if len(result.TrendOutlook.PositiveFactors) == 0 {
		result.TrendOutlook.PositiveFactors = fb.TrendOutlook.PositiveFactors
	}
	if len(result.TrendOutlook.NegativeFactors) == 0 {
		result.TrendOutlook.NegativeFactors = fb.TrendOutlook.NegativeFactors
	}
	if result.TrendOutlook.Scenarios.Best == "" {
		result.TrendOutlook.Scenarios.Best = fb.TrendOutlook.Scenarios.Best
	}
	if result.TrendOutlook.Scenarios.Base == "" {
		result.TrendOutlook.Scenarios.Base = fb.TrendOutlook.Scenarios.Base
	}
	if result.TrendOutlook.Scenarios.Worst == "" {
		result.TrendOutlook.Scenarios.Worst = fb.TrendOutlook.Scenarios.Worst
	}
	if len(result.RiskFactors) == 0 {
		result.RiskFactors = fb.RiskFactors
	}
	if len(result.Opportunities) == 0 {
		result.Opportunities = fb.Opportunities
	}
	if len(result.ActionItems) == 0 {
		result.ActionItems = fb.ActionItems
	}
	return result
}
