package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/domain/weights"
)

func TestScoreZeroBundle(t *testing.T) {
	got := Score(analysis.SourceSet{}, weights.Default())

	assert.Equal(t, analysis.Indices{}, got)
}

func TestScoreNewsOnly(t *testing.T) {
	// Ten news articles and nothing else: exposure term is
	// min(10*2, 100) = 20, weighted 0.30 -> 6; overall 6*0.40 -> 2.
	src := analysis.SourceSet{
		News: analysis.NewsMetrics{ArticleCount: 10},
	}

	got := Score(src, weights.Default())

	assert.Equal(t, 6, got.Exposure)
	assert.Equal(t, 0, got.Engagement)
	assert.Equal(t, 0, got.Demand)
	assert.Equal(t, 2, got.Overall)
}

func TestScoreSaturatesPerSource(t *testing.T) {
	// A runaway source cannot contribute more than 100 before weighting.
	src := analysis.SourceSet{
		News: analysis.NewsMetrics{ArticleCount: 1000000},
	}

	got := Score(src, weights.Default())

	assert.Equal(t, 30, got.Exposure)
}

func TestScoreFullSaturationHitsHundred(t *testing.T) {
	src := analysis.SourceSet{
		News:       analysis.NewsMetrics{ArticleCount: 100},
		Video:      analysis.VideoMetrics{TotalViews: 10_000_000, VideoCount: 50},
		Microblog:  analysis.MicroblogMetrics{PostCount: 1000},
		Photo:      analysis.PhotoMetrics{PostCount: 1000},
		ShortVideo: analysis.ShortVideoMetrics{TotalViews: 10_000_000, VideoCount: 1000},
	}
	src.Trend.SearchVolume = 100

	got := Score(src, weights.Default())

	assert.Equal(t, 100, got.Exposure)
	assert.Equal(t, 100, got.Demand)
}

func TestScoreMonotoneInVolume(t *testing.T) {
	small := analysis.SourceSet{
		Microblog: analysis.MicroblogMetrics{PostCount: 5},
	}
	large := analysis.SourceSet{
		Microblog: analysis.MicroblogMetrics{PostCount: 15},
	}

	cfg := weights.Default()
	assert.LessOrEqual(t, Score(small, cfg).Exposure, Score(large, cfg).Exposure)
	assert.LessOrEqual(t, Score(small, cfg).Demand, Score(large, cfg).Demand)
}

func TestScoreEngagementPerItem(t *testing.T) {
	// Per item = (100000*0.5 + 30000*0.3 + 20000*0.2)/20 = 3150,
	// over the microblog divisor 50 -> 63, weighted 0.25 -> 15.75 -> 16.
	src := analysis.SourceSet{
		Microblog: analysis.MicroblogMetrics{
			PostCount:     20,
			TotalLikes:    100000,
			TotalReplies:  30000,
			TotalReshares: 20000,
		},
	}

	got := Score(src, weights.Default())

	assert.Equal(t, 16, got.Engagement)
}

func TestScoreEmptySourceAvoidsDivisionByZero(t *testing.T) {
	// Interactions without items: count clamps to 1, never NaN.
	src := analysis.SourceSet{
		Video: analysis.VideoMetrics{TotalLikes: 500},
	}

	got := Score(src, weights.Default())

	assert.GreaterOrEqual(t, got.Engagement, 0)
}

func TestScoreNonFiniteInputContributesZero(t *testing.T) {
	src := analysis.SourceSet{}
	src.Trend.SearchVolume = math.NaN()

	got := Score(src, weights.Default())
	assert.Equal(t, 0, got.Demand)

	src.Trend.SearchVolume = math.Inf(1)
	got = Score(src, weights.Default())
	assert.Equal(t, 0, got.Demand)

	src.Trend.SearchVolume = -50
	got = Score(src, weights.Default())
	assert.Equal(t, 0, got.Demand)
}

func TestScoreUnclampedWithOverweightConfiguration(t *testing.T) {
	// The engine reports what an over-unity configuration computes
	// instead of silently clamping it.
	cfg := weights.Default()
	cfg.Overall = weights.OverallWeights{Exposure: 1, Engagement: 1, Demand: 1}

	src := analysis.SourceSet{
		News:       analysis.NewsMetrics{ArticleCount: 100},
		Video:      analysis.VideoMetrics{TotalViews: 10_000_000, VideoCount: 50},
		Microblog:  analysis.MicroblogMetrics{PostCount: 1000},
		Photo:      analysis.PhotoMetrics{PostCount: 1000},
		ShortVideo: analysis.ShortVideoMetrics{TotalViews: 10_000_000, VideoCount: 1000},
	}
	src.Trend.SearchVolume = 100

	got := Score(src, cfg)
	assert.Greater(t, got.Overall, 100)
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		grade func(int) Grade
		value int
		want  Grade
	}{
		{"exposure very high at 81", GradeExposure, 81, GradeVeryHigh},
		{"exposure high at 80", GradeExposure, 80, GradeHigh},
		{"exposure high at 61", GradeExposure, 61, GradeHigh},
		{"exposure medium at 60", GradeExposure, 60, GradeMedium},
		{"exposure medium at 31", GradeExposure, 31, GradeMedium},
		{"exposure low at 30", GradeExposure, 30, GradeLow},
		{"demand very high at 90", GradeDemand, 90, GradeVeryHigh},
		{"demand low at 0", GradeDemand, 0, GradeLow},
		{"engagement very high at 76", GradeEngagement, 76, GradeVeryHigh},
		{"engagement high at 75", GradeEngagement, 75, GradeHigh},
		{"engagement medium at 26", GradeEngagement, 26, GradeMedium},
		{"engagement low at 25", GradeEngagement, 25, GradeLow},
		{"overall very high at 81", GradeOverall, 81, GradeVeryHigh},
		{"overall high at 61", GradeOverall, 61, GradeHigh},
		{"overall medium at 41", GradeOverall, 41, GradeMedium},
		{"overall low at 40", GradeOverall, 40, GradeLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.grade(tt.value))
		})
	}
}
