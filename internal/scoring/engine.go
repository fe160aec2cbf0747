package scoring

import (
	"math"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/domain/weights"
)

// Saturating transform factors per source. Each raw counter is scaled
// and capped at 100 before weighting, so one runaway source cannot
// dominate an index beyond its weight.
const (
	newsArticleFactor     = 2.0
	videoViewsDivisor     = 10000.0
	microblogPostFactor   = 5.0
	photoPostFactor       = 3.0
	shortVideoViewDivisor = 5000.0

	videoDemandFactor      = 10.0
	microblogDemandFactor  = 8.0
	photoDemandFactor      = 15.0
	shortVideoDemandFactor = 12.0

	videoEngagementDivisor      = 100.0
	microblogEngagementDivisor  = 50.0
	photoEngagementDivisor      = 200.0
	shortVideoEngagementDivisor = 100.0
)

// Score computes the three sub-indices and the overall index from a
// source metrics bundle and a weight configuration. It is a pure
// function: no I/O, and malformed (non-finite) terms contribute 0.
//
// Each per-source term saturates at 100; the weighted sums themselves
// are intentionally not clamped, so a weight configuration whose groups
// sum above 1 can push an index past 100 and the engine reports it as
// computed.
func Score(src analysis.SourceSet, cfg weights.WeightConfiguration) analysis.Indices {
	exposure := exposureScore(src, cfg)
	engagement := engagementScore(src, cfg)
	demand := demandScore(src, cfg)

	overall := round(float64(exposure)*cfg.Overall.Exposure +
		float64(engagement)*cfg.Overall.Engagement +
		float64(demand)*cfg.Overall.Demand)

	return analysis.Indices{
		Exposure:   exposure,
		Engagement: engagement,
		Demand:     demand,
		Overall:    overall,
	}
}

func exposureScore(src analysis.SourceSet, cfg weights.WeightConfiguration) int {
	sum := saturate(float64(src.News.ArticleCount)*newsArticleFactor)*cfg.Exposure.News +
		saturate(float64(src.Video.TotalViews)/videoViewsDivisor)*cfg.Exposure.Video +
		saturate(float64(src.Microblog.PostCount)*microblogPostFactor)*cfg.Exposure.Microblog +
		saturate(float64(src.Photo.PostCount)*photoPostFactor)*cfg.Exposure.Photo +
		saturate(float64(src.ShortVideo.TotalViews)/shortVideoViewDivisor)*cfg.Exposure.ShortVideo
	return round(sum)
}

func engagementScore(src analysis.SourceSet, cfg weights.WeightConfiguration) int {
	d := cfg.EngagementDetail

	video := perItemEngagement(src.Video.TotalLikes, src.Video.TotalComments, 0, src.Video.VideoCount, d)
	microblog := perItemEngagement(src.Microblog.TotalLikes, src.Microblog.TotalReplies, src.Microblog.TotalReshares, src.Microblog.PostCount, d)
	photo := perItemEngagement(src.Photo.TotalLikes, src.Photo.TotalComments, src.Photo.TotalShares, src.Photo.PostCount, d)
	short := perItemEngagement(src.ShortVideo.TotalLikes, src.ShortVideo.TotalComments, src.ShortVideo.TotalShares, src.ShortVideo.VideoCount, d)

	sum := saturate(video/videoEngagementDivisor)*cfg.Engagement.Video +
		saturate(microblog/microblogEngagementDivisor)*cfg.Engagement.Microblog +
		saturate(photo/photoEngagementDivisor)*cfg.Engagement.Photo +
		saturate(short/shortVideoEngagementDivisor)*cfg.Engagement.ShortVideo
	return round(sum)
}

func demandScore(src analysis.SourceSet, cfg weights.WeightConfiguration) int {
	sum := saturate(src.Trend.SearchVolume)*cfg.Demand.Trend +
		saturate(float64(src.Video.VideoCount)*videoDemandFactor)*cfg.Demand.Video +
		saturate(float64(src.Microblog.PostCount)*microblogDemandFactor)*cfg.Demand.Microblog +
		saturate(float64(src.Photo.PostCount)*photoDemandFactor)*cfg.Demand.Photo +
		saturate(float64(src.ShortVideo.VideoCount)*shortVideoDemandFactor)*cfg.Demand.ShortVideo
	return round(sum)
}

// perItemEngagement averages weighted interactions over the item count.
// A zero item count divides by 1 so empty sources score 0, not NaN.
func perItemEngagement(likes, comments, shares int64, count int, d weights.EngagementDetailWeights) float64 {
	items := float64(count)
	if items < 1 {
		items = 1
	}
	return (float64(likes)*d.Likes + float64(comments)*d.Comments + float64(shares)*d.Shares) / items
}

// saturate caps a source score at 100 and maps malformed or negative
// input to 0.
func saturate(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
