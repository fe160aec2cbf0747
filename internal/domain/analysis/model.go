package analysis

import (
	"time"
)

// SourceName identifies one external content channel.
type SourceName string

const (
	SourceNews       SourceName = "news"
	SourceTrend      SourceName = "trend"
	SourceVideo      SourceName = "video"
	SourceMicroblog  SourceName = "microblog"
	SourcePhoto      SourceName = "photo"
	SourceShortVideo SourceName = "shortvideo"
)

// NewsArticle is one item from the news search drill-down list.
type NewsArticle struct {
	Title          string    `json:"title"`
	Link           string    `json:"link"`
	Description    string    `json:"description"`
	PublishedAt    time.Time `json:"published_at"`
	EstimatedViews int64     `json:"estimated_views"`
}

// NewsMetrics holds raw counters from the news search source.
// The source exposes no real view counts, so views are deterministic
// estimates derived from the result count.
type NewsMetrics struct {
	ArticleCount int           `json:"article_count"`
	TotalViews   int64         `json:"total_views"`
	AvgViews     float64       `json:"avg_views"`
	TopArticles  []NewsArticle `json:"top_articles"`
}

// TrendMetrics holds counters from the search-trend index source.
// SearchVolume is already normalized to 0-100 by the source.
type TrendMetrics struct {
	SearchVolume  float64 `json:"search_volume"`
	TrendScore    float64 `json:"trend_score"`
	ShoppingScore float64 `json:"shopping_score"`
}

// VideoItem is one long-form video in the drill-down list.
type VideoItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
}

// VideoMetrics holds raw counters from the long-form video source.
type VideoMetrics struct {
	VideoCount    int         `json:"video_count"`
	TotalViews    int64       `json:"total_views"`
	TotalLikes    int64       `json:"total_likes"`
	TotalComments int64       `json:"total_comments"`
	AvgViews      float64     `json:"avg_views"`
	TopVideos     []VideoItem `json:"top_videos"`
}

// MicroblogPost is one post in the microblog drill-down list.
type MicroblogPost struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Likes    int64  `json:"likes"`
	Reshares int64  `json:"reshares"`
	Replies  int64  `json:"replies"`
}

// MicroblogMetrics holds raw counters from the microblog source.
type MicroblogMetrics struct {
	PostCount     int             `json:"post_count"`
	TotalLikes    int64           `json:"total_likes"`
	TotalReshares int64           `json:"total_reshares"`
	TotalReplies  int64           `json:"total_replies"`
	AvgEngagement float64         `json:"avg_engagement"`
	TopPosts      []MicroblogPost `json:"top_posts"`
}

// PhotoPost is one post in the photo-share drill-down list.
type PhotoPost struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	Link     string `json:"link"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Shares   int64  `json:"shares"`
}

// PhotoMetrics holds raw counters from the photo-sharing source.
type PhotoMetrics struct {
	PostCount     int         `json:"post_count"`
	TotalLikes    int64       `json:"total_likes"`
	TotalComments int64       `json:"total_comments"`
	TotalShares   int64       `json:"total_shares"`
	AvgEngagement float64     `json:"avg_engagement"`
	TopPosts      []PhotoPost `json:"top_posts"`
}

// ShortVideoItem is one clip in the short-video drill-down list.
type ShortVideoItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Shares   int64  `json:"shares"`
}

// ShortVideoMetrics holds raw counters from the short-video source.
type ShortVideoMetrics struct {
	VideoCount    int              `json:"video_count"`
	TotalViews    int64            `json:"total_views"`
	TotalLikes    int64            `json:"total_likes"`
	TotalComments int64            `json:"total_comments"`
	TotalShares   int64            `json:"total_shares"`
	AvgViews      float64          `json:"avg_views"`
	TopVideos     []ShortVideoItem `json:"top_videos"`
}

// SourceSet bundles one analysis run's metrics across all six sources.
// The zero value is well-formed: every counter is 0 and every list empty,
// which is exactly what a failed or empty collector contributes.
type SourceSet struct {
	News       NewsMetrics       `json:"news"`
	Trend      TrendMetrics      `json:"trend"`
	Video      VideoMetrics      `json:"video"`
	Microblog  MicroblogMetrics  `json:"microblog"`
	Photo      PhotoMetrics      `json:"photo"`
	ShortVideo ShortVideoMetrics `json:"shortvideo"`
}

// Indices are the computed sub-indices and the overall index.
// Derived by the scoring engine, never independently mutated.
type Indices struct {
	Exposure   int `json:"exposure"`
	Engagement int `json:"engagement"`
	Demand     int `json:"demand"`
	Overall    int `json:"overall"`
}

// DataQuality tags how complete the collected source data was.
type DataQuality string

const (
	QualityHigh   DataQuality = "high"
	QualityMedium DataQuality = "medium"
	QualityLow    DataQuality = "low"
)

// QualityForFailures maps the number of failed collectors (out of six)
// to a quality tag.
func QualityForFailures(failed int) DataQuality {
	switch {
	case failed == 0:
		return QualityHigh
	case failed <= 2:
		return QualityMedium
	default:
		return QualityLow
	}
}

// AnalysisRecord is the persisted result of one scoring run for one
// keyword on one date. At most one record exists per (keyword, date).
type AnalysisRecord struct {
	ID               string      `json:"id"`
	Keyword          string      `json:"keyword"`
	Date             time.Time   `json:"date"`
	AnalysisDate     time.Time   `json:"analysis_date"`
	Sources          SourceSet   `json:"sources"`
	Metrics          Indices     `json:"metrics"`
	WeightConfigID   string      `json:"weight_config_id"`
	DataQuality      DataQuality `json:"data_quality"`
	ProcessingTimeMs int64       `json:"processing_time_ms"`
	InsightRef       string      `json:"insight_ref,omitempty"`
	ReportRef        string      `json:"report_ref,omitempty"`
}

// TrendDirection describes the movement of the overall index across
// the most recent records of a keyword.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// IndexStats summarizes one index over a record window.
type IndexStats struct {
	Avg float64 `json:"avg"`
	Min int     `json:"min"`
	Max int     `json:"max"`
}

// Stats is the statistical summary of a keyword's records in a range.
type Stats struct {
	Keyword    string         `json:"keyword"`
	Count      int            `json:"count"`
	Exposure   IndexStats     `json:"exposure"`
	Engagement IndexStats     `json:"engagement"`
	Demand     IndexStats     `json:"demand"`
	Overall    IndexStats     `json:"overall"`
	Trend      TrendDirection `json:"trend"`
}

// ReportInfo is what the report collaborator hands back: a stable
// report ID and a retrievable path.
type ReportInfo struct {
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
}
