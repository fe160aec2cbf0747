package weights

import (
	"fmt"
	"math"
	"time"
)

// SumEpsilon is the tolerance when checking that a weight group sums to 1.
const SumEpsilon = 0.01

// ExposureWeights weight the volume contribution of each source.
type ExposureWeights struct {
	News       float64 `json:"news"`
	Video      float64 `json:"video"`
	Microblog  float64 `json:"microblog"`
	Photo      float64 `json:"photo"`
	ShortVideo float64 `json:"shortvideo"`
}

// EngagementWeights weight the interaction contribution of each source.
type EngagementWeights struct {
	Video      float64 `json:"video"`
	Microblog  float64 `json:"microblog"`
	Photo      float64 `json:"photo"`
	ShortVideo float64 `json:"shortvideo"`
}

// DemandWeights weight the intent contribution of each source.
type DemandWeights struct {
	Trend      float64 `json:"trend"`
	Video      float64 `json:"video"`
	Microblog  float64 `json:"microblog"`
	Photo      float64 `json:"photo"`
	ShortVideo float64 `json:"shortvideo"`
}

// OverallWeights combine the three sub-indices into the overall index.
type OverallWeights struct {
	Exposure   float64 `json:"exposure"`
	Engagement float64 `json:"engagement"`
	Demand     float64 `json:"demand"`
}

// EngagementDetailWeights weight the interaction kinds inside the
// per-item engagement formula.
type EngagementDetailWeights struct {
	Likes    float64 `json:"likes"`
	Comments float64 `json:"comments"`
	Shares   float64 `json:"shares"`
}

// WeightConfiguration is a named, versioned set of scoring weights.
// Persisted configurations are append-only; at most one is active.
type WeightConfiguration struct {
	ID                      string                  `json:"id"`
	Name                    string                  `json:"name"`
	Description             string                  `json:"description"`
	Exposure                ExposureWeights         `json:"exposure_weights"`
	Engagement              EngagementWeights       `json:"engagement_weights"`
	Demand                  DemandWeights           `json:"demand_weights"`
	Overall                 OverallWeights          `json:"overall_weights"`
	EngagementDetail        EngagementDetailWeights `json:"engagement_detail_weights"`
	IsActive                bool                    `json:"is_active"`
	CreatedAt               time.Time               `json:"created_at"`
}

// ValidationError names the weight group whose sum violates the
// invariant and by how much.
type ValidationError struct {
	Group   string
	Sum     float64
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("weight group %q: %s", e.Group, e.Message)
	}
	return fmt.Sprintf("weight group %q sums to %.4f, off by %+.4f from 1.0", e.Group, e.Sum, e.Sum-1.0)
}

type weightGroup struct {
	name   string
	values []float64
}

func (c WeightConfiguration) groups() []weightGroup {
	return []weightGroup{
		{"exposure", []float64{c.Exposure.News, c.Exposure.Video, c.Exposure.Microblog, c.Exposure.Photo, c.Exposure.ShortVideo}},
		{"engagement", []float64{c.Engagement.Video, c.Engagement.Microblog, c.Engagement.Photo, c.Engagement.ShortVideo}},
		{"demand", []float64{c.Demand.Trend, c.Demand.Video, c.Demand.Microblog, c.Demand.Photo, c.Demand.ShortVideo}},
		{"overall", []float64{c.Overall.Exposure, c.Overall.Engagement, c.Overall.Demand}},
		{"engagement_detail", []float64{c.EngagementDetail.Likes, c.EngagementDetail.Comments, c.EngagementDetail.Shares}},
	}
}

// Validate checks that every weight group sums to 1.0 within SumEpsilon
// and that every individual weight lies in [0,1].
func (c WeightConfiguration) Validate() error {
	for _, g := range c.groups() {
		sum := 0.0
		for _, v := range g.values {
			if v < 0 || v > 1 {
				return &ValidationError{
					Group:   g.name,
					Message: fmt.Sprintf("weight %.4f outside [0,1]", v),
				}
			}
			sum += v
		}
		if math.Abs(sum-1.0) > SumEpsilon {
			return &ValidationError{Group: g.name, Sum: sum}
		}
	}
	return nil
}

// Normalized returns a copy with every group scaled so its sum is 1.
// Zero-sum groups are left untouched. Normalizing twice gives the same
// result as normalizing once.
func (c WeightConfiguration) Normalized() WeightConfiguration {
	scale := func(vs ...*float64) {
		sum := 0.0
		for _, v := range vs {
			sum += *v
		}
		if sum == 0 {
			return
		}
		for _, v := range vs {
			*v = *v / sum
		}
	}

	n := c
	scale(&n.Exposure.News, &n.Exposure.Video, &n.Exposure.Microblog, &n.Exposure.Photo, &n.Exposure.ShortVideo)
	scale(&n.Engagement.Video, &n.Engagement.Microblog, &n.Engagement.Photo, &n.Engagement.ShortVideo)
	scale(&n.Demand.Trend, &n.Demand.Video, &n.Demand.Microblog, &n.Demand.Photo, &n.Demand.ShortVideo)
	scale(&n.Overall.Exposure, &n.Overall.Engagement, &n.Overall.Demand)
	scale(&n.EngagementDetail.Likes, &n.EngagementDetail.Comments, &n.EngagementDetail.Shares)
	return n
}

// Default returns the documented default configuration. It is used when
// no active configuration exists yet.
func Default() WeightConfiguration {
	return WeightConfiguration{
		Name:        "default",
		Description: "Built-in default weight configuration",
		Exposure: ExposureWeights{
			News:       0.30,
			Video:      0.25,
			Microblog:  0.20,
			Photo:      0.10,
			ShortVideo: 0.15,
		},
		Engagement: EngagementWeights{
			Video:      0.30,
			Microblog:  0.25,
			Photo:      0.20,
			ShortVideo: 0.25,
		},
		Demand: DemandWeights{
			Trend:      0.35,
			Video:      0.20,
			Microblog:  0.15,
			Photo:      0.10,
			ShortVideo: 0.20,
		},
		Overall: OverallWeights{
			Exposure:   0.40,
			Engagement: 0.30,
			Demand:     0.30,
		},
		EngagementDetail: EngagementDetailWeights{
			Likes:    0.50,
			Comments: 0.30,
			Shares:   0.20,
		},
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}
