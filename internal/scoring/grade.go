package scoring

// Grade is the informational label for an index value. It is computed
// on read and never persisted.
type Grade string

const (
	GradeVeryHigh Grade = "very_high"
	GradeHigh     Grade = "high"
	GradeMedium   Grade = "medium"
	GradeLow      Grade = "low"
)

func gradeWith(v, veryHigh, high, medium int) Grade {
	switch {
	case v >= veryHigh:
		return GradeVeryHigh
	case v >= high:
		return GradeHigh
	case v >= medium:
		return GradeMedium
	default:
		return GradeLow
	}
}

// GradeExposure grades an exposure index (breakpoints 81/61/31).
func GradeExposure(v int) Grade { return gradeWith(v, 81, 61, 31) }

// GradeDemand grades a demand index (breakpoints 81/61/31).
func GradeDemand(v int) Grade { return gradeWith(v, 81, 61, 31) }

// GradeEngagement grades an engagement index (breakpoints 76/51/26).
func GradeEngagement(v int) Grade { return gradeWith(v, 76, 51, 26) }

// GradeOverall grades the overall index (breakpoints 81/61/41).
func GradeOverall(v int) Grade { return gradeWith(v, 81, 61, 41) }
