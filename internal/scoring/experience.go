package scoring

// Experience scoring thresholds
const (
	nearMissRatio = 0.7
)

// ExperienceScore scores candidate years of experience against the job's minimum and
// preferred years. A nil or lower preferred value defaults to the minimum.
// A minimum of zero or less means there is no requirement.
func ExperienceScore(years, minYears float64, preferred *float64) float64 {
	if years < 0 {
		years = 0
	}
	if minYears <= 0 {
		return 100
	}

	pref := minYears
	if preferred != nil && *preferred > minYears {
		pref = *preferred
	}

	switch {
	case years >= pref:
		return 100
	case years >= minYears:
		// Linear interpolation between the minimum (70) and preferred (100)
		return clamp(70 + 30*(years-minYears)/(pref-minYears))
	case years >= nearMissRatio*minYears:
		return clamp(50 + 20*(years/minYears))
	default:
		return clamp(50 * years / minYears)
	}
}
