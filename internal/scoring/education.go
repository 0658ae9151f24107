package scoring

import (
	"math"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// EducationScore scores a candidate education level against the required level.
// No (or an unrecognized) requirement scores 100; one rank below scores 75;
// each further rank below removes 25 from a base of 50.
func EducationScore(candidateLevel, requiredLevel string) float64 {
	reqRank := types.EducationRank(requiredLevel)
	if reqRank == 0 {
		return 100
	}

	gap := reqRank - types.EducationRank(candidateLevel)
	switch {
	case gap <= 0:
		return 100
	case gap == 1:
		return 75
	default:
		return math.Max(0, 50-25*float64(gap-1))
	}
}
