package ranking

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/scoring"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Pool-sorting heuristics
const (
	pointsPerSkill         = 10.0
	pointsPerVerifiedSkill = 5.0
	pointsPerYear          = 10.0
	pointsPerEducationRank = 20.0
	staleDays              = 365.0
	neutralLocation        = 50.0
)

// SortOptions controls generic pool sorting
type SortOptions struct {
	Weights        *types.SortingWeights
	TargetLocation string
	Now            time.Time
}

// SortingFactorsFor computes the five pool-sorting factors of one candidate.
func SortingFactorsFor(c *types.Candidate, targetLocation string, now time.Time) SortingFactors {
	return SortingFactors{
		Skill:      math.Min(100, float64(len(c.Skills))*pointsPerSkill+float64(c.VerifiedSkillCount())*pointsPerVerifiedSkill),
		Experience: math.Min(100, math.Max(0, c.TotalExperienceYears)*pointsPerYear),
		Education:  float64(types.EducationRank(c.EducationLevel)) * pointsPerEducationRank,
		Recency:    RecencyScore(c.UpdatedAt, now),
		Location:   poolLocationScore(c.Location, targetLocation),
	}
}

// RecencyScore is 100 minus the days since the last update, floored at 0.
// A missing timestamp counts as a full year stale.
func RecencyScore(updatedAt *time.Time, now time.Time) float64 {
	days := staleDays
	if updatedAt != nil {
		days = now.Sub(*updatedAt).Hours() / 24
		if days < 0 {
			days = 0
		}
	}
	return math.Max(0, 100-days)
}

func poolLocationScore(candidate, target string) float64 {
	if strings.TrimSpace(target) == "" {
		return neutralLocation
	}
	return scoring.LocationScore(candidate, target, types.LocationOnsite)
}

// SortCandidates orders a candidate pool by the weighted pool-sorting score
// without reference to a specific job. Ties break by candidate id ascending.
func SortCandidates(combiner Combiner, candidates []types.Candidate, opts SortOptions) []types.RankedCandidate {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	weights := combiner.SortingDefaults()
	if opts.Weights != nil {
		weights, _ = combiner.NormalizeSorting(*opts.Weights)
	}

	ranked := make([]types.RankedCandidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		f := SortingFactorsFor(c, opts.TargetLocation, now)
		ranked = append(ranked, types.RankedCandidate{
			CandidateID: c.ID,
			Name:        c.Name,
			Score:       combiner.SortingComposite(weights, f),
			Skill:       f.Skill,
			Experience:  f.Experience,
			Education:   f.Education,
			Recency:     RoundScore(f.Recency),
			Location:    f.Location,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return strings.Compare(ranked[i].CandidateID.String(), ranked[j].CandidateID.String()) < 0
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
