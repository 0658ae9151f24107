// Package ranking combines sub-scores into composite scores and ranks candidates.
package ranking

import (
	"math"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// DefaultMatchWeights returns the engine default weights for job-specific matching.
func DefaultMatchWeights() types.MatchWeights {
	return types.MatchWeights{Skill: 0.40, Experience: 0.30, Education: 0.20, Location: 0.10}
}

// DefaultSortingWeights returns the engine default weights for generic pool sorting.
func DefaultSortingWeights() types.SortingWeights {
	return types.SortingWeights{Skill: 0.35, Experience: 0.25, Education: 0.20, Recency: 0.10, Location: 0.10}
}

// Combiner normalizes weight tuples and folds sub-scores into a composite score.
// It is an immutable value; its default sets replace any unusable weight tuple.
type Combiner struct {
	matchDefaults types.MatchWeights
	sortDefaults  types.SortingWeights
}

// NewCombiner returns a Combiner using the engine default weight sets.
func NewCombiner() Combiner {
	return Combiner{matchDefaults: DefaultMatchWeights(), sortDefaults: DefaultSortingWeights()}
}

// NewCombinerWithDefaults returns a Combiner with custom default weight sets.
// A custom set that cannot be normalized is replaced by the engine default.
func NewCombinerWithDefaults(match types.MatchWeights, sorting types.SortingWeights) Combiner {
	c := NewCombiner()
	if m, ok := normalizeMatch(match); ok {
		c.matchDefaults = m
	}
	if s, ok := normalizeSorting(sorting); ok {
		c.sortDefaults = s
	}
	return c
}

// MatchDefaults returns the default job-matching weights
func (c Combiner) MatchDefaults() types.MatchWeights { return c.matchDefaults }

// SortingDefaults returns the default pool-sorting weights
func (c Combiner) SortingDefaults() types.SortingWeights { return c.sortDefaults }

// NormalizeMatch scales the weights so they sum to 1. A tuple with a zero sum, or any
// negative or non-finite weight, is replaced by the default set; substituted reports that.
func (c Combiner) NormalizeMatch(w types.MatchWeights) (normalized types.MatchWeights, substituted bool) {
	if n, ok := normalizeMatch(w); ok {
		return n, false
	}
	return c.matchDefaults, true
}

// NormalizeSorting scales the weights so they sum to 1, with the same substitution rules as NormalizeMatch.
func (c Combiner) NormalizeSorting(w types.SortingWeights) (normalized types.SortingWeights, substituted bool) {
	if n, ok := normalizeSorting(w); ok {
		return n, false
	}
	return c.sortDefaults, true
}

// Composite returns the weighted composite of the sub-scores, rounded to 2 decimals.
func (c Combiner) Composite(w types.MatchWeights, s types.SubScores) float64 {
	n, _ := c.NormalizeMatch(w)
	total := n.Skill*s.Skill + n.Experience*s.Experience + n.Education*s.Education + n.Location*s.Location
	return RoundScore(total)
}

// SortingFactors are the five factor scores used by generic pool sorting, each 0-100.
type SortingFactors struct {
	Skill      float64
	Experience float64
	Education  float64
	Recency    float64
	Location   float64
}

// SortingComposite returns the weighted composite of the sorting factors, rounded to 2 decimals.
func (c Combiner) SortingComposite(w types.SortingWeights, f SortingFactors) float64 {
	n, _ := c.NormalizeSorting(w)
	total := n.Skill*f.Skill + n.Experience*f.Experience + n.Education*f.Education +
		n.Recency*f.Recency + n.Location*f.Location
	return RoundScore(total)
}

// RoundScore clamps a score to [0, 100] and rounds it to 2 decimal places.
func RoundScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		v = 100
	}
	return math.Round(v*100) / 100
}

func normalizeMatch(w types.MatchWeights) (types.MatchWeights, bool) {
	sum, ok := weightSum(w.Skill, w.Experience, w.Education, w.Location)
	if !ok {
		return types.MatchWeights{}, false
	}
	return types.MatchWeights{
		Skill:      w.Skill / sum,
		Experience: w.Experience / sum,
		Education:  w.Education / sum,
		Location:   w.Location / sum,
	}, true
}

func normalizeSorting(w types.SortingWeights) (types.SortingWeights, bool) {
	sum, ok := weightSum(w.Skill, w.Experience, w.Education, w.Recency, w.Location)
	if !ok {
		return types.SortingWeights{}, false
	}
	return types.SortingWeights{
		Skill:      w.Skill / sum,
		Experience: w.Experience / sum,
		Education:  w.Education / sum,
		Recency:    w.Recency / sum,
		Location:   w.Location / sum,
	}, true
}

func weightSum(weights ...float64) (float64, bool) {
	sum := 0.0
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, false
		}
		sum += w
	}
	if sum <= 0 || math.IsInf(sum, 0) {
		return 0, false
	}
	return sum, true
}
