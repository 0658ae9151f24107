// Package scoring computes the skill, experience, education and location sub-scores
// of a candidate against a job requirement. Every function is pure and returns a value in [0, 100].
package scoring

import (
	"strings"

	"github.com/google/uuid"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Skill weighting factors
const (
	requiredSkillFactor     = 2.0
	exactOrAboveMultiplier  = 1.0
	oneLevelBelowMultiplier = 0.7
	farBelowMultiplier      = 0.4
	optionalMissCredit      = 0.2
)

// SkillScore scores a candidate's skills against the job's required skill set.
// Returns the score (0-100) and per-skill details for the breakdown.
func SkillScore(skills []types.SkillRecord, required []types.RequiredSkillRecord) (float64, types.SkillDetails) {
	details := types.SkillDetails{
		Matched: []types.SkillMatchDetail{},
		Missing: []types.SkillMissDetail{},
	}
	if len(required) == 0 {
		return 100, details
	}

	// Index candidate skills by id, with a name fallback for records without one
	byID := make(map[uuid.UUID]types.SkillRecord, len(skills))
	byName := make(map[string]types.SkillRecord, len(skills))
	for _, s := range skills {
		if s.SkillID != uuid.Nil {
			byID[s.SkillID] = s
		}
		if name := normalizeName(s.SkillName); name != "" {
			byName[name] = s
		}
	}

	totalWeight := 0.0
	matchedWeight := 0.0
	for _, req := range required {
		weight := req.BaseWeight()
		if req.Required {
			weight *= requiredSkillFactor
			details.RequiredTotal++
		}
		totalWeight += weight

		held, ok := lookupSkill(req, byID, byName)
		if !ok {
			if !req.Required {
				matchedWeight += weight * optionalMissCredit
			}
			details.Missing = append(details.Missing, types.SkillMissDetail{
				SkillID:   req.SkillID,
				SkillName: req.SkillName,
				Required:  req.Required,
			})
			continue
		}

		multiplier := ProficiencyMultiplier(held.Proficiency, req.MinProficiency)
		contribution := weight * multiplier
		matchedWeight += contribution
		if req.Required {
			details.RequiredMatched++
		}
		details.Matched = append(details.Matched, types.SkillMatchDetail{
			SkillID:              req.SkillID,
			SkillName:            req.SkillName,
			Required:             req.Required,
			CandidateProficiency: held.Proficiency,
			RequiredProficiency:  req.MinProficiency,
			Multiplier:           multiplier,
			Contribution:         contribution,
		})
	}

	details.TotalWeight = totalWeight
	details.MatchedWeight = matchedWeight

	if totalWeight <= 0 {
		return 100, details
	}
	return clamp(100 * matchedWeight / totalWeight), details
}

// ProficiencyMultiplier returns 1.0 when the candidate meets the required level,
// 0.7 when exactly one level below, and 0.4 otherwise.
func ProficiencyMultiplier(candidate, required types.Proficiency) float64 {
	gap := required.Level() - candidate.Level()
	switch {
	case gap <= 0:
		return exactOrAboveMultiplier
	case gap == 1:
		return oneLevelBelowMultiplier
	default:
		return farBelowMultiplier
	}
}

func lookupSkill(req types.RequiredSkillRecord, byID map[uuid.UUID]types.SkillRecord, byName map[string]types.SkillRecord) (types.SkillRecord, bool) {
	if req.SkillID != uuid.Nil {
		if s, ok := byID[req.SkillID]; ok {
			return s, true
		}
	}
	if name := normalizeName(req.SkillName); name != "" {
		s, ok := byName[name]
		return s, ok
	}
	return types.SkillRecord{}, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
