package analytics

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// GapThreshold is the coverage below which a job skill is reported as a gap
const GapThreshold = 0.5

// SkillCoverage is the share of a candidate pool holding one job skill.
type SkillCoverage struct {
	SkillID   string  `json:"skill_id"`
	SkillName string  `json:"skill_name"`
	Required  bool    `json:"required"`
	Holders   int     `json:"holders"`
	PoolSize  int     `json:"pool_size"`
	Coverage  float64 `json:"coverage"`
	Gap       bool    `json:"gap"`
}

// SkillGapReport lists coverage for every job skill and the subset below the gap threshold.
type SkillGapReport struct {
	PoolSize int             `json:"pool_size"`
	Skills   []SkillCoverage `json:"skills"`
	Gaps     []SkillCoverage `json:"gaps"`
}

// SkillGaps computes, for each job skill, the fraction of candidates holding it.
// A skill is a gap when its coverage is below GapThreshold. Candidates are matched
// by skill id, falling back to a case-insensitive name. An empty pool makes every skill a gap.
// Results are ordered by coverage ascending, then by name.
func SkillGaps(required []types.RequiredSkillRecord, candidates []types.Candidate) SkillGapReport {
	report := SkillGapReport{
		PoolSize: len(candidates),
		Skills:   make([]SkillCoverage, 0, len(required)),
		Gaps:     []SkillCoverage{},
	}

	for _, req := range required {
		holders := 0
		for i := range candidates {
			if holds(&candidates[i], req) {
				holders++
			}
		}

		coverage := 0.0
		if len(candidates) > 0 {
			coverage = float64(holders) / float64(len(candidates))
		}

		report.Skills = append(report.Skills, SkillCoverage{
			SkillID:   req.SkillID.String(),
			SkillName: req.SkillName,
			Required:  req.Required,
			Holders:   holders,
			PoolSize:  len(candidates),
			Coverage:  coverage,
			Gap:       coverage < GapThreshold,
		})
	}

	sort.SliceStable(report.Skills, func(i, j int) bool {
		if report.Skills[i].Coverage != report.Skills[j].Coverage {
			return report.Skills[i].Coverage < report.Skills[j].Coverage
		}
		return strings.ToLower(report.Skills[i].SkillName) < strings.ToLower(report.Skills[j].SkillName)
	})

	for _, s := range report.Skills {
		if s.Gap {
			report.Gaps = append(report.Gaps, s)
		}
	}
	return report
}

func holds(c *types.Candidate, req types.RequiredSkillRecord) bool {
	if req.SkillID != uuid.Nil && c.HasSkill(req.SkillID) {
		return true
	}
	name := strings.ToLower(strings.TrimSpace(req.SkillName))
	if name == "" {
		return false
	}
	for _, s := range c.Skills {
		if strings.ToLower(strings.TrimSpace(s.SkillName)) == name {
			return true
		}
	}
	return false
}
