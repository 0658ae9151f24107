// Package explain turns stored match results into human-readable explanations.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/ranking"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Tip thresholds
const (
	skillTipBelow      = 70.0
	experienceTipBelow = 70.0
	educationTipBelow  = 70.0
	locationTipBelow   = 50.0
)

// Strength bands
const (
	StrengthStrong   = "strong"
	StrengthGood     = "good"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
)

// Factor is one weighted component of the composite score
type Factor struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Explanation describes why a match received its score.
type Explanation struct {
	Found                 bool      `json:"found"`
	MatchID               uuid.UUID `json:"match_id"`
	CandidateID           uuid.UUID `json:"candidate_id,omitempty"`
	JobID                 uuid.UUID `json:"job_id,omitempty"`
	OverallScore          float64   `json:"overall_score"`
	Rank                  int       `json:"rank,omitempty"`
	Strength              string    `json:"strength,omitempty"`
	Summary               string    `json:"summary"`
	Factors               []Factor  `json:"factors,omitempty"`
	MatchedRequiredSkills int       `json:"matched_required_skills"`
	MissingRequiredSkills int       `json:"missing_required_skills"`
	MissingSkillNames     []string  `json:"missing_skill_names,omitempty"`
	Tips                  []string  `json:"tips,omitempty"`
}

// MatchSource loads a stored match. A missing match is (nil, nil).
type MatchSource interface {
	GetMatch(ctx context.Context, id uuid.UUID) (*types.MatchResult, error)
}

// Reporter builds explanations for stored matches
type Reporter struct {
	source   MatchSource
	combiner ranking.Combiner
}

// NewReporter creates a Reporter reading from source
func NewReporter(source MatchSource, combiner ranking.Combiner) *Reporter {
	return &Reporter{source: source, combiner: combiner}
}

// Explain loads a match and explains it. A missing match yields an explanation with
// Found false rather than an error; only a failing source returns an error.
func (r *Reporter) Explain(ctx context.Context, matchID uuid.UUID) (*Explanation, error) {
	m, err := r.source.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	if m == nil {
		return &Explanation{Found: false, MatchID: matchID, Summary: "match not found"}, nil
	}
	return Build(m, r.combiner), nil
}

// Build explains a match. Weights come from the breakdown; a breakdown without
// usable weights falls back to the combiner's defaults.
func Build(m *types.MatchResult, combiner ranking.Combiner) *Explanation {
	weights, _ := combiner.NormalizeMatch(m.Breakdown.Weights)
	details := m.Breakdown.SkillDetails

	exp := &Explanation{
		Found:                 true,
		MatchID:               m.ID,
		CandidateID:           m.CandidateID,
		JobID:                 m.JobID,
		OverallScore:          m.OverallScore,
		Rank:                  m.Rank,
		Strength:              Strength(m.OverallScore),
		MatchedRequiredSkills: details.RequiredMatched,
		MissingRequiredSkills: max(0, details.RequiredTotal-details.RequiredMatched),
		Factors: []Factor{
			factor("skill", m.SkillScore, weights.Skill),
			factor("experience", m.ExperienceScore, weights.Experience),
			factor("education", m.EducationScore, weights.Education),
			factor("location", m.LocationScore, weights.Location),
		},
	}
	for _, miss := range details.Missing {
		if miss.Required {
			exp.MissingSkillNames = append(exp.MissingSkillNames, skillLabel(miss))
		}
	}

	exp.Tips = tips(m, exp.MissingSkillNames)
	exp.Summary = summary(exp)
	return exp
}

// Strength maps a composite score to its band
func Strength(score float64) string {
	switch {
	case score >= 80:
		return StrengthStrong
	case score >= 60:
		return StrengthGood
	case score >= 40:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func factor(name string, score, weight float64) Factor {
	return Factor{
		Name:         name,
		Score:        score,
		Weight:       weight,
		Contribution: ranking.RoundScore(score * weight),
	}
}

func skillLabel(miss types.SkillMissDetail) string {
	if miss.SkillName != "" {
		return miss.SkillName
	}
	return miss.SkillID.String()
}

func tips(m *types.MatchResult, missingRequired []string) []string {
	var out []string
	if m.SkillScore < skillTipBelow {
		if len(missingRequired) > 0 {
			out = append(out, fmt.Sprintf("Skill gap: missing required skills %s", strings.Join(missingRequired, ", ")))
		} else {
			out = append(out, "Skill gap: held skills are below the required proficiency")
		}
	}
	if m.ExperienceScore < experienceTipBelow {
		ed := m.Breakdown.ExperienceDetails
		out = append(out, fmt.Sprintf("Experience: %.1f years against a minimum of %.1f", ed.CandidateYears, ed.MinYears))
	}
	if m.EducationScore < educationTipBelow {
		out = append(out, fmt.Sprintf("Education: %q is below the required %q",
			m.Breakdown.EducationDetails.CandidateLevel, m.Breakdown.EducationDetails.RequiredLevel))
	}
	if m.LocationScore < locationTipBelow {
		out = append(out, fmt.Sprintf("Location: %q does not match the job location %q",
			m.Breakdown.LocationDetails.CandidateLocation, m.Breakdown.LocationDetails.JobLocation))
	}
	return out
}

func summary(e *Explanation) string {
	s := fmt.Sprintf("%s match with an overall score of %.2f", capitalize(e.Strength), e.OverallScore)
	total := e.MatchedRequiredSkills + e.MissingRequiredSkills
	if total > 0 {
		s += fmt.Sprintf("; %d of %d required skills matched", e.MatchedRequiredSkills, total)
	}
	return s + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
