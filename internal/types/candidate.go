// Package types provides type definitions for structured data used throughout the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Proficiency is an ordinal skill level: beginner < intermediate < advanced < expert.
type Proficiency string

// Proficiency levels
const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

var proficiencyLevel = map[Proficiency]int{
	ProficiencyBeginner:     1,
	ProficiencyIntermediate: 2,
	ProficiencyAdvanced:     3,
	ProficiencyExpert:       4,
}

// Level returns the ordinal value of the proficiency.
// Empty or unknown values count as intermediate.
func (p Proficiency) Level() int {
	if lvl, ok := proficiencyLevel[Proficiency(strings.ToLower(strings.TrimSpace(string(p))))]; ok {
		return lvl
	}
	return proficiencyLevel[ProficiencyIntermediate]
}

// SkillSource records where a candidate skill came from
type SkillSource string

// Skill sources
const (
	SkillSourceManual    SkillSource = "manual"
	SkillSourceInferred  SkillSource = "inferred"
	SkillSourceExtracted SkillSource = "extracted"
)

// CandidateStatus is the lifecycle status of a candidate
type CandidateStatus string

// Candidate lifecycle statuses
const (
	CandidateStatusNew          CandidateStatus = "new"
	CandidateStatusScreening    CandidateStatus = "screening"
	CandidateStatusInterviewing CandidateStatus = "interviewing"
	CandidateStatusOffered      CandidateStatus = "offered"
	CandidateStatusHired        CandidateStatus = "hired"
	CandidateStatusRejected     CandidateStatus = "rejected"
	CandidateStatusWithdrawn    CandidateStatus = "withdrawn"
	CandidateStatusArchived     CandidateStatus = "archived"
)

// TerminalStatuses are excluded from job matching unless the caller overrides them.
var TerminalStatuses = []CandidateStatus{
	CandidateStatusHired,
	CandidateStatusRejected,
	CandidateStatusWithdrawn,
	CandidateStatusArchived,
}

// CandidateProfile is the scoring snapshot of a candidate record.
type CandidateProfile struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name,omitempty"`
	TotalExperienceYears float64         `json:"total_experience_years"`
	EducationLevel       string          `json:"education_level,omitempty"`
	Location             string          `json:"location,omitempty"`
	Status               CandidateStatus `json:"status,omitempty"`
	Tags                 []string        `json:"tags,omitempty"`
	UpdatedAt            *time.Time      `json:"updated_at,omitempty"`
}

// SkillRecord is a skill held by a candidate
type SkillRecord struct {
	SkillID         uuid.UUID   `json:"skill_id"`
	SkillName       string      `json:"skill_name,omitempty"`
	Proficiency     Proficiency `json:"proficiency,omitempty"`
	YearsExperience float64     `json:"years_experience,omitempty"`
	Source          SkillSource `json:"source,omitempty"`
	Verified        bool        `json:"verified,omitempty"`
}

// CandidateLanguage is a spoken language held by a candidate
type CandidateLanguage struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Certification is a certification held by a candidate
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
}

// Candidate is a profile with its dependent skill, language and certification sets resolved.
type Candidate struct {
	CandidateProfile
	Skills         []SkillRecord       `json:"skills,omitempty"`
	Languages      []CandidateLanguage `json:"languages,omitempty"`
	Certifications []Certification     `json:"certifications,omitempty"`
}

// HasSkill reports whether the candidate holds the skill with the given id.
func (c *Candidate) HasSkill(id uuid.UUID) bool {
	for _, s := range c.Skills {
		if s.SkillID == id {
			return true
		}
	}
	return false
}

// VerifiedSkillCount returns the number of verified skills
func (c *Candidate) VerifiedSkillCount() int {
	n := 0
	for _, s := range c.Skills {
		if s.Verified {
			n++
		}
	}
	return n
}
