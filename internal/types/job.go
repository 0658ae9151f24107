// Package types provides type definitions for structured data used throughout the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/google/uuid"
)

// LocationType describes where a job is performed
type LocationType string

// Location types
const (
	LocationOnsite LocationType = "onsite"
	LocationHybrid LocationType = "hybrid"
	LocationRemote LocationType = "remote"
)

// ParseLocationType normalizes the common spellings of a location type.
// Unknown values are treated as on-site.
func ParseLocationType(s string) LocationType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote":
		return LocationRemote
	case "hybrid":
		return LocationHybrid
	default:
		return LocationOnsite
	}
}

// JobRequirement is the requirement record of a job opening
type JobRequirement struct {
	ID                       uuid.UUID    `json:"id"`
	Title                    string       `json:"title,omitempty"`
	MinExperienceYears       float64      `json:"min_experience_years"`
	PreferredExperienceYears *float64     `json:"preferred_experience_years,omitempty"`
	RequiredEducation        string       `json:"required_education,omitempty"`
	Location                 string       `json:"location,omitempty"`
	LocationType             LocationType `json:"location_type,omitempty"`
	SkillWeight              float64      `json:"skill_weight"`
	ExperienceWeight         float64      `json:"experience_weight"`
	EducationWeight          float64      `json:"education_weight"`
	LocationWeight           float64      `json:"location_weight"`
}

// Weights returns the weight tuple stored on the job record (not normalized).
func (j *JobRequirement) Weights() MatchWeights {
	return MatchWeights{
		Skill:      j.SkillWeight,
		Experience: j.ExperienceWeight,
		Education:  j.EducationWeight,
		Location:   j.LocationWeight,
	}
}

// RequiredSkillRecord is a skill requested by a job
type RequiredSkillRecord struct {
	SkillID        uuid.UUID   `json:"skill_id"`
	SkillName      string      `json:"skill_name,omitempty"`
	Required       bool        `json:"required"`
	MinProficiency Proficiency `json:"min_proficiency,omitempty"`
	Weight         float64     `json:"weight,omitempty"`
}

// BaseWeight returns the relative weight, defaulting to 1.0 when unset.
func (r *RequiredSkillRecord) BaseWeight() float64 {
	if r.Weight <= 0 {
		return 1.0
	}
	return r.Weight
}

// educationRank maps education levels to ordinal ranks
var educationRank = map[string]int{
	"high_school": 1,
	"highschool":  1,
	"high school": 1,
	"associate":   2,
	"associates":  2,
	"bachelor":    3,
	"bachelors":   3,
	"master":      4,
	"masters":     4,
	"doctorate":   5,
	"phd":         5,
}

// EducationRank returns the ordinal rank of an education level (1-5), or 0 if unknown or empty.
func EducationRank(level string) int {
	return educationRank[strings.ToLower(strings.TrimSpace(level))]
}
