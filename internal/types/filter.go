// Package types provides type definitions for structured data used throughout the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SkillMatchMode controls how the skill predicate treats a list of skill ids
type SkillMatchMode string

// Skill match modes
const (
	SkillMatchAll SkillMatchMode = "all"
	SkillMatchAny SkillMatchMode = "any"
)

// FilterCriteria is a declarative set of candidate predicates.
// Every field is optional; an absent field always passes.
type FilterCriteria struct {
	SkillIDs              []uuid.UUID       `json:"skill_ids,omitempty"`
	SkillMatchMode        SkillMatchMode    `json:"skill_match_mode,omitempty" validate:"omitempty,oneof=all any"`
	MinExperience         *float64          `json:"min_experience,omitempty" validate:"omitempty,gte=0"`
	MaxExperience         *float64          `json:"max_experience,omitempty" validate:"omitempty,gte=0"`
	Locations             []string          `json:"locations,omitempty" validate:"omitempty,dive,required"`
	Statuses              []CandidateStatus `json:"statuses,omitempty"`
	MinScore              *float64          `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Languages             []string          `json:"languages,omitempty" validate:"omitempty,dive,required"`
	CertificationPatterns []string          `json:"certification_patterns,omitempty" validate:"omitempty,dive,required"`
	Tags                  []string          `json:"tags,omitempty" validate:"omitempty,dive,required"`
}

// Mode returns the skill match mode, defaulting to "all".
func (c *FilterCriteria) Mode() SkillMatchMode {
	if c.SkillMatchMode == SkillMatchAny {
		return SkillMatchAny
	}
	return SkillMatchAll
}

// IsEmpty reports whether no predicate is set
func (c *FilterCriteria) IsEmpty() bool {
	return len(c.SkillIDs) == 0 && c.MinExperience == nil && c.MaxExperience == nil &&
		len(c.Locations) == 0 && len(c.Statuses) == 0 && c.MinScore == nil &&
		len(c.Languages) == 0 && len(c.CertificationPatterns) == 0 && len(c.Tags) == 0
}

// Validate validates the criteria using the validator and cross-field bounds.
func (c *FilterCriteria) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.MinExperience != nil && c.MaxExperience != nil && *c.MinExperience > *c.MaxExperience {
		return fmt.Errorf("min_experience (%.1f) exceeds max_experience (%.1f)", *c.MinExperience, *c.MaxExperience)
	}
	return nil
}
