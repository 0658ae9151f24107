// Package types provides type definitions for structured data used throughout the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the human review state of a match
type ReviewStatus string

// Review statuses
const (
	ReviewPending     ReviewStatus = "pending"
	ReviewShortlisted ReviewStatus = "shortlisted"
	ReviewRejected    ReviewStatus = "rejected"
	ReviewReviewed    ReviewStatus = "reviewed"
)

// MatchWeights weights the four job-matching sub-scores
type MatchWeights struct {
	Skill      float64 `json:"skill" validate:"gte=0,lte=1"`
	Experience float64 `json:"experience" validate:"gte=0,lte=1"`
	Education  float64 `json:"education" validate:"gte=0,lte=1"`
	Location   float64 `json:"location" validate:"gte=0,lte=1"`
}

// SortingWeights weights the five generic pool-sorting factors
type SortingWeights struct {
	Skill      float64 `json:"skill" validate:"gte=0,lte=1"`
	Experience float64 `json:"experience" validate:"gte=0,lte=1"`
	Education  float64 `json:"education" validate:"gte=0,lte=1"`
	Recency    float64 `json:"recency" validate:"gte=0,lte=1"`
	Location   float64 `json:"location" validate:"gte=0,lte=1"`
}

// SubScores holds the four sub-scores of one candidate-job pair, each 0-100.
type SubScores struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Location   float64 `json:"location"`
}

// SkillMatchDetail describes a required skill the candidate holds
type SkillMatchDetail struct {
	SkillID              uuid.UUID   `json:"skill_id"`
	SkillName            string      `json:"skill_name,omitempty"`
	Required             bool        `json:"required"`
	CandidateProficiency Proficiency `json:"candidate_proficiency"`
	RequiredProficiency  Proficiency `json:"required_proficiency"`
	Multiplier           float64     `json:"multiplier"`
	Contribution         float64     `json:"contribution"`
}

// SkillMissDetail describes a job skill the candidate does not hold
type SkillMissDetail struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name,omitempty"`
	Required  bool      `json:"required"`
}

// SkillDetails is the per-skill part of a score breakdown
type SkillDetails struct {
	Matched         []SkillMatchDetail `json:"matched"`
	Missing         []SkillMissDetail  `json:"missing"`
	RequiredMatched int                `json:"required_matched"`
	RequiredTotal   int                `json:"required_total"`
	TotalWeight     float64            `json:"total_weight"`
	MatchedWeight   float64            `json:"matched_weight"`
}

// ExperienceDetails is the experience part of a score breakdown
type ExperienceDetails struct {
	CandidateYears float64 `json:"candidate_years"`
	MinYears       float64 `json:"min_years"`
	PreferredYears float64 `json:"preferred_years"`
}

// EducationDetails is the education part of a score breakdown
type EducationDetails struct {
	CandidateLevel string `json:"candidate_level,omitempty"`
	RequiredLevel  string `json:"required_level,omitempty"`
}

// LocationDetails is the location part of a score breakdown
type LocationDetails struct {
	CandidateLocation string       `json:"candidate_location,omitempty"`
	JobLocation       string       `json:"job_location,omitempty"`
	LocationType      LocationType `json:"location_type,omitempty"`
}

// ScoreBreakdown records the weights and per-factor details behind a match score.
type ScoreBreakdown struct {
	Weights           MatchWeights      `json:"weights"`
	SkillDetails      SkillDetails      `json:"skill_details"`
	ExperienceDetails ExperienceDetails `json:"experience_details"`
	EducationDetails  EducationDetails  `json:"education_details"`
	LocationDetails   LocationDetails   `json:"location_details"`
}

// MatchResult is the persisted score of one candidate against one job.
// At most one MatchResult exists per (CandidateID, JobID).
type MatchResult struct {
	ID              uuid.UUID      `json:"id"`
	CandidateID     uuid.UUID      `json:"candidate_id"`
	JobID           uuid.UUID      `json:"job_id"`
	SkillScore      float64        `json:"skill_score"`
	ExperienceScore float64        `json:"experience_score"`
	EducationScore  float64        `json:"education_score"`
	LocationScore   float64        `json:"location_score"`
	OverallScore    float64        `json:"overall_score"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Rank            int            `json:"rank"`
	ReviewStatus    ReviewStatus   `json:"review_status"`
	ReviewedBy      string         `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	ReviewNotes     string         `json:"review_notes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// SubScores returns the four sub-scores of the match
func (m *MatchResult) SubScores() SubScores {
	return SubScores{
		Skill:      m.SkillScore,
		Experience: m.ExperienceScore,
		Education:  m.EducationScore,
		Location:   m.LocationScore,
	}
}

// RankedCandidate is a candidate ordered by the generic pool-sorting score.
type RankedCandidate struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name,omitempty"`
	Score       float64   `json:"score"`
	Rank        int       `json:"rank"`
	Skill       float64   `json:"skill"`
	Experience  float64   `json:"experience"`
	Education   float64   `json:"education"`
	Recency     float64   `json:"recency"`
	Location    float64   `json:"location"`
}
