// Package types provides type definitions for structured data used throughout the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MatchRunRequest represents the request to calculate matches for one job.
type MatchRunRequest struct {
	Weights  *MatchWeights   `json:"weights,omitempty"`
	MinScore *float64        `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Filter   *FilterCriteria `json:"filter,omitempty"`
}

// BatchMatchRequest represents the request to calculate matches for many jobs.
type BatchMatchRequest struct {
	JobIDs   []uuid.UUID   `json:"job_ids" validate:"required,min=1"`
	Weights  *MatchWeights `json:"weights,omitempty"`
	MinScore *float64      `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// ReviewRequest represents a reviewer decision on a single match.
type ReviewRequest struct {
	Status     ReviewStatus `json:"status" validate:"required,oneof=pending shortlisted rejected reviewed"`
	ReviewedBy string       `json:"reviewed_by" validate:"required,min=1"`
	Notes      string       `json:"notes,omitempty" validate:"max=2000"`
}

// BulkReviewRequest represents the same reviewer decision applied to many matches.
type BulkReviewRequest struct {
	MatchIDs   []uuid.UUID  `json:"match_ids" validate:"required,min=1"`
	Status     ReviewStatus `json:"status" validate:"required,oneof=pending shortlisted rejected reviewed"`
	ReviewedBy string       `json:"reviewed_by" validate:"required,min=1"`
}

// BulkStatusRequest represents a lifecycle status change for many candidates.
type BulkStatusRequest struct {
	CandidateIDs []uuid.UUID     `json:"candidate_ids" validate:"required,min=1"`
	Status       CandidateStatus `json:"status" validate:"required,oneof=new screening interviewing offered hired rejected withdrawn archived"`
}

// SearchRequest represents a filtered, sorted candidate search.
type SearchRequest struct {
	Criteria       FilterCriteria  `json:"criteria"`
	Weights        *SortingWeights `json:"weights,omitempty"`
	TargetLocation string          `json:"target_location,omitempty"`
	Limit          int             `json:"limit,omitempty" validate:"omitempty,gte=1,lte=500"`
}

// Validate validates the MatchRunRequest using the validator.
func (r *MatchRunRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Filter != nil {
		return r.Filter.Validate()
	}
	return nil
}

// Validate validates the BatchMatchRequest using the validator.
func (r *BatchMatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ReviewRequest using the validator.
func (r *ReviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BulkReviewRequest using the validator.
func (r *BulkReviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BulkStatusRequest using the validator.
func (r *BulkStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SearchRequest using the validator.
func (r *SearchRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.Criteria.Validate()
}
