// Package matching orchestrates matching runs: it loads a job and its candidate pool,
// filters, scores and ranks them, persists the matches and emits events.
package matching

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// ErrNotFound is returned when a job, match or candidate does not exist
var ErrNotFound = errors.New("not found")

// Repository is the storage behind the orchestrator. Lookups of a single record
// return (nil, nil) when the record does not exist.
type Repository interface {
	GetJob(ctx context.Context, id uuid.UUID) (*types.JobRequirement, error)
	ListRequiredSkills(ctx context.Context, jobID uuid.UUID) ([]types.RequiredSkillRecord, error)
	// ListEligibleCandidates returns every candidate whose status is not in excluded,
	// with skills, languages and certifications resolved.
	ListEligibleCandidates(ctx context.Context, jobID uuid.UUID, excluded []types.CandidateStatus) ([]types.Candidate, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)

	GetMatch(ctx context.Context, id uuid.UUID) (*types.MatchResult, error)
	GetMatchByPair(ctx context.Context, candidateID, jobID uuid.UUID) (*types.MatchResult, error)
	// ListMatchesByJob returns a job's matches ordered by rank
	ListMatchesByJob(ctx context.Context, jobID uuid.UUID) ([]types.MatchResult, error)
	// UpsertMatch inserts or updates the match for (CandidateID, JobID) atomically.
	// It sets ID, CreatedAt and UpdatedAt on m and keeps existing review fields.
	UpsertMatch(ctx context.Context, m *types.MatchResult) error
	UpdateReview(ctx context.Context, id uuid.UUID, status types.ReviewStatus, reviewer, notes string, at time.Time) (*types.MatchResult, error)
	// UpdateCandidateStatus reports false when the candidate does not exist
	UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status types.CandidateStatus) (bool, error)
}
