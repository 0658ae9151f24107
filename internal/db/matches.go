package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/explain"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

var _ matching.Repository = (*DB)(nil)

// -----------------------------------------------------------------------------
// Match Result Methods
// -----------------------------------------------------------------------------

const matchColumns = `id, candidate_id, job_id, skill_score, experience_score, education_score, location_score,
	overall_score, breakdown, rank, review_status, reviewed_by, reviewed_at, review_notes, created_at, updated_at`

// scanMatch reads one match_results row. Breakdowns written by older versions are
// decoded leniently.
func scanMatch(row pgx.Row) (*types.MatchResult, error) {
	var m types.MatchResult
	var breakdown []byte
	var reviewStatus string
	err := row.Scan(&m.ID, &m.CandidateID, &m.JobID, &m.SkillScore, &m.ExperienceScore, &m.EducationScore,
		&m.LocationScore, &m.OverallScore, &breakdown, &m.Rank, &reviewStatus, &m.ReviewedBy, &m.ReviewedAt,
		&m.ReviewNotes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.ReviewStatus = types.ReviewStatus(reviewStatus)

	if len(breakdown) > 0 {
		b, err := explain.DecodeBreakdown(breakdown)
		if err != nil {
			return nil, fmt.Errorf("failed to decode breakdown of match %s: %w", m.ID, err)
		}
		m.Breakdown = b
	}
	return &m, nil
}

// GetMatch retrieves a match result by id
func (db *DB) GetMatch(ctx context.Context, id uuid.UUID) (*types.MatchResult, error) {
	m, err := scanMatch(db.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM match_results WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

// GetMatchByPair retrieves the match of a candidate for a job
func (db *DB) GetMatchByPair(ctx context.Context, candidateID, jobID uuid.UUID) (*types.MatchResult, error) {
	m, err := scanMatch(db.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM match_results WHERE candidate_id = $1 AND job_id = $2`,
		candidateID, jobID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

// ListMatchesByJob returns all matches of a job ordered by rank
func (db *DB) ListMatchesByJob(ctx context.Context, jobID uuid.UUID) ([]types.MatchResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+matchColumns+` FROM match_results WHERE job_id = $1 ORDER BY rank, candidate_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []types.MatchResult
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return matches, nil
}

// UpsertMatch inserts or updates the match for (candidate, job). Review fields of an
// existing row are kept; the stored id, review fields and timestamps are written back to m.
func (db *DB) UpsertMatch(ctx context.Context, m *types.MatchResult) error {
	breakdown, err := json.Marshal(m.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	var reviewStatus string
	err = db.pool.QueryRow(ctx,
		`INSERT INTO match_results (candidate_id, job_id, skill_score, experience_score, education_score,
		                            location_score, overall_score, breakdown, rank)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
		   skill_score = EXCLUDED.skill_score,
		   experience_score = EXCLUDED.experience_score,
		   education_score = EXCLUDED.education_score,
		   location_score = EXCLUDED.location_score,
		   overall_score = EXCLUDED.overall_score,
		   breakdown = EXCLUDED.breakdown,
		   rank = EXCLUDED.rank,
		   updated_at = NOW()
		 RETURNING id, review_status, reviewed_by, reviewed_at, review_notes, created_at, updated_at`,
		m.CandidateID, m.JobID, m.SkillScore, m.ExperienceScore, m.EducationScore,
		m.LocationScore, m.OverallScore, breakdown, m.Rank,
	).Scan(&m.ID, &reviewStatus, &m.ReviewedBy, &m.ReviewedAt, &m.ReviewNotes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	m.ReviewStatus = types.ReviewStatus(reviewStatus)
	return nil
}

// UpdateReview records a review decision. Returns nil if the match does not exist.
func (db *DB) UpdateReview(ctx context.Context, id uuid.UUID, status types.ReviewStatus, reviewer, notes string, at time.Time) (*types.MatchResult, error) {
	m, err := scanMatch(db.pool.QueryRow(ctx,
		`UPDATE match_results
		 SET review_status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+matchColumns,
		id, string(status), reviewer, notes, at,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return m, nil
}
