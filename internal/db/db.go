// Package db provides PostgreSQL storage for candidates, jobs and match results.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables and indexes if they do not exist. It is safe to run repeatedly.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL DEFAULT '',
		total_experience_years DOUBLE PRECISION NOT NULL DEFAULT 0,
		education_level TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'new',
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_skills (
		candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		skill_id UUID NOT NULL,
		skill_name TEXT NOT NULL DEFAULT '',
		proficiency TEXT NOT NULL DEFAULT '',
		years_experience DOUBLE PRECISION NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'manual',
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (candidate_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_languages (
		candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		language TEXT NOT NULL,
		proficiency TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (candidate_id, language)
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_certifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		issuer TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL DEFAULT '',
		min_experience_years DOUBLE PRECISION NOT NULL DEFAULT 0,
		preferred_experience_years DOUBLE PRECISION,
		required_education TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		location_type TEXT NOT NULL DEFAULT 'onsite',
		skill_weight DOUBLE PRECISION NOT NULL DEFAULT 0.4,
		experience_weight DOUBLE PRECISION NOT NULL DEFAULT 0.3,
		education_weight DOUBLE PRECISION NOT NULL DEFAULT 0.2,
		location_weight DOUBLE PRECISION NOT NULL DEFAULT 0.1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS job_skills (
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		skill_id UUID NOT NULL,
		skill_name TEXT NOT NULL DEFAULT '',
		required BOOLEAN NOT NULL DEFAULT TRUE,
		min_proficiency TEXT NOT NULL DEFAULT '',
		weight DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		PRIMARY KEY (job_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS match_results (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		skill_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		experience_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		education_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		location_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		breakdown JSONB NOT NULL DEFAULT '{}',
		rank INTEGER NOT NULL DEFAULT 0,
		review_status TEXT NOT NULL DEFAULT 'pending',
		reviewed_by TEXT NOT NULL DEFAULT '',
		reviewed_at TIMESTAMPTZ,
		review_notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (candidate_id, job_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_results_job_rank ON match_results (job_id, rank)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates (status)`,
}
