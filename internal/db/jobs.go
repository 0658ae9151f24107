package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

// GetJob retrieves a job's requirements by id
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.JobRequirement, error) {
	var j types.JobRequirement
	var locationType string
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, min_experience_years, preferred_experience_years, required_education,
		        location, location_type, skill_weight, experience_weight, education_weight, location_weight
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Title, &j.MinExperienceYears, &j.PreferredExperienceYears, &j.RequiredEducation,
		&j.Location, &locationType, &j.SkillWeight, &j.ExperienceWeight, &j.EducationWeight, &j.LocationWeight)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	j.LocationType = types.ParseLocationType(locationType)
	return &j, nil
}

// ListRequiredSkills returns the skill requirements of a job, required ones first
func (db *DB) ListRequiredSkills(ctx context.Context, jobID uuid.UUID) ([]types.RequiredSkillRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, skill_name, required, min_proficiency, weight
		 FROM job_skills WHERE job_id = $1
		 ORDER BY required DESC, skill_name`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job skills: %w", err)
	}
	defer rows.Close()

	var skills []types.RequiredSkillRecord
	for rows.Next() {
		var s types.RequiredSkillRecord
		var minProficiency string
		if err := rows.Scan(&s.SkillID, &s.SkillName, &s.Required, &minProficiency, &s.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan job skill: %w", err)
		}
		s.MinProficiency = types.Proficiency(minProficiency)
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job skills: %w", err)
	}
	return skills, nil
}

// UpsertJob inserts or replaces a job together with its skill requirements
func (db *DB) UpsertJob(ctx context.Context, job *types.JobRequirement, skills []types.RequiredSkillRecord) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	locationType := job.LocationType
	if locationType == "" {
		locationType = types.LocationOnsite
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO jobs (id, title, min_experience_years, preferred_experience_years, required_education,
		                   location, location_type, skill_weight, experience_weight, education_weight, location_weight)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title,
		   min_experience_years = EXCLUDED.min_experience_years,
		   preferred_experience_years = EXCLUDED.preferred_experience_years,
		   required_education = EXCLUDED.required_education,
		   location = EXCLUDED.location,
		   location_type = EXCLUDED.location_type,
		   skill_weight = EXCLUDED.skill_weight,
		   experience_weight = EXCLUDED.experience_weight,
		   education_weight = EXCLUDED.education_weight,
		   location_weight = EXCLUDED.location_weight,
		   updated_at = NOW()`,
		job.ID, job.Title, job.MinExperienceYears, job.PreferredExperienceYears, job.RequiredEducation,
		job.Location, string(locationType), job.SkillWeight, job.ExperienceWeight, job.EducationWeight, job.LocationWeight,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM job_skills WHERE job_id = $1`, job.ID); err != nil {
		return fmt.Errorf("failed to clear job skills: %w", err)
	}
	for _, s := range skills {
		skillID := s.SkillID
		if skillID == uuid.Nil {
			skillID = uuid.New()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id, skill_name, required, min_proficiency, weight)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (job_id, skill_id) DO NOTHING`,
			job.ID, skillID, s.SkillName, s.Required, string(s.MinProficiency), s.BaseWeight(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert job skill %s: %w", s.SkillName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit job: %w", err)
	}
	return nil
}
