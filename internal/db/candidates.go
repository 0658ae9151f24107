package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

const candidateColumns = `id, name, total_experience_years, education_level, location, status, tags, updated_at`

func scanProfile(row pgx.Row) (types.CandidateProfile, error) {
	var p types.CandidateProfile
	var status string
	var updatedAt *time.Time
	err := row.Scan(&p.ID, &p.Name, &p.TotalExperienceYears, &p.EducationLevel, &p.Location, &status, &p.Tags, &updatedAt)
	if err != nil {
		return p, err
	}
	p.Status = types.CandidateStatus(status)
	if updatedAt != nil {
		utc := updatedAt.UTC()
		p.UpdatedAt = &utc
	}
	return p, nil
}

// GetCandidate retrieves a candidate with skills, languages and certifications
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	candidates := []types.Candidate{{CandidateProfile: p}}
	if err := db.loadCandidateDetails(ctx, candidates); err != nil {
		return nil, err
	}
	return &candidates[0], nil
}

// ListEligibleCandidates returns every candidate whose status is not excluded, ordered by id.
// The job id is accepted for interface compatibility; eligibility does not depend on it.
func (db *DB) ListEligibleCandidates(ctx context.Context, _ uuid.UUID, excluded []types.CandidateStatus) ([]types.Candidate, error) {
	statuses := make([]string, 0, len(excluded))
	for _, s := range excluded {
		statuses = append(statuses, string(s))
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE NOT (status = ANY($1))
		 ORDER BY id`,
		statuses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, types.Candidate{CandidateProfile: p})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}

	if err := db.loadCandidateDetails(ctx, candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// loadCandidateDetails fills skills, languages and certifications with one query each.
func (db *DB) loadCandidateDetails(ctx context.Context, candidates []types.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(candidates))
	index := make(map[uuid.UUID]int, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID
		index[candidates[i].ID] = i
	}

	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, skill_id, skill_name, proficiency, years_experience, source, verified
		 FROM candidate_skills WHERE candidate_id = ANY($1)
		 ORDER BY candidate_id, skill_name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load candidate skills: %w", err)
	}
	for rows.Next() {
		var candidateID uuid.UUID
		var s types.SkillRecord
		var proficiency, source string
		if err := rows.Scan(&candidateID, &s.SkillID, &s.SkillName, &proficiency, &s.YearsExperience, &source, &s.Verified); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan candidate skill: %w", err)
		}
		s.Proficiency = types.Proficiency(proficiency)
		s.Source = types.SkillSource(source)
		c := &candidates[index[candidateID]]
		c.Skills = append(c.Skills, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating candidate skills: %w", err)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT candidate_id, language, proficiency
		 FROM candidate_languages WHERE candidate_id = ANY($1)
		 ORDER BY candidate_id, language`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load candidate languages: %w", err)
	}
	for rows.Next() {
		var candidateID uuid.UUID
		var l types.CandidateLanguage
		if err := rows.Scan(&candidateID, &l.Language, &l.Proficiency); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan candidate language: %w", err)
		}
		c := &candidates[index[candidateID]]
		c.Languages = append(c.Languages, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating candidate languages: %w", err)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT candidate_id, name, issuer
		 FROM candidate_certifications WHERE candidate_id = ANY($1)
		 ORDER BY candidate_id, name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load candidate certifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var candidateID uuid.UUID
		var cert types.Certification
		if err := rows.Scan(&candidateID, &cert.Name, &cert.Issuer); err != nil {
			return fmt.Errorf("failed to scan candidate certification: %w", err)
		}
		c := &candidates[index[candidateID]]
		c.Certifications = append(c.Certifications, cert)
	}
	return rows.Err()
}

// UpsertCandidate inserts or replaces a candidate and its dependent records in one transaction.
// A nil UpdatedAt is stored as the current time.
func (db *DB) UpsertCandidate(ctx context.Context, c *types.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = types.CandidateStatusNew
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO candidates (id, name, total_experience_years, education_level, location, status, tags, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   total_experience_years = EXCLUDED.total_experience_years,
		   education_level = EXCLUDED.education_level,
		   location = EXCLUDED.location,
		   status = EXCLUDED.status,
		   tags = EXCLUDED.tags,
		   updated_at = EXCLUDED.updated_at`,
		c.ID, c.Name, c.TotalExperienceYears, c.EducationLevel, c.Location, string(c.Status), tags, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}

	for _, table := range []string{"candidate_skills", "candidate_languages", "candidate_certifications"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE candidate_id = $1`, c.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, s := range c.Skills {
		skillID := s.SkillID
		if skillID == uuid.Nil {
			skillID = uuid.New()
		}
		source := s.Source
		if source == "" {
			source = types.SkillSourceManual
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO candidate_skills (candidate_id, skill_id, skill_name, proficiency, years_experience, source, verified)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (candidate_id, skill_id) DO NOTHING`,
			c.ID, skillID, s.SkillName, string(s.Proficiency), s.YearsExperience, string(source), s.Verified,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candidate skill %s: %w", s.SkillName, err)
		}
	}
	for _, l := range c.Languages {
		_, err := tx.Exec(ctx,
			`INSERT INTO candidate_languages (candidate_id, language, proficiency)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (candidate_id, language) DO UPDATE SET proficiency = EXCLUDED.proficiency`,
			c.ID, l.Language, l.Proficiency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candidate language %s: %w", l.Language, err)
		}
	}
	for _, cert := range c.Certifications {
		_, err := tx.Exec(ctx,
			`INSERT INTO candidate_certifications (candidate_id, name, issuer) VALUES ($1, $2, $3)`,
			c.ID, cert.Name, cert.Issuer,
		)
		if err != nil {
			return fmt.Errorf("failed to insert certification %s: %w", cert.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit candidate: %w", err)
	}
	return nil
}

// UpdateCandidateStatus sets the lifecycle status. Returns false if the candidate does not exist.
func (db *DB) UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status types.CandidateStatus) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update candidate status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
