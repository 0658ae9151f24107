// Package dataset reads the JSON document of jobs and candidates consumed by the CLI
// and loads it into a repository.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/schemas"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Job is a job requirement together with its skill requirements
type Job struct {
	types.JobRequirement
	Skills []types.RequiredSkillRecord `json:"skills,omitempty"`
}

// Dataset is the input document of the CLI
type Dataset struct {
	Jobs       []Job             `json:"jobs"`
	Candidates []types.Candidate `json:"candidates"`
}

// Writer persists jobs and candidates. *db.DB implements it.
type Writer interface {
	UpsertJob(ctx context.Context, job *types.JobRequirement, skills []types.RequiredSkillRecord) error
	UpsertCandidate(ctx context.Context, c *types.Candidate) error
}

// Load reads and validates a dataset file
func Load(path string) (*Dataset, error) {
	data, err := schemas.ValidateFile(schemas.Dataset, path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Parse validates and decodes a dataset document
func Parse(data []byte) (*Dataset, error) {
	if err := schemas.Validate(schemas.Dataset, data); err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*Dataset, error) {
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	for i := range d.Candidates {
		if d.Candidates[i].Status == "" {
			d.Candidates[i].Status = types.CandidateStatusNew
		}
	}
	return &d, nil
}

// Job returns the job with the given id
func (d *Dataset) Job(id string) (*Job, bool) {
	for i := range d.Jobs {
		if d.Jobs[i].ID.String() == id {
			return &d.Jobs[i], true
		}
	}
	return nil, false
}

// Memory returns an in-memory repository holding the dataset
func (d *Dataset) Memory() *matching.MemoryStore {
	store := matching.NewMemoryStore()
	for _, j := range d.Jobs {
		store.PutJob(j.JobRequirement, j.Skills)
	}
	for _, c := range d.Candidates {
		store.PutCandidate(c)
	}
	return store
}

// Import writes every job and candidate. It stops at the first failure.
func (d *Dataset) Import(ctx context.Context, w Writer) error {
	for i := range d.Jobs {
		j := &d.Jobs[i]
		if err := w.UpsertJob(ctx, &j.JobRequirement, j.Skills); err != nil {
			return fmt.Errorf("failed to import job %s: %w", j.ID, err)
		}
	}
	for i := range d.Candidates {
		c := &d.Candidates[i]
		if err := w.UpsertCandidate(ctx, c); err != nil {
			return fmt.Errorf("failed to import candidate %s: %w", c.ID, err)
		}
	}
	return nil
}
