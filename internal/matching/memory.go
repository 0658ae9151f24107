package matching

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

type pairKey struct {
	candidate uuid.UUID
	job       uuid.UUID
}

// MemoryStore is an in-memory Repository. Every method is safe for concurrent use;
// UpsertMatch is atomic on (candidate, job).
type MemoryStore struct {
	mu         sync.RWMutex
	jobs       map[uuid.UUID]types.JobRequirement
	skills     map[uuid.UUID][]types.RequiredSkillRecord
	candidates map[uuid.UUID]types.Candidate
	matches    map[uuid.UUID]types.MatchResult
	byPair     map[pairKey]uuid.UUID
	now        func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:       make(map[uuid.UUID]types.JobRequirement),
		skills:     make(map[uuid.UUID][]types.RequiredSkillRecord),
		candidates: make(map[uuid.UUID]types.Candidate),
		matches:    make(map[uuid.UUID]types.MatchResult),
		byPair:     make(map[pairKey]uuid.UUID),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PutJob stores a job and its required skills, replacing any previous version
func (s *MemoryStore) PutJob(job types.JobRequirement, required []types.RequiredSkillRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	s.skills[job.ID] = append([]types.RequiredSkillRecord(nil), required...)
}

// PutCandidate stores a candidate, replacing any previous version
func (s *MemoryStore) PutCandidate(c types.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.ID] = c
}

// MatchCount returns the number of stored matches
func (s *MemoryStore) MatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

func (s *MemoryStore) GetJob(_ context.Context, id uuid.UUID) (*types.JobRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (s *MemoryStore) ListRequiredSkills(_ context.Context, jobID uuid.UUID) ([]types.RequiredSkillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RequiredSkillRecord(nil), s.skills[jobID]...), nil
}

func (s *MemoryStore) ListEligibleCandidates(_ context.Context, _ uuid.UUID, excluded []types.CandidateStatus) ([]types.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skip := make(map[types.CandidateStatus]bool, len(excluded))
	for _, st := range excluded {
		skip[st] = true
	}

	out := make([]types.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if skip[c.Status] {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *MemoryStore) GetCandidate(_ context.Context, id uuid.UUID) (*types.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) GetMatch(_ context.Context, id uuid.UUID) (*types.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MemoryStore) GetMatchByPair(_ context.Context, candidateID, jobID uuid.UUID) (*types.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPair[pairKey{candidate: candidateID, job: jobID}]
	if !ok {
		return nil, nil
	}
	m := s.matches[id]
	return &m, nil
}

func (s *MemoryStore) ListMatchesByJob(_ context.Context, jobID uuid.UUID) ([]types.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.MatchResult
	for _, m := range s.matches {
		if m.JobID == jobID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].CandidateID.String() < out[j].CandidateID.String()
	})
	return out, nil
}

func (s *MemoryStore) UpsertMatch(_ context.Context, m *types.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := pairKey{candidate: m.CandidateID, job: m.JobID}
	if id, ok := s.byPair[key]; ok {
		existing := s.matches[id]
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		m.ReviewStatus = existing.ReviewStatus
		m.ReviewedBy = existing.ReviewedBy
		m.ReviewedAt = existing.ReviewedAt
		m.ReviewNotes = existing.ReviewNotes
	} else {
		m.ID = uuid.New()
		m.CreatedAt = now
		if m.ReviewStatus == "" {
			m.ReviewStatus = types.ReviewPending
		}
		s.byPair[key] = m.ID
	}
	m.UpdatedAt = now
	s.matches[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateReview(_ context.Context, id uuid.UUID, status types.ReviewStatus, reviewer, notes string, at time.Time) (*types.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	m.ReviewStatus = status
	m.ReviewedBy = reviewer
	m.ReviewNotes = notes
	m.ReviewedAt = &at
	m.UpdatedAt = at
	s.matches[id] = m
	return &m, nil
}

func (s *MemoryStore) UpdateCandidateStatus(_ context.Context, id uuid.UUID, status types.CandidateStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[id]
	if !ok {
		return false, nil
	}
	c.Status = status
	now := s.now()
	c.UpdatedAt = &now
	s.candidates[id] = c
	return true, nil
}
