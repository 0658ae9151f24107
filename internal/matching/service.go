package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/analytics"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/events"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/explain"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/filtering"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/logging"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/ranking"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Deps are the collaborators of a Service. Only Repo is required.
type Deps struct {
	Repo      Repository
	Ranker    *ranking.Ranker
	Filter    *filtering.Engine
	Publisher events.Publisher
	Logger    *zap.Logger
	// ExcludedStatuses are skipped when loading a job's pool; nil means types.TerminalStatuses
	ExcludedStatuses []types.CandidateStatus
	// MinScore is the default composite threshold; nil means ranking.DefaultMinScore
	MinScore *float64
	// Concurrency bounds the jobs processed at once by BatchMatch; zero means 4
	Concurrency int
}

// Service is the match orchestrator
type Service struct {
	repo        Repository
	ranker      *ranking.Ranker
	filter      *filtering.Engine
	reporter    *explain.Reporter
	publisher   events.Publisher
	logger      *zap.Logger
	excluded    []types.CandidateStatus
	minScore    float64
	concurrency int
	locks       *keyedMutex
	now         func() time.Time
}

// NewService creates a Service, filling unset dependencies with defaults.
func NewService(d Deps) *Service {
	logger := logging.ForComponent(d.Logger, "matching")
	if d.Ranker == nil {
		d.Ranker = ranking.NewRanker(ranking.NewCombiner(), 0, logger)
	}
	if d.Filter == nil {
		d.Filter = filtering.New(logger)
	}
	if d.Publisher == nil {
		d.Publisher = events.Nop{}
	}
	if d.ExcludedStatuses == nil {
		d.ExcludedStatuses = types.TerminalStatuses
	}
	minScore := ranking.DefaultMinScore
	if d.MinScore != nil {
		minScore = *d.MinScore
	}
	if d.Concurrency <= 0 {
		d.Concurrency = 4
	}

	return &Service{
		repo:        d.Repo,
		ranker:      d.Ranker,
		filter:      d.Filter,
		reporter:    explain.NewReporter(d.Repo, d.Ranker.Combiner()),
		publisher:   d.Publisher,
		logger:      logger,
		excluded:    d.ExcludedStatuses,
		minScore:    minScore,
		concurrency: d.Concurrency,
		locks:       newKeyedMutex(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RunOptions controls one matching run
type RunOptions struct {
	Weights  *types.MatchWeights
	MinScore *float64
	Filter   *types.FilterCriteria
}

// OptionsFromRequest converts a validated request into run options
func OptionsFromRequest(req *types.MatchRunRequest) RunOptions {
	if req == nil {
		return RunOptions{}
	}
	return RunOptions{Weights: req.Weights, MinScore: req.MinScore, Filter: req.Filter}
}

// RunResult is the outcome of one matching run
type RunResult struct {
	JobID          uuid.UUID           `json:"job_id"`
	Found          bool                `json:"found"`
	Evaluated      int                 `json:"evaluated"`
	Matches        []types.MatchResult `json:"matches"`
	Steps          []filtering.Step    `json:"steps,omitempty"`
	ProcessingTime time.Duration       `json:"processing_time"`
}

// TopScore returns the best overall score of the run, or 0 without matches
func (r *RunResult) TopScore() float64 {
	if len(r.Matches) == 0 {
		return 0
	}
	return r.Matches[0].OverallScore
}

// CalculateMatches scores the job's eligible candidate pool and persists the matches.
// Runs for the same job are serialized. Matches are only ever updated in place: a stored
// match whose candidate drops out of a later run keeps its score and review. An unknown
// job returns a result with Found false together with ErrNotFound.
func (s *Service) CalculateMatches(ctx context.Context, jobID uuid.UUID, opts RunOptions) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{JobID: jobID, Matches: []types.MatchResult{}}

	unlock := s.locks.Lock(jobID)
	defer unlock()

	log := s.logger.With(logging.JobID(jobID))

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		result.ProcessingTime = time.Since(start)
		return result, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	result.Found = true

	if opts.Filter != nil {
		if err := opts.Filter.Validate(); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}

	required, err := s.repo.ListRequiredSkills(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load required skills: %w", err)
	}
	candidates, err := s.repo.ListEligibleCandidates(ctx, jobID, s.excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	result.Evaluated = len(candidates)

	if opts.Filter != nil {
		var step filtering.Step
		candidates, step = s.filter.PreFilter(candidates, opts.Filter)
		result.Steps = append(result.Steps, step)
	}

	minScore := s.minScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}
	matches, err := s.ranker.Rank(ctx, job, required, candidates, ranking.Options{Weights: opts.Weights, MinScore: &minScore})
	if err != nil {
		return nil, err
	}

	if opts.Filter != nil && opts.Filter.MinScore != nil {
		var step filtering.Step
		matches, step = s.filter.PostFilter(matches, nil, &types.FilterCriteria{MinScore: opts.Filter.MinScore})
		ranking.AssignRanks(matches)
		result.Steps = append(result.Steps, step)
	}

	for i := range matches {
		if err := s.repo.UpsertMatch(ctx, &matches[i]); err != nil {
			return nil, fmt.Errorf("failed to save match for candidate %s: %w", matches[i].CandidateID, err)
		}
	}

	result.Matches = matches
	result.ProcessingTime = time.Since(start)

	s.emit(ctx, events.TypeMatchesCalculated, events.MatchesCalculated{
		JobID:      jobID,
		MatchCount: len(matches),
		TopScore:   result.TopScore(),
	})

	log.Info("matches calculated",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("matched", len(matches)),
		zap.Float64("top_score", result.TopScore()),
		zap.Duration("processing_time", result.ProcessingTime),
	)

	return result, nil
}

// ListMatches returns the stored matches of a job ordered by rank
func (s *Service) ListMatches(ctx context.Context, jobID uuid.UUID) ([]types.MatchResult, error) {
	if _, err := s.requireJob(ctx, jobID); err != nil {
		return nil, err
	}
	matches, err := s.repo.ListMatchesByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if matches == nil {
		matches = []types.MatchResult{}
	}
	return matches, nil
}

// GetMatch returns one stored match
func (s *Service) GetMatch(ctx context.Context, matchID uuid.UUID) (*types.MatchResult, error) {
	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return m, nil
}

// Explain explains a stored match. A missing match yields Found false, not an error.
func (s *Service) Explain(ctx context.Context, matchID uuid.UUID) (*explain.Explanation, error) {
	return s.reporter.Explain(ctx, matchID)
}

// ExplainPair explains the stored match of a candidate for a job
func (s *Service) ExplainPair(ctx context.Context, candidateID, jobID uuid.UUID) (*explain.Explanation, error) {
	m, err := s.repo.GetMatchByPair(ctx, candidateID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if m == nil {
		return &explain.Explanation{Found: false, CandidateID: candidateID, JobID: jobID, Summary: "match not found"}, nil
	}
	return explain.Build(m, s.ranker.Combiner()), nil
}

// Distribution summarizes the stored match scores of a job
func (s *Service) Distribution(ctx context.Context, jobID uuid.UUID) (*analytics.Distribution, error) {
	matches, err := s.ListMatches(ctx, jobID)
	if err != nil {
		return nil, err
	}
	d := analytics.ComputeDistribution(matches)
	return &d, nil
}

// ReviewSummary counts a job's stored matches per review status
func (s *Service) ReviewSummary(ctx context.Context, jobID uuid.UUID) (*analytics.ReviewSummary, error) {
	matches, err := s.ListMatches(ctx, jobID)
	if err != nil {
		return nil, err
	}
	summary := analytics.SummarizeReviews(matches)
	return &summary, nil
}

// SkillGaps reports the job skills that less than half of the job's matched candidates hold.
// Only candidates with a stored match count; a job without matches reports every skill as a gap.
func (s *Service) SkillGaps(ctx context.Context, jobID uuid.UUID) (*analytics.SkillGapReport, error) {
	if _, err := s.requireJob(ctx, jobID); err != nil {
		return nil, err
	}
	required, err := s.repo.ListRequiredSkills(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load required skills: %w", err)
	}
	matches, err := s.repo.ListMatchesByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(matches))
	for _, m := range matches {
		c, err := s.repo.GetCandidate(ctx, m.CandidateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidate %s: %w", m.CandidateID, err)
		}
		if c == nil {
			s.logger.Warn("matched candidate no longer exists", logging.JobID(jobID), logging.CandidateID(m.CandidateID))
			continue
		}
		candidates = append(candidates, *c)
	}
	report := analytics.SkillGaps(required, candidates)
	return &report, nil
}

func (s *Service) requireJob(ctx context.Context, jobID uuid.UUID) (*types.JobRequirement, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	return job, nil
}

// emit publishes an event. Publishing failures are logged and never fail the caller.
func (s *Service) emit(ctx context.Context, eventType string, payload any) {
	env, err := events.NewEnvelope(eventType, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}

// ValidationError reports invalid caller input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
