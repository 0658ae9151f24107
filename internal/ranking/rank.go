// Package ranking combines sub-scores into composite scores and ranks candidates.
package ranking

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/scoring"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// DefaultMinScore is the composite score below which a match is dropped
const DefaultMinScore = 30.0

// Options controls a single ranking run
type Options struct {
	// Weights overrides the job's own weights when set
	Weights *types.MatchWeights
	// MinScore drops matches below this composite score; nil means DefaultMinScore
	MinScore *float64
}

// Ranker scores a candidate pool against a job and orders the surviving matches.
type Ranker struct {
	combiner    Combiner
	concurrency int
	logger      *zap.Logger
}

// NewRanker creates a Ranker. A concurrency of zero or less uses GOMAXPROCS.
func NewRanker(combiner Combiner, concurrency int, logger *zap.Logger) *Ranker {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{combiner: combiner, concurrency: concurrency, logger: logger}
}

// Combiner returns the ranker's combiner
func (r *Ranker) Combiner() Combiner { return r.combiner }

// ResolveWeights picks the override or the job's weights and normalizes them.
func (r *Ranker) ResolveWeights(job *types.JobRequirement, override *types.MatchWeights) types.MatchWeights {
	raw := job.Weights()
	if override != nil {
		raw = *override
	}
	weights, substituted := r.combiner.NormalizeMatch(raw)
	if substituted {
		r.logger.Warn("unusable weights replaced by defaults",
			zap.String("job_id", job.ID.String()),
			zap.Bool("override", override != nil),
		)
	}
	return weights
}

// ScoreCandidate computes an unranked match of one candidate against one job.
// weights must already be normalized.
func (r *Ranker) ScoreCandidate(job *types.JobRequirement, required []types.RequiredSkillRecord, candidate *types.Candidate, weights types.MatchWeights) types.MatchResult {
	scores, breakdown := scoring.Evaluate(job, required, candidate)
	breakdown.Weights = weights

	return types.MatchResult{
		CandidateID:     candidate.ID,
		JobID:           job.ID,
		SkillScore:      RoundScore(scores.Skill),
		ExperienceScore: RoundScore(scores.Experience),
		EducationScore:  RoundScore(scores.Education),
		LocationScore:   RoundScore(scores.Location),
		OverallScore:    r.combiner.Composite(weights, scores),
		Breakdown:       breakdown,
		ReviewStatus:    types.ReviewPending,
	}
}

// Rank scores every candidate in parallel, drops matches below the threshold,
// sorts by descending score (ties by candidate id ascending) and assigns ranks 1..N.
func (r *Ranker) Rank(ctx context.Context, job *types.JobRequirement, required []types.RequiredSkillRecord, candidates []types.Candidate, opts Options) ([]types.MatchResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job requirement is nil")
	}

	weights := r.ResolveWeights(job, opts.Weights)
	minScore := DefaultMinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	results := make([]types.MatchResult, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = r.ScoreCandidate(job, required, &candidates[i], weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to score candidates: %w", err)
	}

	kept := results[:0]
	for _, m := range results {
		if m.OverallScore >= minScore {
			kept = append(kept, m)
		}
	}

	SortMatches(kept)
	AssignRanks(kept)

	r.logger.Debug("ranked candidates",
		zap.String("job_id", job.ID.String()),
		zap.Int("scored", len(candidates)),
		zap.Int("kept", len(kept)),
		zap.Float64("min_score", minScore),
	)

	return kept, nil
}

// SortMatches orders matches by descending overall score, breaking ties by candidate id ascending.
func SortMatches(matches []types.MatchResult) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].OverallScore != matches[j].OverallScore {
			return matches[i].OverallScore > matches[j].OverallScore
		}
		return strings.Compare(matches[i].CandidateID.String(), matches[j].CandidateID.String()) < 0
	})
}

// AssignRanks sets Rank to the 1-based position of each match in an already sorted slice.
func AssignRanks(matches []types.MatchResult) {
	for i := range matches {
		matches[i].Rank = i + 1
	}
}
