package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/events"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/logging"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/ranking"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// BatchItem is the outcome for one id of a batch operation
type BatchItem struct {
	ID      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	// MatchCount is set by BatchMatch
	MatchCount int `json:"match_count,omitempty"`
}

// BatchResult reports per-item success of a batch operation. A failed item never
// stops the remaining ones.
type BatchResult struct {
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

func newBatchResult(items []BatchItem) *BatchResult {
	r := &BatchResult{Items: items}
	for _, it := range items {
		if it.Success {
			r.Succeeded++
		} else {
			r.Failed++
		}
	}
	return r
}

// BatchMatch runs CalculateMatches for every job, several jobs at a time.
// Items keep the order of jobIDs.
func (s *Service) BatchMatch(ctx context.Context, jobIDs []uuid.UUID, opts RunOptions) (*BatchResult, error) {
	if len(jobIDs) == 0 {
		return nil, &ValidationError{Message: "at least one job id is required"}
	}

	items := make([]BatchItem, len(jobIDs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range jobIDs {
		g.Go(func() error {
			items[i] = BatchItem{ID: id}
			res, err := s.CalculateMatches(gCtx, id, opts)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Success = true
			items[i].MatchCount = len(res.Matches)
			return nil
		})
	}
	_ = g.Wait()

	result := newBatchResult(items)
	s.logger.Info("batch match finished",
		zap.Int("jobs", len(jobIDs)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ReviewMatch records a reviewer decision. Shortlisting additionally emits CandidateShortlisted.
func (s *Service) ReviewMatch(ctx context.Context, matchID uuid.UUID, req *types.ReviewRequest) (*types.MatchResult, error) {
	if req == nil {
		return nil, &ValidationError{Message: "review request is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	m, err := s.repo.UpdateReview(ctx, matchID, req.Status, req.ReviewedBy, req.Notes, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}

	s.emit(ctx, events.TypeMatchReviewed, events.MatchReviewed{
		MatchID:      m.ID,
		ReviewStatus: string(m.ReviewStatus),
		ReviewedBy:   m.ReviewedBy,
	})
	if m.ReviewStatus == types.ReviewShortlisted {
		s.emit(ctx, events.TypeCandidateShortlisted, events.CandidateShortlisted{
			CandidateID:   m.CandidateID,
			JobID:         m.JobID,
			Score:         m.OverallScore,
			ShortlistedBy: m.ReviewedBy,
		})
	}

	s.logger.Info("match reviewed",
		logging.MatchID(m.ID),
		zap.String("review_status", string(m.ReviewStatus)),
		zap.String("reviewed_by", m.ReviewedBy),
	)
	return m, nil
}

// BulkReview applies the same decision to many matches
func (s *Service) BulkReview(ctx context.Context, req *types.BulkReviewRequest) (*BatchResult, error) {
	if req == nil {
		return nil, &ValidationError{Message: "bulk review request is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	items := make([]BatchItem, 0, len(req.MatchIDs))
	for _, id := range req.MatchIDs {
		item := BatchItem{ID: id}
		_, err := s.ReviewMatch(ctx, id, &types.ReviewRequest{Status: req.Status, ReviewedBy: req.ReviewedBy})
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Success = true
		}
		items = append(items, item)
	}
	return newBatchResult(items), nil
}

// BulkUpdateCandidateStatus moves many candidates to a lifecycle status
func (s *Service) BulkUpdateCandidateStatus(ctx context.Context, req *types.BulkStatusRequest) (*BatchResult, error) {
	if req == nil {
		return nil, &ValidationError{Message: "bulk status request is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	items := make([]BatchItem, 0, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		item := BatchItem{ID: id}
		ok, err := s.repo.UpdateCandidateStatus(ctx, id, req.Status)
		switch {
		case err != nil:
			item.Error = err.Error()
		case !ok:
			item.Error = fmt.Sprintf("candidate %s: %s", id, ErrNotFound)
		default:
			item.Success = true
		}
		items = append(items, item)
	}

	result := newBatchResult(items)
	s.logger.Info("candidate statuses updated",
		zap.String("status", string(req.Status)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// SearchCandidates filters every candidate by the criteria and orders the survivors
// by the generic pool-sorting score. The criteria's min score is ignored.
func (s *Service) SearchCandidates(ctx context.Context, req *types.SearchRequest) ([]types.RankedCandidate, error) {
	if req == nil {
		req = &types.SearchRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	candidates, err := s.repo.ListEligibleCandidates(ctx, uuid.Nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	candidates, _ = s.filter.PreFilter(candidates, &req.Criteria)

	ranked := ranking.SortCandidates(s.ranker.Combiner(), candidates, ranking.SortOptions{
		Weights:        req.Weights,
		TargetLocation: req.TargetLocation,
		Now:            s.now(),
	})
	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	return ranked, nil
}

// IsNotFound reports whether err wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
