package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

const maxBodyBytes = 1 << 20

// pathID parses the {id} path value
func pathID(r *http.Request) (uuid.UUID, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "is required"}
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid UUID format"}
	}
	return id, nil
}

// decodeBody decodes a JSON request body into dst. An empty body is accepted when optional.
func decodeBody(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// handleCalculateMatches runs matching for one job
func (s *Server) handleCalculateMatches(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var req types.MatchRunRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	result, err := s.svc.CalculateMatches(r.Context(), jobID, matching.OptionsFromRequest(&req))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, result)
}

// handleListMatches returns the stored matches of a job
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	matches, err := s.svc.ListMatches(r.Context(), jobID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, matches)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	d, err := s.svc.Distribution(r.Context(), jobID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, d)
}

func (s *Server) handleReviewSummary(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	summary, err := s.svc.ReviewSummary(r.Context(), jobID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, summary)
}

func (s *Server) handleSkillGaps(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	report, err := s.svc.SkillGaps(r.Context(), jobID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, report)
}

// handleBatchMatch runs matching for several jobs; per-job failures are reported in the result
func (s *Server) handleBatchMatch(w http.ResponseWriter, r *http.Request) {
	var req types.BatchMatchRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, &ErrValidation{Field: "job_ids", Message: err.Error()})
		return
	}

	result, err := s.svc.BatchMatch(r.Context(), req.JobIDs, matching.RunOptions{
		Weights:  req.Weights,
		MinScore: req.MinScore,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, result)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	m, err := s.svc.GetMatch(r.Context(), matchID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, m)
}

// handleExplain returns the explanation of a stored match
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	e, err := s.svc.Explain(r.Context(), matchID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !e.Found {
		s.errorResponse(w, http.StatusNotFound, "Match not found")
		return
	}
	s.success(w, http.StatusOK, e)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var req types.ReviewRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.fail(w, err)
		return
	}
	m, err := s.svc.ReviewMatch(r.Context(), matchID, &req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, m)
}

func (s *Server) handleBulkReview(w http.ResponseWriter, r *http.Request) {
	var req types.BulkReviewRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.fail(w, err)
		return
	}
	result, err := s.svc.BulkReview(r.Context(), &req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, result)
}

func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	var req types.SearchRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.fail(w, err)
		return
	}
	ranked, err := s.svc.SearchCandidates(r.Context(), &req)
	if err != nil {
		s.fail(w, err)
		return
	}
	if ranked == nil {
		ranked = []types.RankedCandidate{}
	}
	s.success(w, http.StatusOK, ranked)
}

func (s *Server) handleBulkStatus(w http.ResponseWriter, r *http.Request) {
	var req types.BulkStatusRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.fail(w, err)
		return
	}
	result, err := s.svc.BulkUpdateCandidateStatus(r.Context(), &req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, http.StatusOK, result)
}
