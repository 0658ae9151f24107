//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestReviewRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request ReviewRequest
		wantErr bool
	}{
		{"valid shortlist", ReviewRequest{Status: ReviewShortlisted, ReviewedBy: "alice"}, false},
		{"valid with notes", ReviewRequest{Status: ReviewRejected, ReviewedBy: "bob", Notes: "not a fit"}, false},
		{"missing reviewer", ReviewRequest{Status: ReviewReviewed}, true},
		{"unknown status", ReviewRequest{Status: "maybe", ReviewedBy: "alice"}, true},
		{"missing status", ReviewRequest{ReviewedBy: "alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBulkReviewRequest_RequiresIDs(t *testing.T) {
	req := BulkReviewRequest{Status: ReviewReviewed, ReviewedBy: "alice"}
	assert.Error(t, req.Validate())

	req.MatchIDs = []uuid.UUID{uuid.New()}
	assert.NoError(t, req.Validate())
}

func TestBulkStatusRequest_Validation(t *testing.T) {
	req := BulkStatusRequest{CandidateIDs: []uuid.UUID{uuid.New()}, Status: CandidateStatusArchived}
	require.NoError(t, req.Validate())

	req.Status = "deleted"
	assert.Error(t, req.Validate())
}

func TestMatchRunRequest_Validation(t *testing.T) {
	t.Run("empty request is valid", func(t *testing.T) {
		req := MatchRunRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("weights out of range", func(t *testing.T) {
		req := MatchRunRequest{Weights: &MatchWeights{Skill: 1.5}}
		assert.Error(t, req.Validate())
	})

	t.Run("min score out of range", func(t *testing.T) {
		req := MatchRunRequest{MinScore: floatPtr(120)}
		assert.Error(t, req.Validate())
	})

	t.Run("nested filter bounds are checked", func(t *testing.T) {
		req := MatchRunRequest{Filter: &FilterCriteria{MinExperience: floatPtr(5), MaxExperience: floatPtr(2)}}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})
}

func TestSearchRequest_Validation(t *testing.T) {
	req := SearchRequest{Limit: 10, Criteria: FilterCriteria{SkillMatchMode: SkillMatchAny}}
	assert.NoError(t, req.Validate())

	req.Criteria.SkillMatchMode = "most"
	assert.Error(t, req.Validate())

	req.Criteria.SkillMatchMode = ""
	req.Limit = 1000
	assert.Error(t, req.Validate())
}
