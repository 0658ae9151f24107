package filtering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

var (
	skillA = uuid.MustParse("10000000-0000-0000-0000-00000000000a")
	skillB = uuid.MustParse("10000000-0000-0000-0000-00000000000b")
	skillC = uuid.MustParse("10000000-0000-0000-0000-00000000000c")
)

func floatPtr(f float64) *float64 { return &f }

func sampleCandidate() *types.Candidate {
	return &types.Candidate{
		CandidateProfile: types.CandidateProfile{
			ID:                   uuid.New(),
			TotalExperienceYears: 5,
			Location:             "Istanbul, Turkey",
			Status:               types.CandidateStatusScreening,
			Tags:                 []string{"backend", "Referral"},
		},
		Skills: []types.SkillRecord{{SkillID: skillA}, {SkillID: skillB}},
		Languages: []types.CandidateLanguage{
			{Language: "English", Proficiency: "C1"},
			{Language: "Turkish", Proficiency: "native"},
		},
		Certifications: []types.Certification{
			{Name: "AWS Certified Solutions Architect", Issuer: "Amazon"},
		},
	}
}

func TestMatchSkills_Modes(t *testing.T) {
	c := sampleCandidate()

	assert.False(t, MatchSkills(c, []uuid.UUID{skillA, skillB, skillC}, types.SkillMatchAll))
	assert.True(t, MatchSkills(c, []uuid.UUID{skillA, skillB, skillC}, types.SkillMatchAny))
	assert.True(t, MatchSkills(c, []uuid.UUID{skillA, skillB}, types.SkillMatchAll))
	assert.False(t, MatchSkills(c, []uuid.UUID{skillC}, types.SkillMatchAny))
	assert.True(t, MatchSkills(c, nil, types.SkillMatchAll))
}

func TestEvaluate_Predicates(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name     string
		criteria types.FilterCriteria
		score    *float64
		failed   []string
	}{
		{name: "empty criteria", criteria: types.FilterCriteria{}},
		{name: "experience within bounds", criteria: types.FilterCriteria{MinExperience: floatPtr(5), MaxExperience: floatPtr(5)}},
		{name: "experience below min", criteria: types.FilterCriteria{MinExperience: floatPtr(6)}, failed: []string{PredicateMinExperience}},
		{name: "experience above max", criteria: types.FilterCriteria{MaxExperience: floatPtr(4)}, failed: []string{PredicateMaxExperience}},
		{name: "location substring", criteria: types.FilterCriteria{Locations: []string{"istanbul"}}},
		{name: "location reverse substring", criteria: types.FilterCriteria{Locations: []string{"Greater Istanbul, Turkey Area"}}},
		{name: "location mismatch", criteria: types.FilterCriteria{Locations: []string{"Berlin"}}, failed: []string{PredicateLocations}},
		{name: "status case-insensitive", criteria: types.FilterCriteria{Statuses: []types.CandidateStatus{"SCREENING"}}},
		{name: "status mismatch", criteria: types.FilterCriteria{Statuses: []types.CandidateStatus{types.CandidateStatusNew}}, failed: []string{PredicateStatuses}},
		{name: "min score met", criteria: types.FilterCriteria{MinScore: floatPtr(60)}, score: floatPtr(60)},
		{name: "min score missed", criteria: types.FilterCriteria{MinScore: floatPtr(60)}, score: floatPtr(59.99), failed: []string{PredicateMinScore}},
		{name: "min score without score", criteria: types.FilterCriteria{MinScore: floatPtr(10)}, failed: []string{PredicateMinScore}},
		{name: "languages all held", criteria: types.FilterCriteria{Languages: []string{"english", "TURKISH"}}},
		{name: "language missing", criteria: types.FilterCriteria{Languages: []string{"English", "German"}}, failed: []string{PredicateLanguages}},
		{name: "certification pattern", criteria: types.FilterCriteria{CertificationPatterns: []string{"aws", "architect"}}},
		{name: "certification missing", criteria: types.FilterCriteria{CertificationPatterns: []string{"cka"}}, failed: []string{PredicateCertifications}},
		{name: "tag any", criteria: types.FilterCriteria{Tags: []string{"frontend", "referral"}}},
		{name: "tag missing", criteria: types.FilterCriteria{Tags: []string{"frontend"}}, failed: []string{PredicateTags}},
		{
			name: "multiple failures reported",
			criteria: types.FilterCriteria{
				SkillIDs:      []uuid.UUID{skillC},
				MinExperience: floatPtr(10),
				Tags:          []string{"frontend"},
			},
			failed: []string{PredicateSkills, PredicateMinExperience, PredicateTags},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Evaluate(sampleCandidate(), tt.score, &tt.criteria)
			assert.Equal(t, len(tt.failed) == 0, res.Passed)
			assert.Equal(t, tt.failed, res.Failed)
		})
	}
}

func TestEvaluate_NilCriteria(t *testing.T) {
	res := New(nil).Evaluate(sampleCandidate(), nil, nil)
	assert.True(t, res.Passed)
}

func TestPreFilter_IgnoresMinScore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := New(zap.New(core))

	keep := sampleCandidate()
	drop := sampleCandidate()
	drop.TotalExperienceYears = 1

	criteria := &types.FilterCriteria{MinExperience: floatPtr(2), MinScore: floatPtr(99)}
	kept, step := e.PreFilter([]types.Candidate{*keep, *drop}, criteria)

	require.Len(t, kept, 1)
	assert.Equal(t, keep.ID, kept[0].ID)
	assert.Equal(t, Step{Name: "pre_filter", Initial: 2, Dropped: 1, Left: 1}, step)

	entries := logs.FilterMessage("excluding candidates by filter criteria").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["candidates_left"])
}

func TestPreFilter_EmptyCriteria(t *testing.T) {
	pool := []types.Candidate{*sampleCandidate(), *sampleCandidate()}

	kept, step := New(nil).PreFilter(pool, &types.FilterCriteria{})

	assert.Len(t, kept, 2)
	assert.Equal(t, 0, step.Dropped)
}

func TestPostFilter_AppliesScoreAndProfile(t *testing.T) {
	strong := sampleCandidate()
	weak := sampleCandidate()
	unknownID := uuid.New()

	byID := map[uuid.UUID]*types.Candidate{strong.ID: strong, weak.ID: weak}
	lookup := func(id uuid.UUID) (*types.Candidate, bool) {
		c, ok := byID[id]
		return c, ok
	}

	matches := []types.MatchResult{
		{CandidateID: strong.ID, OverallScore: 80},
		{CandidateID: weak.ID, OverallScore: 40},
		{CandidateID: unknownID, OverallScore: 95},
	}

	kept, step := New(nil).PostFilter(matches, lookup, &types.FilterCriteria{
		MinScore: floatPtr(50),
		Tags:     []string{"backend"},
	})

	require.Len(t, kept, 1)
	assert.Equal(t, strong.ID, kept[0].CandidateID)
	assert.Equal(t, 2, step.Dropped)
}

func TestPostFilter_ScoreOnlyWithoutLookup(t *testing.T) {
	matches := []types.MatchResult{
		{CandidateID: uuid.New(), OverallScore: 70},
		{CandidateID: uuid.New(), OverallScore: 20},
	}

	kept, _ := New(nil).PostFilter(matches, nil, &types.FilterCriteria{MinScore: floatPtr(50)})

	require.Len(t, kept, 1)
	assert.Equal(t, 70.0, kept[0].OverallScore)
}
