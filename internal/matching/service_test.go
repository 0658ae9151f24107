package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/events"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

var (
	skillGo  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	skillSQL = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")

	candStrong = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	candMid    = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	candLow    = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	candHired  = uuid.MustParse("00000000-0000-0000-0000-000000000004")

	jobID = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001")
)

func floatPtr(f float64) *float64 { return &f }

type fixture struct {
	store    *MemoryStore
	recorder *events.Recorder
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := NewMemoryStore()
	store.PutJob(types.JobRequirement{
		ID:                 jobID,
		Title:              "Backend Engineer",
		MinExperienceYears: 3,
		LocationType:       types.LocationRemote,
		SkillWeight:        0.4,
		ExperienceWeight:   0.3,
		EducationWeight:    0.2,
		LocationWeight:     0.1,
	}, []types.RequiredSkillRecord{
		{SkillID: skillGo, SkillName: "Go", Required: true},
		{SkillID: skillSQL, SkillName: "SQL", Required: false},
	})

	store.PutCandidate(types.Candidate{
		CandidateProfile: types.CandidateProfile{ID: candStrong, Name: "Deniz", TotalExperienceYears: 6, Status: types.CandidateStatusNew, Location: "Izmir"},
		Skills: []types.SkillRecord{
			{SkillID: skillGo, SkillName: "Go", Proficiency: types.ProficiencyExpert, Verified: true},
			{SkillID: skillSQL, SkillName: "SQL"},
		},
	})
	store.PutCandidate(types.Candidate{
		CandidateProfile: types.CandidateProfile{ID: candMid, Name: "Ece", TotalExperienceYears: 3, Status: types.CandidateStatusScreening},
		Skills:           []types.SkillRecord{{SkillID: skillSQL, SkillName: "SQL"}},
	})
	store.PutCandidate(types.Candidate{
		CandidateProfile: types.CandidateProfile{ID: candLow, Name: "Kaan", TotalExperienceYears: 0, Status: types.CandidateStatusNew},
	})
	store.PutCandidate(types.Candidate{
		CandidateProfile: types.CandidateProfile{ID: candHired, Name: "Mert", TotalExperienceYears: 9, Status: types.CandidateStatusHired},
		Skills:           []types.SkillRecord{{SkillID: skillGo, Proficiency: types.ProficiencyExpert}},
	})

	recorder := events.NewRecorder()
	return &fixture{
		store:    store,
		recorder: recorder,
		svc:      NewService(Deps{Repo: store, Publisher: recorder}),
	}
}

func TestCalculateMatches(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CalculateMatches(context.Background(), jobID, RunOptions{})
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, 3, res.Evaluated, "hired candidate is excluded")
	require.Len(t, res.Matches, 3)

	// strong: skill 100, rest 100 -> 100
	assert.Equal(t, candStrong, res.Matches[0].CandidateID)
	assert.Equal(t, 100.0, res.Matches[0].OverallScore)
	assert.Equal(t, 1, res.Matches[0].Rank)

	// mid: optional skill only, 1/3 of the skill weight
	assert.Equal(t, candMid, res.Matches[1].CandidateID)
	assert.Equal(t, 33.33, res.Matches[1].SkillScore)
	assert.Equal(t, 73.33, res.Matches[1].OverallScore)
	assert.Equal(t, 2, res.Matches[1].Rank)

	// low: optional miss credit only and no experience, just above the default threshold
	assert.Equal(t, candLow, res.Matches[2].CandidateID)
	assert.Equal(t, 32.67, res.Matches[2].OverallScore)
	assert.Equal(t, 3, f.store.MatchCount())

	calculated := f.recorder.OfType(events.TypeMatchesCalculated)
	require.Len(t, calculated, 1)
	var payload events.MatchesCalculated
	require.NoError(t, calculated[0].Decode(&payload))
	assert.Equal(t, jobID, payload.JobID)
	assert.Equal(t, 3, payload.MatchCount)
	assert.Equal(t, 100.0, payload.TopScore)
}

func TestCalculateMatches_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)
	second, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)

	require.Len(t, second.Matches, len(first.Matches))
	for i := range first.Matches {
		assert.Equal(t, first.Matches[i].ID, second.Matches[i].ID)
		assert.Equal(t, first.Matches[i].OverallScore, second.Matches[i].OverallScore)
		assert.Equal(t, first.Matches[i].Rank, second.Matches[i].Rank)
		assert.Equal(t, first.Matches[i].CreatedAt, second.Matches[i].CreatedAt)
	}
	assert.Equal(t, 3, f.store.MatchCount())
}

func TestCalculateMatches_ConcurrentRunsDoNotDuplicate(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CalculateMatches(context.Background(), jobID, RunOptions{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, f.store.MatchCount())
	matches, err := f.svc.ListMatches(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, 1, matches[0].Rank)
	assert.Equal(t, 2, matches[1].Rank)
}

func TestCalculateMatches_KeepsReviewAcrossRuns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)
	_, err = f.svc.ReviewMatch(ctx, res.Matches[0].ID, &types.ReviewRequest{Status: types.ReviewShortlisted, ReviewedBy: "selin"})
	require.NoError(t, err)

	res, err = f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.ReviewShortlisted, res.Matches[0].ReviewStatus)
	assert.Equal(t, "selin", res.Matches[0].ReviewedBy)
}

func TestCalculateMatches_ReviewedMatchSurvivesIneligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)
	require.Equal(t, candStrong, res.Matches[0].CandidateID)
	reviewed, err := f.svc.ReviewMatch(ctx, res.Matches[0].ID, &types.ReviewRequest{Status: types.ReviewShortlisted, ReviewedBy: "selin", Notes: "great"})
	require.NoError(t, err)

	_, err = f.svc.BulkUpdateCandidateStatus(ctx, &types.BulkStatusRequest{CandidateIDs: []uuid.UUID{candStrong}, Status: types.CandidateStatusHired})
	require.NoError(t, err)

	res, err = f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)
	for _, m := range res.Matches {
		assert.NotEqual(t, candStrong, m.CandidateID)
	}
	assert.Equal(t, 3, f.store.MatchCount())

	stored, err := f.svc.GetMatch(ctx, reviewed.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ReviewShortlisted, stored.ReviewStatus)
	assert.Equal(t, "selin", stored.ReviewedBy)
	assert.Equal(t, "great", stored.ReviewNotes)
	assert.Equal(t, 100.0, stored.OverallScore)
}

func TestCalculateMatches_StricterRerunKeepsStoredMatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)

	res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{MinScore: floatPtr(90)})
	require.NoError(t, err)

	assert.Len(t, res.Matches, 1)
	assert.Equal(t, 3, f.store.MatchCount())
}

func TestCalculateMatches_Options(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("pre filter", func(t *testing.T) {
		res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{
			MinScore: floatPtr(0),
			Filter:   &types.FilterCriteria{SkillIDs: []uuid.UUID{skillGo}},
		})
		require.NoError(t, err)
		require.Len(t, res.Matches, 1)
		assert.Equal(t, candStrong, res.Matches[0].CandidateID)
		require.Len(t, res.Steps, 1)
		assert.Equal(t, 2, res.Steps[0].Dropped)
	})

	t.Run("filter min score re-ranks", func(t *testing.T) {
		res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{
			MinScore: floatPtr(0),
			Filter:   &types.FilterCriteria{MinScore: floatPtr(50)},
		})
		require.NoError(t, err)
		require.Len(t, res.Matches, 2)
		assert.Equal(t, 2, res.Matches[1].Rank)
	})

	t.Run("weight override", func(t *testing.T) {
		res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{
			Weights:  &types.MatchWeights{Experience: 1},
			MinScore: floatPtr(0),
		})
		require.NoError(t, err)
		require.Len(t, res.Matches, 3)
		assert.Equal(t, 100.0, res.Matches[1].OverallScore)
		assert.Equal(t, 0.0, res.Matches[2].OverallScore)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{
			Filter: &types.FilterCriteria{MinExperience: floatPtr(5), MaxExperience: floatPtr(1)},
		})
		assert.True(t, IsValidation(err))
	})
}

func TestNewService_ConfiguredMinScore(t *testing.T) {
	ctx := context.Background()
	onsiteJob := uuid.New()
	store := NewMemoryStore()
	store.PutJob(types.JobRequirement{
		ID:                 onsiteJob,
		MinExperienceYears: 3,
		Location:           "Izmir",
		LocationType:       types.LocationOnsite,
		SkillWeight:        0.4,
		ExperienceWeight:   0.3,
		EducationWeight:    0.2,
		LocationWeight:     0.1,
	}, []types.RequiredSkillRecord{{SkillID: skillGo, SkillName: "Go", Required: true}})
	// No skills, no experience, unknown location: 25 points
	store.PutCandidate(types.Candidate{CandidateProfile: types.CandidateProfile{ID: candLow, Status: types.CandidateStatusNew}})

	res, err := NewService(Deps{Repo: store}).CalculateMatches(ctx, onsiteJob, RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Matches, "default threshold applies when unset")

	res, err = NewService(Deps{Repo: store, MinScore: floatPtr(0)}).CalculateMatches(ctx, onsiteJob, RunOptions{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, 25.0, res.Matches[0].OverallScore)
}

func TestCalculateMatches_JobNotFound(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CalculateMatches(context.Background(), uuid.New(), RunOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	require.NotNil(t, res)
	assert.False(t, res.Found)
	assert.Empty(t, res.Matches)
	assert.Empty(t, f.recorder.Events())
}

func TestBatchMatch_ContinuesOnError(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	res, err := f.svc.BatchMatch(context.Background(), []uuid.UUID{jobID, missing}, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, jobID, res.Items[0].ID)
	assert.True(t, res.Items[0].Success)
	assert.Equal(t, 3, res.Items[0].MatchCount)
	assert.Equal(t, missing, res.Items[1].ID)
	assert.Contains(t, res.Items[1].Error, "not found")

	_, err = f.svc.BatchMatch(context.Background(), nil, RunOptions{})
	assert.True(t, IsValidation(err))
}

func TestReviewMatch_Events(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)
	top := res.Matches[0]

	m, err := f.svc.ReviewMatch(ctx, top.ID, &types.ReviewRequest{Status: types.ReviewShortlisted, ReviewedBy: "selin", Notes: "strong Go"})
	require.NoError(t, err)
	assert.Equal(t, types.ReviewShortlisted, m.ReviewStatus)
	assert.NotNil(t, m.ReviewedAt)
	assert.Equal(t, "strong Go", m.ReviewNotes)

	shortlisted := f.recorder.OfType(events.TypeCandidateShortlisted)
	require.Len(t, shortlisted, 1)
	var payload events.CandidateShortlisted
	require.NoError(t, shortlisted[0].Decode(&payload))
	assert.Equal(t, candStrong, payload.CandidateID)
	assert.Equal(t, 100.0, payload.Score)
	assert.Equal(t, "selin", payload.ShortlistedBy)

	_, err = f.svc.ReviewMatch(ctx, res.Matches[1].ID, &types.ReviewRequest{Status: types.ReviewRejected, ReviewedBy: "selin"})
	require.NoError(t, err)
	assert.Len(t, f.recorder.OfType(events.TypeMatchReviewed), 2)
	assert.Len(t, f.recorder.OfType(events.TypeCandidateShortlisted), 1)
}

func TestReviewMatch_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ReviewMatch(ctx, uuid.New(), &types.ReviewRequest{Status: types.ReviewReviewed, ReviewedBy: "x"})
	assert.True(t, IsNotFound(err))

	_, err = f.svc.ReviewMatch(ctx, uuid.New(), &types.ReviewRequest{Status: "maybe", ReviewedBy: "x"})
	assert.True(t, IsValidation(err))

	_, err = f.svc.ReviewMatch(ctx, uuid.New(), nil)
	assert.True(t, IsValidation(err))
}

func TestBulkReview_PartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)

	out, err := f.svc.BulkReview(ctx, &types.BulkReviewRequest{
		MatchIDs:   []uuid.UUID{res.Matches[0].ID, uuid.New(), res.Matches[1].ID},
		Status:     types.ReviewReviewed,
		ReviewedBy: "ozan",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.False(t, out.Items[1].Success)

	summary, err := f.svc.ReviewSummary(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Reviewed)
}

func TestBulkUpdateCandidateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.BulkUpdateCandidateStatus(ctx, &types.BulkStatusRequest{
		CandidateIDs: []uuid.UUID{candMid, uuid.New()},
		Status:       types.CandidateStatusArchived,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Succeeded)
	assert.Equal(t, 1, out.Failed)

	c, err := f.store.GetCandidate(ctx, candMid)
	require.NoError(t, err)
	assert.Equal(t, types.CandidateStatusArchived, c.Status)

	// Archived candidates drop out of the next run
	res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 2)

	_, err = f.svc.BulkUpdateCandidateStatus(ctx, &types.BulkStatusRequest{CandidateIDs: []uuid.UUID{candMid}, Status: "lost"})
	assert.True(t, IsValidation(err))
}

func TestSearchCandidates(t *testing.T) {
	f := newFixture(t)

	ranked, err := f.svc.SearchCandidates(context.Background(), &types.SearchRequest{
		Criteria: types.FilterCriteria{MinExperience: floatPtr(3)},
		Limit:    2,
	})
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, candHired, ranked[0].CandidateID, "search covers every status")
	assert.Equal(t, candStrong, ranked[1].CandidateID)
	assert.Equal(t, 1, ranked[0].Rank)
}

func TestSkillGaps_CountsMatchedCandidatesOnly(t *testing.T) {
	ctx := context.Background()
	skillX := uuid.New()
	gapJob := uuid.New()
	store := NewMemoryStore()
	store.PutJob(types.JobRequirement{
		ID:                 gapJob,
		MinExperienceYears: 3,
		Location:           "Izmir",
		LocationType:       types.LocationOnsite,
		SkillWeight:        0.4,
		ExperienceWeight:   0.3,
		EducationWeight:    0.2,
		LocationWeight:     0.1,
	}, []types.RequiredSkillRecord{{SkillID: skillX, SkillName: "X", Required: true}})

	// 4 holders score 95; 6 non-holders with no experience score 25 and fall below the threshold
	for i := 0; i < 10; i++ {
		c := types.Candidate{CandidateProfile: types.CandidateProfile{ID: uuid.New(), Status: types.CandidateStatusNew}}
		if i < 4 {
			c.TotalExperienceYears = 6
			c.Skills = []types.SkillRecord{{SkillID: skillX, SkillName: "X", Proficiency: types.ProficiencyExpert}}
		}
		store.PutCandidate(c)
	}
	svc := NewService(Deps{Repo: store})

	gaps, err := svc.SkillGaps(ctx, gapJob)
	require.NoError(t, err)
	assert.Equal(t, 0, gaps.PoolSize, "no stored matches yet")
	require.Len(t, gaps.Gaps, 1)

	res, err := svc.CalculateMatches(ctx, gapJob, RunOptions{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 4)

	gaps, err = svc.SkillGaps(ctx, gapJob)
	require.NoError(t, err)
	assert.Equal(t, 4, gaps.PoolSize)
	require.Len(t, gaps.Skills, 1)
	assert.Equal(t, 1.0, gaps.Skills[0].Coverage)
	assert.Empty(t, gaps.Gaps)
}

func TestAnalyticsAndExplain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.CalculateMatches(ctx, jobID, RunOptions{})
	require.NoError(t, err)

	dist, err := f.svc.Distribution(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, 3, dist.Count)
	assert.Equal(t, 100.0, dist.Max)

	gaps, err := f.svc.SkillGaps(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, 3, gaps.PoolSize)
	require.Len(t, gaps.Gaps, 1)
	assert.Equal(t, "Go", gaps.Gaps[0].SkillName)
	assert.True(t, gaps.Gaps[0].Required)

	exp, err := f.svc.Explain(ctx, res.Matches[1].ID)
	require.NoError(t, err)
	assert.True(t, exp.Found)
	assert.Equal(t, 1, exp.MissingRequiredSkills)
	assert.Equal(t, []string{"Go"}, exp.MissingSkillNames)

	exp, err = f.svc.Explain(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exp.Found)

	exp, err = f.svc.ExplainPair(ctx, candStrong, jobID)
	require.NoError(t, err)
	assert.True(t, exp.Found)
	assert.Equal(t, res.Matches[0].ID, exp.MatchID)
	assert.Equal(t, "strong", exp.Strength)

	exp, err = f.svc.ExplainPair(ctx, candHired, jobID)
	require.NoError(t, err)
	assert.False(t, exp.Found)

	_, err = f.svc.Distribution(ctx, uuid.New())
	assert.True(t, IsNotFound(err))
	_, err = f.svc.GetMatch(ctx, uuid.New())
	assert.True(t, IsNotFound(err))
}
