package analytics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

func matchesWithScores(scores ...float64) []types.MatchResult {
	out := make([]types.MatchResult, len(scores))
	for i, s := range scores {
		out[i] = types.MatchResult{CandidateID: uuid.New(), OverallScore: s}
	}
	return out
}

func bucketCounts(d Distribution) []int {
	counts := make([]int, len(d.Buckets))
	for i, b := range d.Buckets {
		counts[i] = b.Count
	}
	return counts
}

func TestComputeDistribution_OddCount(t *testing.T) {
	d := ComputeDistribution(matchesWithScores(80, 10, 40, 20, 30))

	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 36.0, d.Mean)
	assert.Equal(t, 30.0, d.Median)
	assert.Equal(t, 10.0, d.Min)
	assert.Equal(t, 80.0, d.Max)
	assert.Equal(t, []int{1, 2, 1, 0, 1}, bucketCounts(d))
}

func TestComputeDistribution_EvenCountUsesLowerMiddle(t *testing.T) {
	d := ComputeDistribution(matchesWithScores(15, 25, 45, 65, 85, 95))

	assert.Equal(t, 45.0, d.Median)
	assert.Equal(t, []int{1, 1, 1, 1, 2}, bucketCounts(d))
}

func TestComputeDistribution_BucketEdges(t *testing.T) {
	d := DistributionOf([]float64{0, 19.99, 20, 79.99, 80, 100})

	assert.Equal(t, []int{2, 1, 0, 1, 2}, bucketCounts(d))
}

func TestComputeDistribution_Empty(t *testing.T) {
	d := ComputeDistribution(nil)

	assert.Equal(t, 0, d.Count)
	assert.Equal(t, 0.0, d.Mean)
	require.Len(t, d.Buckets, 5)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, bucketCounts(d))
}

func TestSkillGaps(t *testing.T) {
	goID := uuid.New()
	k8sID := uuid.New()
	required := []types.RequiredSkillRecord{
		{SkillID: goID, SkillName: "Go", Required: true},
		{SkillID: k8sID, SkillName: "Kubernetes", Required: false},
	}

	pool := make([]types.Candidate, 10)
	for i := range pool {
		pool[i].ID = uuid.New()
		if i < 6 {
			pool[i].Skills = append(pool[i].Skills, types.SkillRecord{SkillID: goID})
		}
		if i < 2 {
			pool[i].Skills = append(pool[i].Skills, types.SkillRecord{SkillID: k8sID})
		}
	}

	report := SkillGaps(required, pool)

	assert.Equal(t, 10, report.PoolSize)
	require.Len(t, report.Skills, 2)
	assert.Equal(t, "Kubernetes", report.Skills[0].SkillName)
	assert.InDelta(t, 0.2, report.Skills[0].Coverage, 1e-9)
	assert.InDelta(t, 0.6, report.Skills[1].Coverage, 1e-9)

	require.Len(t, report.Gaps, 1)
	assert.Equal(t, "Kubernetes", report.Gaps[0].SkillName)
	assert.False(t, report.Gaps[0].Required)
	assert.Equal(t, 2, report.Gaps[0].Holders)
}

func TestSkillGaps_RequiredSkillHeldByTwoOfTen(t *testing.T) {
	rustID := uuid.New()
	required := []types.RequiredSkillRecord{{SkillID: rustID, SkillName: "Rust", Required: true}}

	pool := make([]types.Candidate, 10)
	for i := range pool {
		pool[i].ID = uuid.New()
		if i < 2 {
			pool[i].Skills = []types.SkillRecord{{SkillID: rustID}}
		}
	}

	report := SkillGaps(required, pool)

	require.Len(t, report.Skills, 1)
	assert.InDelta(t, 0.2, report.Skills[0].Coverage, 1e-9)
	assert.True(t, report.Skills[0].Gap)
	require.Len(t, report.Gaps, 1)
	assert.Equal(t, "Rust", report.Gaps[0].SkillName)
	assert.True(t, report.Gaps[0].Required)
	assert.Equal(t, 2, report.Gaps[0].Holders)
	assert.Equal(t, 10, report.Gaps[0].PoolSize)
}

func TestSkillGaps_NameFallbackAndEmptyPool(t *testing.T) {
	required := []types.RequiredSkillRecord{{SkillID: uuid.New(), SkillName: "PostgreSQL", Required: true}}
	pool := []types.Candidate{{Skills: []types.SkillRecord{{SkillName: "postgresql"}}}}

	report := SkillGaps(required, pool)
	assert.Equal(t, 1.0, report.Skills[0].Coverage)
	assert.Empty(t, report.Gaps)

	empty := SkillGaps(required, nil)
	require.Len(t, empty.Gaps, 1)
	assert.True(t, empty.Gaps[0].Required)
}

func TestSummarizeReviews(t *testing.T) {
	matches := matchesWithScores(50, 60, 70, 80, 90)
	matches[0].ReviewStatus = types.ReviewShortlisted
	matches[1].ReviewStatus = types.ReviewRejected
	matches[2].ReviewStatus = types.ReviewReviewed
	matches[3].ReviewStatus = types.ReviewPending

	s := SummarizeReviews(matches)

	assert.Equal(t, ReviewSummary{Total: 5, Pending: 2, Shortlisted: 1, Rejected: 1, Reviewed: 1}, s)
}
