// Package analytics aggregates match results into score distributions, skill gaps and review summaries.
package analytics

import (
	"math"
	"sort"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Bucket is one score range of a distribution. Max is exclusive except for the last bucket.
type Bucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Distribution summarizes the overall scores of a job's matches
type Distribution struct {
	Count   int      `json:"count"`
	Mean    float64  `json:"mean"`
	Median  float64  `json:"median"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Buckets []Bucket `json:"buckets"`
}

func emptyBuckets() []Bucket {
	return []Bucket{
		{Label: "0-20", Min: 0, Max: 20},
		{Label: "20-40", Min: 20, Max: 40},
		{Label: "40-60", Min: 40, Max: 60},
		{Label: "60-80", Min: 60, Max: 80},
		{Label: "80-100", Min: 80, Max: 100},
	}
}

// ComputeDistribution summarizes the overall scores of matches. For an even count
// the median is the lower of the two middle values. An empty input returns Count 0.
func ComputeDistribution(matches []types.MatchResult) Distribution {
	scores := make([]float64, len(matches))
	for i := range matches {
		scores[i] = matches[i].OverallScore
	}
	return DistributionOf(scores)
}

// DistributionOf summarizes a raw list of scores
func DistributionOf(scores []float64) Distribution {
	d := Distribution{Buckets: emptyBuckets()}
	if len(scores) == 0 {
		return d
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, s := range sorted {
		sum += s
		d.Buckets[bucketIndex(s)].Count++
	}

	d.Count = len(sorted)
	d.Mean = math.Round(sum/float64(d.Count)*100) / 100
	d.Median = sorted[(d.Count-1)/2]
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	return d
}

func bucketIndex(score float64) int {
	switch {
	case score < 20:
		return 0
	case score < 40:
		return 1
	case score < 60:
		return 2
	case score < 80:
		return 3
	default:
		return 4
	}
}

// ReviewSummary counts matches per review status
type ReviewSummary struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Reviewed    int `json:"reviewed"`
}

// SummarizeReviews counts matches per review status. An empty status counts as pending.
func SummarizeReviews(matches []types.MatchResult) ReviewSummary {
	var s ReviewSummary
	for i := range matches {
		s.Total++
		switch matches[i].ReviewStatus {
		case types.ReviewShortlisted:
			s.Shortlisted++
		case types.ReviewRejected:
			s.Rejected++
		case types.ReviewReviewed:
			s.Reviewed++
		default:
			s.Pending++
		}
	}
	return s
}
