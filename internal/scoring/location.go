package scoring

import (
	"strings"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Location scores
const (
	locationExact    = 100.0
	locationPartial  = 90.0
	locationHybrid   = 60.0
	locationMismatch = 30.0
	locationNeutral  = 50.0
)

// LocationScore scores a candidate location against the job location.
// Remote jobs always score 100; a missing location on either side is neutral (50).
func LocationScore(candidateLocation, jobLocation string, locationType types.LocationType) float64 {
	if locationType == types.LocationRemote {
		return locationExact
	}

	cand := strings.ToLower(strings.TrimSpace(candidateLocation))
	job := strings.ToLower(strings.TrimSpace(jobLocation))
	if cand == "" || job == "" {
		return locationNeutral
	}

	switch {
	case cand == job:
		return locationExact
	case strings.Contains(cand, job) || strings.Contains(job, cand):
		return locationPartial
	case locationType == types.LocationHybrid:
		return locationHybrid
	default:
		return locationMismatch
	}
}
