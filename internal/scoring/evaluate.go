package scoring

import (
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Evaluate computes all four sub-scores for one candidate against one job.
// The returned breakdown carries every per-factor detail except the weights,
// which are filled in by the combiner.
func Evaluate(job *types.JobRequirement, required []types.RequiredSkillRecord, candidate *types.Candidate) (types.SubScores, types.ScoreBreakdown) {
	skill, skillDetails := SkillScore(candidate.Skills, required)

	pref := job.MinExperienceYears
	if job.PreferredExperienceYears != nil && *job.PreferredExperienceYears > pref {
		pref = *job.PreferredExperienceYears
	}

	scores := types.SubScores{
		Skill:      skill,
		Experience: ExperienceScore(candidate.TotalExperienceYears, job.MinExperienceYears, job.PreferredExperienceYears),
		Education:  EducationScore(candidate.EducationLevel, job.RequiredEducation),
		Location:   LocationScore(candidate.Location, job.Location, job.LocationType),
	}

	breakdown := types.ScoreBreakdown{
		SkillDetails: skillDetails,
		ExperienceDetails: types.ExperienceDetails{
			CandidateYears: candidate.TotalExperienceYears,
			MinYears:       job.MinExperienceYears,
			PreferredYears: pref,
		},
		EducationDetails: types.EducationDetails{
			CandidateLevel: candidate.EducationLevel,
			RequiredLevel:  job.RequiredEducation,
		},
		LocationDetails: types.LocationDetails{
			CandidateLocation: candidate.Location,
			JobLocation:       job.Location,
			LocationType:      job.LocationType,
		},
	}

	return scores, breakdown
}
