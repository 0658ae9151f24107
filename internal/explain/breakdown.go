package explain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// DecodeBreakdown reads a stored breakdown document. It accepts the current layout
// and older flat documents that used camelCase keys or "<factor>_weight" fields.
// Absent weights stay zero so that the caller's defaults apply.
func DecodeBreakdown(raw []byte) (types.ScoreBreakdown, error) {
	var bd types.ScoreBreakdown
	if len(raw) == 0 {
		return bd, nil
	}
	if !gjson.ValidBytes(raw) {
		return bd, fmt.Errorf("breakdown is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)

	bd.Weights = types.MatchWeights{
		Skill:      firstFloat(doc, "weights.skill", "skill_weight", "skillWeight"),
		Experience: firstFloat(doc, "weights.experience", "experience_weight", "experienceWeight"),
		Education:  firstFloat(doc, "weights.education", "education_weight", "educationWeight"),
		Location:   firstFloat(doc, "weights.location", "location_weight", "locationWeight"),
	}

	skills := first(doc, "skill_details", "skillDetails", "skills")
	skills.Get("matched").ForEach(func(_, v gjson.Result) bool {
		bd.SkillDetails.Matched = append(bd.SkillDetails.Matched, types.SkillMatchDetail{
			SkillID:              parseID(first(v, "skill_id", "skillId")),
			SkillName:            first(v, "skill_name", "skillName", "name").String(),
			Required:             v.Get("required").Bool(),
			CandidateProficiency: types.Proficiency(first(v, "candidate_proficiency", "candidateProficiency").String()),
			RequiredProficiency:  types.Proficiency(first(v, "required_proficiency", "requiredProficiency").String()),
			Multiplier:           v.Get("multiplier").Float(),
			Contribution:         v.Get("contribution").Float(),
		})
		return true
	})
	skills.Get("missing").ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			bd.SkillDetails.Missing = append(bd.SkillDetails.Missing, types.SkillMissDetail{SkillName: v.String(), Required: true})
			return true
		}
		bd.SkillDetails.Missing = append(bd.SkillDetails.Missing, types.SkillMissDetail{
			SkillID:   parseID(first(v, "skill_id", "skillId")),
			SkillName: first(v, "skill_name", "skillName", "name").String(),
			Required:  v.Get("required").Bool(),
		})
		return true
	})
	bd.SkillDetails.RequiredMatched = int(first(skills, "required_matched", "requiredMatched").Int())
	bd.SkillDetails.RequiredTotal = int(first(skills, "required_total", "requiredTotal").Int())
	bd.SkillDetails.TotalWeight = first(skills, "total_weight", "totalWeight").Float()
	bd.SkillDetails.MatchedWeight = first(skills, "matched_weight", "matchedWeight").Float()

	// Older documents only listed missing skills; every entry counted as required
	if bd.SkillDetails.RequiredTotal == 0 && len(bd.SkillDetails.Missing) > 0 {
		for _, m := range bd.SkillDetails.Missing {
			if m.Required {
				bd.SkillDetails.RequiredTotal++
			}
		}
		for _, m := range bd.SkillDetails.Matched {
			if m.Required {
				bd.SkillDetails.RequiredMatched++
				bd.SkillDetails.RequiredTotal++
			}
		}
	}

	exp := first(doc, "experience_details", "experienceDetails")
	bd.ExperienceDetails = types.ExperienceDetails{
		CandidateYears: first(exp, "candidate_years", "candidateYears").Float(),
		MinYears:       first(exp, "min_years", "minYears").Float(),
		PreferredYears: first(exp, "preferred_years", "preferredYears").Float(),
	}

	edu := first(doc, "education_details", "educationDetails")
	bd.EducationDetails = types.EducationDetails{
		CandidateLevel: first(edu, "candidate_level", "candidateLevel").String(),
		RequiredLevel:  first(edu, "required_level", "requiredLevel").String(),
	}

	loc := first(doc, "location_details", "locationDetails")
	bd.LocationDetails = types.LocationDetails{
		CandidateLocation: first(loc, "candidate_location", "candidateLocation").String(),
		JobLocation:       first(loc, "job_location", "jobLocation").String(),
		LocationType:      types.LocationType(first(loc, "location_type", "locationType").String()),
	}

	return bd, nil
}

func first(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func firstFloat(doc gjson.Result, paths ...string) float64 {
	return first(doc, paths...).Float()
}

func parseID(r gjson.Result) uuid.UUID {
	id, err := uuid.Parse(r.String())
	if err != nil {
		return uuid.Nil
	}
	return id
}
