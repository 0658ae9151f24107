// Package filtering applies declarative FilterCriteria to candidates and scored matches.
package filtering

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// Predicate names reported in Result.Failed
const (
	PredicateSkills         = "skills"
	PredicateMinExperience  = "min_experience"
	PredicateMaxExperience  = "max_experience"
	PredicateLocations      = "locations"
	PredicateStatuses       = "statuses"
	PredicateMinScore       = "min_score"
	PredicateLanguages      = "languages"
	PredicateCertifications = "certifications"
	PredicateTags           = "tags"
)

// Result is the outcome of evaluating one candidate against a criteria set
type Result struct {
	Passed bool     `json:"passed"`
	Failed []string `json:"failed,omitempty"`
}

// Step records how many items one filter pass kept and dropped
type Step struct {
	Name    string `json:"name"`
	Initial int    `json:"initial"`
	Dropped int    `json:"dropped"`
	Left    int    `json:"left"`
}

// CandidateLookup resolves the candidate behind a match
type CandidateLookup func(id uuid.UUID) (*types.Candidate, bool)

// Engine evaluates FilterCriteria. It holds no state besides its logger.
type Engine struct {
	logger *zap.Logger
}

// New creates a filter engine. A nil logger disables logging.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Evaluate ANDs every predicate set in criteria. score is the candidate's composite
// score for the min-score predicate; a nil score fails that predicate when it is set.
func (e *Engine) Evaluate(c *types.Candidate, score *float64, criteria *types.FilterCriteria) Result {
	return evaluate(c, score, criteria, true)
}

// PreFilter keeps candidates passing every predicate except the min score,
// which cannot be known before scoring.
func (e *Engine) PreFilter(candidates []types.Candidate, criteria *types.FilterCriteria) ([]types.Candidate, Step) {
	initial := len(candidates)
	if criteria == nil || criteria.IsEmpty() {
		return candidates, Step{Name: "pre_filter", Initial: initial, Left: initial}
	}

	kept := make([]types.Candidate, 0, len(candidates))
	var excluded []string
	for i := range candidates {
		if evaluate(&candidates[i], nil, criteria, false).Passed {
			kept = append(kept, candidates[i])
			continue
		}
		excluded = append(excluded, candidates[i].ID.String())
	}

	step := Step{Name: "pre_filter", Initial: initial, Dropped: len(excluded), Left: len(kept)}
	if len(excluded) > 0 {
		e.logger.Info("excluding candidates by filter criteria",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", len(kept)),
		)
	}
	return kept, step
}

// PostFilter keeps matches whose candidate passes every predicate including the
// min score. A match whose candidate cannot be resolved is checked against an empty profile.
func (e *Engine) PostFilter(matches []types.MatchResult, lookup CandidateLookup, criteria *types.FilterCriteria) ([]types.MatchResult, Step) {
	initial := len(matches)
	if criteria == nil || criteria.IsEmpty() {
		return matches, Step{Name: "post_filter", Initial: initial, Left: initial}
	}

	kept := make([]types.MatchResult, 0, len(matches))
	var excluded []string
	for i := range matches {
		m := &matches[i]
		c := &types.Candidate{CandidateProfile: types.CandidateProfile{ID: m.CandidateID}}
		if lookup != nil {
			if found, ok := lookup(m.CandidateID); ok && found != nil {
				c = found
			}
		}
		score := m.OverallScore
		if evaluate(c, &score, criteria, true).Passed {
			kept = append(kept, *m)
			continue
		}
		excluded = append(excluded, m.CandidateID.String())
	}

	step := Step{Name: "post_filter", Initial: initial, Dropped: len(excluded), Left: len(kept)}
	if len(excluded) > 0 {
		e.logger.Info("excluding matches by filter criteria",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("matches_left", len(kept)),
		)
	}
	return kept, step
}

func evaluate(c *types.Candidate, score *float64, criteria *types.FilterCriteria, withScore bool) Result {
	res := Result{Passed: true}
	if criteria == nil {
		return res
	}
	fail := func(name string) {
		res.Passed = false
		res.Failed = append(res.Failed, name)
	}

	if !MatchSkills(c, criteria.SkillIDs, criteria.Mode()) {
		fail(PredicateSkills)
	}
	if criteria.MinExperience != nil && c.TotalExperienceYears < *criteria.MinExperience {
		fail(PredicateMinExperience)
	}
	if criteria.MaxExperience != nil && c.TotalExperienceYears > *criteria.MaxExperience {
		fail(PredicateMaxExperience)
	}
	if !MatchLocation(c.Location, criteria.Locations) {
		fail(PredicateLocations)
	}
	if !MatchStatus(c.Status, criteria.Statuses) {
		fail(PredicateStatuses)
	}
	if withScore && criteria.MinScore != nil && (score == nil || *score < *criteria.MinScore) {
		fail(PredicateMinScore)
	}
	if !MatchLanguages(c.Languages, criteria.Languages) {
		fail(PredicateLanguages)
	}
	if !MatchCertifications(c.Certifications, criteria.CertificationPatterns) {
		fail(PredicateCertifications)
	}
	if !MatchTags(c.Tags, criteria.Tags) {
		fail(PredicateTags)
	}

	return res
}

// MatchSkills checks the candidate against a list of skill ids. In "all" mode every id
// must be held; in "any" mode at least one. An empty list always matches.
func MatchSkills(c *types.Candidate, ids []uuid.UUID, mode types.SkillMatchMode) bool {
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		held := c.HasSkill(id)
		if mode == types.SkillMatchAny && held {
			return true
		}
		if mode != types.SkillMatchAny && !held {
			return false
		}
	}
	return mode != types.SkillMatchAny
}

// MatchLocation is a case-insensitive substring match in either direction against any allowed location.
func MatchLocation(location string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	loc := normalize(location)
	if loc == "" {
		return false
	}
	for _, a := range allowed {
		want := normalize(a)
		if want == "" {
			continue
		}
		if strings.Contains(loc, want) || strings.Contains(want, loc) {
			return true
		}
	}
	return false
}

// MatchStatus is a case-insensitive membership test
func MatchStatus(status types.CandidateStatus, allowed []types.CandidateStatus) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(string(a)), strings.TrimSpace(string(status))) {
			return true
		}
	}
	return false
}

// MatchLanguages requires the candidate to hold every listed language.
func MatchLanguages(held []types.CandidateLanguage, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]bool, len(held))
	for _, l := range held {
		set[normalize(l.Language)] = true
	}
	for _, r := range required {
		if !set[normalize(r)] {
			return false
		}
	}
	return true
}

// MatchCertifications requires every pattern to be a case-insensitive substring of some certification name.
func MatchCertifications(held []types.Certification, patterns []string) bool {
	for _, p := range patterns {
		pattern := normalize(p)
		found := false
		for _, cert := range held {
			if strings.Contains(normalize(cert.Name), pattern) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchTags passes when the candidate carries any tag in the allow-list.
func MatchTags(tags []string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range tags {
		for _, a := range allowed {
			if normalize(t) == normalize(a) {
				return true
			}
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
