//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProficiency_Level(t *testing.T) {
	tests := []struct {
		in   Proficiency
		want int
	}{
		{ProficiencyBeginner, 1},
		{ProficiencyIntermediate, 2},
		{ProficiencyAdvanced, 3},
		{ProficiencyExpert, 4},
		{"EXPERT", 4},
		{" advanced ", 3},
		{"", 2},
		{"guru", 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Level())
		})
	}
}

func TestEducationRank(t *testing.T) {
	assert.Equal(t, 1, EducationRank("high_school"))
	assert.Equal(t, 3, EducationRank("Bachelor"))
	assert.Equal(t, 4, EducationRank("masters"))
	assert.Equal(t, 5, EducationRank("PhD"))
	assert.Equal(t, 5, EducationRank("doctorate"))
	assert.Equal(t, 0, EducationRank(""))
	assert.Equal(t, 0, EducationRank("bootcamp"))
}

func TestParseLocationType(t *testing.T) {
	assert.Equal(t, LocationRemote, ParseLocationType("Remote"))
	assert.Equal(t, LocationHybrid, ParseLocationType("hybrid"))
	assert.Equal(t, LocationOnsite, ParseLocationType("on-site"))
	assert.Equal(t, LocationOnsite, ParseLocationType(""))
}

func TestCandidate_SkillHelpers(t *testing.T) {
	goID, sqlID := uuid.New(), uuid.New()
	c := Candidate{Skills: []SkillRecord{
		{SkillID: goID, Verified: true},
		{SkillID: sqlID},
	}}

	assert.True(t, c.HasSkill(goID))
	assert.False(t, c.HasSkill(uuid.New()))
	assert.Equal(t, 1, c.VerifiedSkillCount())
}

func TestRequiredSkillRecord_BaseWeight(t *testing.T) {
	assert.Equal(t, 1.0, (&RequiredSkillRecord{}).BaseWeight())
	assert.Equal(t, 1.0, (&RequiredSkillRecord{Weight: -2}).BaseWeight())
	assert.Equal(t, 2.5, (&RequiredSkillRecord{Weight: 2.5}).BaseWeight())
}
