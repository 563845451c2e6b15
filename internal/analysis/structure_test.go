package analysis

import (
	"testing"

	"github.com/jonathan/profile-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeStructure(t *testing.T) {
	tests := []struct {
		name     string
		profile  *types.ProfileInput
		expected types.StructureAnalysisResult
	}{
		{
			name:     "nil profile",
			profile:  nil,
			expected: types.StructureAnalysisResult{},
		},
		{
			name: "scenario A: one experience only",
			profile: &types.ProfileInput{
				Headline:    "   ",
				Experiences: []types.ExperienceEntry{{Title: "Engineer", Company: "Acme"}},
			},
			expected: types.StructureAnalysisResult{
				HasExperience:     true,
				CompletenessScore: 20,
			},
		},
		{
			name: "complete profile",
			profile: &types.ProfileInput{
				Headline:    "Engineer",
				Summary:     "Builds things.",
				Experiences: []types.ExperienceEntry{{Title: "Engineer"}},
				Skills:      []string{"go"},
				Education:   []types.EducationEntry{{School: "MIT"}},
			},
			expected: types.StructureAnalysisResult{
				HasHeadline:       true,
				HasSummary:        true,
				HasExperience:     true,
				HasSkills:         true,
				HasEducation:      true,
				CompletenessScore: 100,
			},
		},
		{
			name: "three of five",
			profile: &types.ProfileInput{
				Headline:  "Engineer",
				Summary:   "Builds things.",
				Education: []types.EducationEntry{{School: "MIT"}},
			},
			expected: types.StructureAnalysisResult{
				HasHeadline:       true,
				HasSummary:        true,
				HasEducation:      true,
				CompletenessScore: 60,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnalyzeStructure(tt.profile))
		})
	}
}

func TestCompletenessScore_IsMonotonic(t *testing.T) {
	flags := []func(*types.StructureAnalysisResult){
		func(s *types.StructureAnalysisResult) { s.HasHeadline = true },
		func(s *types.StructureAnalysisResult) { s.HasSummary = true },
		func(s *types.StructureAnalysisResult) { s.HasExperience = true },
		func(s *types.StructureAnalysisResult) { s.HasSkills = true },
		func(s *types.StructureAnalysisResult) { s.HasEducation = true },
	}

	var s types.StructureAnalysisResult
	prev := CompletenessScore(s)
	assert.Equal(t, 0, prev)
	for _, set := range flags {
		set(&s)
		next := CompletenessScore(s)
		assert.Greater(t, next, prev)
		prev = next
	}
	assert.Equal(t, 100, prev)
}

func TestMissingSections(t *testing.T) {
	s := types.StructureAnalysisResult{HasExperience: true, HasSkills: true}
	assert.Equal(t, []string{"headline", "summary", "education"}, MissingSections(s))
	assert.Empty(t, MissingSections(types.StructureAnalysisResult{
		HasHeadline: true, HasSummary: true, HasExperience: true, HasSkills: true, HasEducation: true,
	}))
}
