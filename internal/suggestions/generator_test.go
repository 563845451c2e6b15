package suggestions

import (
	"strings"
	"testing"

	"github.com/jonathan/profile-optimizer/internal/analysis"
	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/scoring"
	"github.com/jonathan/profile-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasSuggestion(list []types.Suggestion, typ types.SuggestionType, priority types.Priority, contains string) bool {
	for _, s := range list {
		if s.Type == typ && s.Priority == priority && strings.Contains(strings.ToLower(s.Suggestion), contains) {
			return true
		}
	}
	return false
}

func assertGrouped(t *testing.T, list []types.Suggestion) {
	t.Helper()
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].Priority.Rank(), list[i].Priority.Rank(), "suggestion %d out of priority order", i)
	}
}

func TestGenerate_ScenarioA(t *testing.T) {
	profile := &types.ProfileInput{
		Experiences: []types.ExperienceEntry{{Title: "Engineer", Company: "Acme"}},
	}
	findings := Findings{
		Profile:   profile,
		Structure: analysis.AnalyzeStructure(profile),
	}

	list := NewGenerator(config.DefaultPolicy()).Generate(findings)

	assert.True(t, hasSuggestion(list, types.SuggestionHeadline, types.PriorityHigh, "add a headline"))
	assert.True(t, hasSuggestion(list, types.SuggestionSummary, types.PriorityHigh, "add a summary"))
	assert.True(t, hasSuggestion(list, types.SuggestionSkills, types.PriorityHigh, "add skills"))
	assert.True(t, hasSuggestion(list, types.SuggestionExperience, types.PriorityHigh, "add your education"))
	assert.True(t, hasSuggestion(list, types.SuggestionExperience, types.PriorityMedium, "add a description for engineer at acme"))
	assert.False(t, hasSuggestion(list, types.SuggestionExperience, types.PriorityHigh, "add your work experience"))
	assertGrouped(t, list)
}

func TestStructureFindings_FollowMissingSections(t *testing.T) {
	tests := []struct {
		name      string
		structure types.StructureAnalysisResult
		wantKeys  []string
	}{
		{"all present", types.StructureAnalysisResult{HasHeadline: true, HasSummary: true, HasExperience: true, HasSkills: true, HasEducation: true}, []string{}},
		{"all missing", types.StructureAnalysisResult{}, []string{"structure:headline", "structure:summary", "structure:experience", "structure:skills", "structure:education"}},
		{"skills and education missing", types.StructureAnalysisResult{HasHeadline: true, HasSummary: true, HasExperience: true}, []string{"structure:skills", "structure:education"}},
	}

	g := NewGenerator(config.DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := g.structureFindings(Findings{Profile: &types.ProfileInput{}, Structure: tt.structure})

			keys := make([]string, 0, len(found))
			for _, fd := range found {
				keys = append(keys, fd.key)
				assert.Equal(t, types.PriorityHigh, fd.Priority)
			}
			assert.Equal(t, tt.wantKeys, keys)
			assert.Len(t, found, len(analysis.MissingSections(tt.structure)))
		})
	}
}

func TestGenerate_OrderingAndDiscovery(t *testing.T) {
	profile := &types.ProfileInput{
		Headline: "Engineer",
		Summary:  "Passionate synergy guru with dynamic bandwidth and more dynamic synergy",
		Skills:   []string{"go"},
	}
	corpus := &keywords.Corpus{
		Industry: "technology",
		Keywords: []keywords.Keyword{
			{Term: "python", Tokens: []string{"python"}, Frequency: 3, Source: keywords.SourceJobText},
			{Term: "go", Tokens: []string{"go"}, Frequency: 2, Source: keywords.SourceJobSkill},
			{Term: "cloud", Tokens: []string{"cloud"}, Frequency: 1, Source: keywords.SourceGlossary},
		},
	}
	policy := config.DefaultPolicy()
	ra := analysis.NewReadabilityAnalyzer(policy.ActiveVerbs, policy.Jargon, policy.Readability)
	scorer := scoring.NewSectionScorer(policy.Sections, ra)

	findings := Findings{
		Profile:     profile,
		JobTitle:    "Backend Engineer",
		Structure:   analysis.AnalyzeStructure(profile),
		Keywords:    keywords.Analyze(corpus, []string{"engineer", "go"}, policy.Keywords),
		Corpus:      corpus,
		Readability: ra.Analyze(profile.Summary),
		Sections:    scorer.ScoreAll(profile, corpus),
	}

	list := NewGenerator(policy).Generate(findings)
	require.NotEmpty(t, list)
	assertGrouped(t, list)

	// Structure findings come before keyword findings within the high group.
	assert.Equal(t, types.PriorityHigh, list[0].Priority)
	assert.Contains(t, list[0].Suggestion, "experience")
	assert.Contains(t, list[1].Suggestion, "education")
	assert.Contains(t, list[2].Suggestion, "missing keywords", "coverage 1/3 is below 50%")
	assert.Contains(t, list[2].Suggestion, "python, cloud")

	assert.True(t, hasSuggestion(list, types.SuggestionExperience, types.PriorityMedium, "key terms more often"))
	assert.True(t, hasSuggestion(list, types.SuggestionSkills, types.PriorityLow, "standard technology terms"))
	assert.True(t, hasSuggestion(list, types.SuggestionHeadline, types.PriorityMedium, "keywords in your headline"))
	assert.True(t, hasSuggestion(list, types.SuggestionSummary, types.PriorityLow, "buzzwords"))
	assert.True(t, hasSuggestion(list, types.SuggestionSummary, types.PriorityLow, "action verbs"))
	assert.True(t, hasSuggestion(list, types.SuggestionSummary, types.PriorityLow, "quantify"))
	assert.True(t, hasSuggestion(list, types.SuggestionHeadline, types.PriorityMedium, "strengthen your headline"))

	for _, s := range list {
		if s.Type == types.SuggestionHeadline && s.Example != "" {
			assert.Equal(t, "Backend Engineer | python, go, cloud", s.Example)
		}
	}
}

func TestGenerate_NoDuplicates(t *testing.T) {
	profile := &types.ProfileInput{Headline: "x"}
	findings := Findings{Profile: profile, Structure: analysis.AnalyzeStructure(profile)}

	list := NewGenerator(config.DefaultPolicy()).Generate(findings)

	seen := make(map[string]bool)
	for _, s := range list {
		key := string(s.Type) + "|" + s.Suggestion
		assert.False(t, seen[key], "duplicate suggestion %q", s.Suggestion)
		seen[key] = true
	}
}

func TestGenerate_StrongProfileHasFewSuggestions(t *testing.T) {
	profile := &types.ProfileInput{
		Headline: "Senior Go Engineer | Distributed Systems | Kubernetes",
		Summary: strings.Repeat("Led a team of 6 engineers building Go services on Kubernetes. ", 5) +
			"Reduced cloud costs by 30% and shipped 12 releases.",
		Experiences: []types.ExperienceEntry{{
			Title:       "Staff Engineer",
			Company:     "Acme",
			Description: "Built Go microservices on Kubernetes serving 2M users. Cut p95 latency by 45% and migrated 3 legacy systems.",
		}},
		Skills:    []string{"Go", "Kubernetes", "PostgreSQL", "Terraform", "gRPC"},
		Education: []types.EducationEntry{{School: "State University"}},
	}
	policy := config.DefaultPolicy()
	ra := analysis.NewReadabilityAnalyzer(policy.ActiveVerbs, policy.Jargon, policy.Readability)

	findings := Findings{
		Profile:     profile,
		Structure:   analysis.AnalyzeStructure(profile),
		Keywords:    keywords.Analyze(&keywords.Corpus{}, nil, policy.Keywords),
		Corpus:      &keywords.Corpus{},
		Readability: ra.Analyze(profile.Summary),
		Sections:    scoring.NewSectionScorer(policy.Sections, ra).ScoreAll(profile, &keywords.Corpus{}),
	}

	list := NewGenerator(policy).Generate(findings)
	for _, s := range list {
		assert.NotEqual(t, types.PriorityHigh, s.Priority, "unexpected high priority: %s", s.Suggestion)
	}
}

func TestGenerate_NilProfile(t *testing.T) {
	list := NewGenerator(config.DefaultPolicy()).Generate(Findings{})
	assert.Len(t, list, 5, "one suggestion per missing section")
	assertGrouped(t, list)
}

func TestExperienceLabel(t *testing.T) {
	assert.Equal(t, "Engineer at Acme", experienceLabel(types.ExperienceEntry{Title: "Engineer", Company: "Acme"}, 0))
	assert.Equal(t, "Engineer", experienceLabel(types.ExperienceEntry{Title: "Engineer"}, 0))
	assert.Equal(t, "your role at Acme", experienceLabel(types.ExperienceEntry{Company: "Acme"}, 0))
	assert.Equal(t, "experience entry 3", experienceLabel(types.ExperienceEntry{}, 2))
}
