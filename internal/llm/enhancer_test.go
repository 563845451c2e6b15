package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-optimizer/internal/types"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
	tiers    []ModelTier
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	return f.response, f.err
}

func (f *fakeGenerator) Close() error { return nil }

func sampleReport() *types.AnalysisReport {
	return &types.AnalysisReport{
		OverallScore: 40,
		Suggestions: []types.Suggestion{
			{Type: types.SuggestionHeadline, Priority: types.PriorityHigh, Suggestion: "Add a headline."},
			{Type: types.SuggestionSkills, Priority: types.PriorityMedium, Suggestion: "Add missing keywords: go", Example: "Go, PostgreSQL"},
			{Type: types.SuggestionSummary, Priority: types.PriorityLow, Suggestion: "Quantify your impact."},
		},
	}
}

func TestEnhancer_Enhance(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n[{\"index\": 1, \"example\": \"Backend Engineer | Go\"}, {\"index\": 2, \"example\": \"Cut latency by 40%.\"}, {\"index\": 9, \"example\": \"ignored\"}]\n```"}
	enhancer := NewEnhancer(gen, nil, nil)
	report := sampleReport()
	profile := &types.ProfileInput{Summary: "I build Go services.", Industry: "Technology"}

	enhanced, err := enhancer.Enhance(context.Background(), report, profile, "Backend Engineer")
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer | Go", enhanced.Suggestions[0].Example)
	assert.Equal(t, "Go, PostgreSQL", enhanced.Suggestions[1].Example, "existing examples are kept")
	assert.Equal(t, "Cut latency by 40%.", enhanced.Suggestions[2].Example)
	assert.Equal(t, report.OverallScore, enhanced.OverallScore)

	assert.Empty(t, report.Suggestions[0].Example, "input report is not mutated")

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "1. [headline] Add a headline.")
	assert.Contains(t, prompt, "2. [summary] Quantify your impact.")
	assert.NotContains(t, prompt, "Add missing keywords")
	assert.Contains(t, prompt, "Target role: Backend Engineer")
	assert.Contains(t, prompt, "Industry: Technology")
	assert.Contains(t, prompt, "I build Go services.")
	assert.Equal(t, []ModelTier{TierLite}, gen.tiers)
}

func TestEnhancer_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"generation error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"invalid json", &fakeGenerator{response: "not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := sampleReport()
			enhanced, err := NewEnhancer(tt.gen, nil, nil).Enhance(context.Background(), report, nil, "")
			assert.Error(t, err)
			assert.Same(t, report, enhanced, "failures degrade to the original report")
		})
	}
}

func TestEnhancer_NothingToDo(t *testing.T) {
	gen := &fakeGenerator{}
	report := &types.AnalysisReport{Suggestions: []types.Suggestion{{Suggestion: "x", Example: "y"}}}

	enhanced, err := NewEnhancer(gen, nil, nil).Enhance(context.Background(), report, nil, "")
	require.NoError(t, err)
	assert.Same(t, report, enhanced)
	assert.Empty(t, gen.prompts)
}

func TestEnhancer_CapsPendingSuggestions(t *testing.T) {
	gen := &fakeGenerator{response: "[]"}
	report := &types.AnalysisReport{}
	for i := 0; i < 5; i++ {
		report.Suggestions = append(report.Suggestions, types.Suggestion{Type: types.SuggestionSkills, Suggestion: "s"})
	}
	cfg := DefaultConfig()
	cfg.MaxExamples = 2

	_, err := NewEnhancer(gen, cfg, nil).Enhance(context.Background(), report, nil, "")
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0], "2. [skills] s")
	assert.NotContains(t, gen.prompts[0], "3. [skills] s")
}

func TestEnhancer_NilReport(t *testing.T) {
	_, err := NewEnhancer(&fakeGenerator{}, nil, nil).Enhance(context.Background(), nil, nil, "")
	assert.Error(t, err)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[1]\n```", "[1]"},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without newline", "```[1]```", "[1]"},
		{"whitespace", "  \n[1]\n ", "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONBlock(tt.input))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
	out := truncateRunes(strings.Repeat("é", 20), 10)
	assert.Equal(t, 10, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestConfig_ModelFor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.ModelFor(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelFor(TierStandard))

	delete(cfg.Models, TierStandard)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.ModelFor(TierStandard))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), nil, "")
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "API key is required")
}
