package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/profile-optimizer/internal/types"
)

func sampleReport() *types.AnalysisReport {
	return &types.AnalysisReport{
		OverallScore:    72,
		HeadlineScore:   80,
		SummaryScore:    65,
		ExperienceScore: 70,
		SkillsScore:     90,
		KeywordAnalysis: types.KeywordAnalysisResult{
			MissingKeywords:   []string{"terraform", "airflow", "kafka", "spark", "dbt", "looker"},
			UnderusedKeywords: []string{"sql"},
		},
		StructureAnalysis: types.StructureAnalysisResult{
			HasHeadline: true, HasSummary: true, HasExperience: true, HasSkills: true,
			CompletenessScore: 80,
		},
		ReadabilityScore: 85,
		Suggestions: []types.Suggestion{
			{Type: types.SuggestionSkills, Priority: types.PriorityHigh, Suggestion: "Add missing keywords: terraform", Example: "Terraform, AWS"},
			{Type: types.SuggestionSummary, Priority: types.PriorityLow, Suggestion: "Quantify one achievement"},
		},
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(sampleReport())
	output := buf.String()

	for _, want := range []string{
		"PROFILE SCORES", "Overall", " 72", "2025-06-01 12:00:00 UTC",
		"PROFILE STRUCTURE", "✓ Headline", "✗ Education", "Completeness: 80%",
		"KEYWORD ANALYSIS", "terraform, airflow, kafka, spark, dbt", "... and 1 more", "Underused",
		"SUGGESTIONS", "[HIGH] skills", "e.g. Terraform, AWS", "[LOW] summary",
	} {
		assert.Contains(t, output, want)
	}
	assert.NotContains(t, output, "looker")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(nil)
	p.PrintScores(nil)
	p.PrintMatch(nil)

	assert.Empty(t, buf.String())
}

func TestPrintKeywords_NoGaps(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintKeywords(types.KeywordAnalysisResult{})
	assert.Contains(t, buf.String(), "No keyword gaps found")
}

func TestPrintSuggestions_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSuggestions(nil)
	assert.Contains(t, buf.String(), "Nothing to improve")
}

func TestPrintSuggestions_Truncates(t *testing.T) {
	suggestions := make([]types.Suggestion, 13)
	for i := range suggestions {
		suggestions[i] = types.Suggestion{Type: types.SuggestionHeadline, Priority: types.PriorityMedium, Suggestion: "Tighten the headline"}
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintSuggestions(suggestions)
	assert.Contains(t, buf.String(), "13 suggestions")
	assert.Contains(t, buf.String(), "... and 3 more suggestions")
}

func TestPrintMatch(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatch(&types.JobMatchResult{Score: 67, MatchCount: 2, TotalKeywords: 3})

	assert.Contains(t, buf.String(), "JOB MATCH")
	assert.Contains(t, buf.String(), "Matched:  2 of 3 keywords")
	assert.Contains(t, buf.String(), strings.Repeat("█", 13))
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", "short\n"+strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score  int
		filled int
	}{
		{0, 0},
		{50, 10},
		{100, 20},
		{150, 20},
		{-5, 0},
	}
	for _, tt := range tests {
		bar := scoreBar(tt.score)
		assert.Equal(t, barWidth, utf8.RuneCountInString(bar))
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "score %d", tt.score)
	}
}
