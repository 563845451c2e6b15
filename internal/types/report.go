package types

import (
	"strings"
	"time"
)

// SuggestionType is the profile section a suggestion targets.
type SuggestionType string

// Suggestion types
const (
	SuggestionHeadline   SuggestionType = "headline"
	SuggestionSummary    SuggestionType = "summary"
	SuggestionExperience SuggestionType = "experience"
	SuggestionSkills     SuggestionType = "skills"
)

// SuggestionTypes lists every suggestion type in section order.
var SuggestionTypes = []SuggestionType{
	SuggestionHeadline,
	SuggestionSummary,
	SuggestionExperience,
	SuggestionSkills,
}

// Priority is the severity of a suggestion.
type Priority string

// Priorities
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of a priority. Lower ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Suggestion is a single actionable improvement.
type Suggestion struct {
	Type       SuggestionType `json:"type"`
	Priority   Priority       `json:"priority"`
	Suggestion string         `json:"suggestion"`
	Example    string         `json:"example,omitempty"`
}

// KeywordAnalysisResult is the keyword gap analysis of a profile against a corpus.
type KeywordAnalysisResult struct {
	MissingKeywords   []string `json:"missing_keywords"`
	UnderusedKeywords []string `json:"underused_keywords"`
	IndustryKeywords  []string `json:"industry_keywords"`
	Suggestions       []string `json:"suggestions"`
}

// StructureAnalysisResult records which required sections are present.
type StructureAnalysisResult struct {
	HasHeadline       bool `json:"has_headline"`
	HasSummary        bool `json:"has_summary"`
	HasExperience     bool `json:"has_experience"`
	HasSkills         bool `json:"has_skills"`
	HasEducation      bool `json:"has_education"`
	CompletenessScore int  `json:"completeness_score"`
}

// ReadabilityAnalysisResult holds sentence-level and lexical metrics over free text.
type ReadabilityAnalysisResult struct {
	SentenceCount     int      `json:"sentence_count"`
	AvgSentenceLength float64  `json:"avg_sentence_length"`
	ActiveVerbCount   int      `json:"active_verb_count"`
	MetricsCount      int      `json:"metrics_count"`
	JargonScore       float64  `json:"jargon_score"`
	ReadabilityScore  int      `json:"readability_score"`
	JargonTerms       []string `json:"jargon_terms,omitempty"`
}

// AnalysisReport is the complete quality report for a profile. A report is never
// modified after it is produced; recompute instead.
type AnalysisReport struct {
	OverallScore      int                     `json:"overall_score"`
	HeadlineScore     int                     `json:"headline_score"`
	SummaryScore      int                     `json:"summary_score"`
	ExperienceScore   int                     `json:"experience_score"`
	SkillsScore       int                     `json:"skills_score"`
	KeywordAnalysis   KeywordAnalysisResult   `json:"keyword_analysis"`
	StructureAnalysis StructureAnalysisResult `json:"structure_analysis"`
	ReadabilityScore  int                     `json:"readability_score"`
	Suggestions       []Suggestion            `json:"suggestions"`
	GeneratedAt       time.Time               `json:"generated_at"`
}

// SuggestionsFor returns the suggestions that target the given section, in report order.
func (r *AnalysisReport) SuggestionsFor(t SuggestionType) []Suggestion {
	out := make([]Suggestion, 0)
	if r == nil {
		return out
	}
	for _, s := range r.Suggestions {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Scores returns every integer score field of the report keyed by JSON name.
func (r *AnalysisReport) Scores() map[string]int {
	return map[string]int{
		"overall_score":      r.OverallScore,
		"headline_score":     r.HeadlineScore,
		"summary_score":      r.SummaryScore,
		"experience_score":   r.ExperienceScore,
		"skills_score":       r.SkillsScore,
		"readability_score":  r.ReadabilityScore,
		"completeness_score": r.StructureAnalysis.CompletenessScore,
	}
}

// JobMatchResult is the keyword match of a resume against a job posting.
type JobMatchResult struct {
	Score         int `json:"score"`
	MatchCount    int `json:"match_count"`
	TotalKeywords int `json:"total_keywords"`
}

// ReportTitle names a report for listings: the target job when there is one, else the profile headline.
func ReportTitle(profile *ProfileInput, job *JobContext) string {
	if job != nil && strings.TrimSpace(job.Title) != "" {
		if company := strings.TrimSpace(job.Company); company != "" {
			return strings.TrimSpace(job.Title) + " at " + company
		}
		return strings.TrimSpace(job.Title)
	}
	if profile != nil && strings.TrimSpace(profile.Headline) != "" {
		return strings.TrimSpace(profile.Headline)
	}
	return "Profile analysis"
}
