package keywords

import (
	"fmt"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/parsing"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// Occurrence is a corpus keyword with its occurrence count in the candidate text.
type Occurrence struct {
	Keyword
	Count int
}

// Analysis is the full keyword classification of a candidate text against a corpus.
type Analysis struct {
	Result types.KeywordAnalysisResult
	// Matched is the number of corpus keywords that occur at least once.
	Matched int
	// Total is the number of corpus keywords.
	Total int
	// MissingIndustry are glossary terms absent from the candidate, in corpus order.
	MissingIndustry []string
}

// Coverage returns the fraction of corpus keywords found in the candidate. An empty corpus covers 0.
func (a *Analysis) Coverage() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Matched) / float64(a.Total)
}

// IsHighImportance reports whether a keyword must appear at least policy.UnderusedMinOccurrences times.
func IsHighImportance(kw Keyword, policy config.KeywordPolicy) bool {
	return kw.Source != SourceJobText || kw.Frequency >= policy.HighImportanceFrequency
}

// Analyze classifies every corpus keyword as missing, underused or sufficiently used in the candidate tokens.
func Analyze(corpus *Corpus, candidate []string, policy config.KeywordPolicy) *Analysis {
	analysis := &Analysis{
		Result: types.KeywordAnalysisResult{
			MissingKeywords:   make([]string, 0),
			UnderusedKeywords: make([]string, 0),
			IndustryKeywords:  make([]string, 0),
			Suggestions:       make([]string, 0),
		},
		MissingIndustry: make([]string, 0),
		Total:           corpus.Len(),
	}
	if corpus.Len() == 0 {
		return analysis
	}

	for _, kw := range corpus.Keywords {
		count := parsing.CountPhrase(candidate, kw.Tokens)
		if kw.Source == SourceGlossary {
			analysis.Result.IndustryKeywords = append(analysis.Result.IndustryKeywords, kw.Term)
		}
		switch {
		case count == 0:
			analysis.Result.MissingKeywords = append(analysis.Result.MissingKeywords, kw.Term)
			if kw.Source == SourceGlossary {
				analysis.MissingIndustry = append(analysis.MissingIndustry, kw.Term)
			}
		case count < policy.UnderusedMinOccurrences && IsHighImportance(kw, policy):
			analysis.Matched++
			analysis.Result.UnderusedKeywords = append(analysis.Result.UnderusedKeywords, kw.Term)
		default:
			analysis.Matched++
		}
	}

	analysis.Result.Suggestions = keywordSuggestions(analysis, corpus.Industry, policy)
	return analysis
}

func keywordSuggestions(a *Analysis, industry string, policy config.KeywordPolicy) []string {
	lines := make([]string, 0, 3)
	if missing := a.Result.MissingKeywords; len(missing) > 0 {
		lines = append(lines, fmt.Sprintf("Add missing keywords: %s", JoinLimited(missing, policy.MaxListed)))
	}
	if underused := a.Result.UnderusedKeywords; len(underused) > 0 {
		lines = append(lines, fmt.Sprintf("Mention these key terms more often, with concrete results: %s", JoinLimited(underused, policy.MaxListed)))
	}
	if len(a.MissingIndustry) > 0 && industry != "" {
		lines = append(lines, fmt.Sprintf("Include standard %s terms: %s", industry, JoinLimited(a.MissingIndustry, policy.MaxListed)))
	}
	if len(lines) > policy.MaxKeywordSuggestions {
		lines = lines[:policy.MaxKeywordSuggestions]
	}
	return lines
}

// JoinLimited joins up to limit items with commas and notes how many were left out.
func JoinLimited(items []string, limit int) string {
	if limit <= 0 || len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (and %d more)", strings.Join(items[:limit], ", "), len(items)-limit)
}
