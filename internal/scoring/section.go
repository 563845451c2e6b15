// Package scoring provides the per-section scorers and the overall score aggregator.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/analysis"
	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/parsing"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// SectionSignals are the inputs of a single section score.
type SectionSignals struct {
	Present bool
	// Length is measured in the unit of the section band (words or skills).
	Length int
	// LengthQuality overrides the band-derived length adequacy when set (0..1).
	LengthQuality *float64
	KeywordMatches int
	// KeywordTotal is the corpus size; 0 means no corpus was supplied.
	KeywordTotal int
	Readability  int
}

// SectionResult is the score of one section with the signals that produced it.
type SectionResult struct {
	Score          int
	Length         int
	KeywordMatches int
}

// SectionScores holds the result of every section scorer.
type SectionScores struct {
	Headline   SectionResult
	Summary    SectionResult
	Experience SectionResult
	Skills     SectionResult
}

// ScoreSection blends length adequacy, keyword coverage and readability with the threshold weights.
// An absent section is capped at ceiling. Without a corpus the keyword weight is redistributed.
func ScoreSection(t config.SectionThreshold, ceiling int, s SectionSignals) int {
	lengthWeight, keywordWeight, readabilityWeight := t.LengthWeight, t.KeywordWeight, t.ReadabilityWeight
	if s.KeywordTotal == 0 {
		keywordWeight = 0
		rest := lengthWeight + readabilityWeight
		if rest == 0 {
			lengthWeight, readabilityWeight = 1, 0
		} else {
			lengthWeight, readabilityWeight = lengthWeight/rest, readabilityWeight/rest
		}
	}

	lengthQuality := LengthAdequacy(s.Length, t.Band)
	if s.LengthQuality != nil {
		lengthQuality = *s.LengthQuality
	}
	coverage := KeywordCoverage(s.KeywordMatches, s.KeywordTotal, t.KeywordTarget)

	raw := 100 * (lengthWeight*lengthQuality +
		keywordWeight*coverage +
		readabilityWeight*float64(s.Readability)/100)
	if !s.Present {
		raw = math.Min(raw, float64(ceiling))
	}
	return analysis.ClampScore(raw)
}

// LengthAdequacy is 0 for empty, rises linearly to 1 at band.Min, stays 1 through band.Max,
// then decays as band.Max/n with a floor of 0.5.
func LengthAdequacy(n int, band config.LengthBand) float64 {
	switch {
	case n <= 0:
		return 0
	case n < band.Min:
		return float64(n) / float64(band.Min)
	case n <= band.Max:
		return 1
	default:
		return math.Max(0.5, float64(band.Max)/float64(n))
	}
}

// KeywordCoverage is matches over min(total, target), capped at 1. It is 0 without a corpus.
func KeywordCoverage(matches, total, target int) float64 {
	if total <= 0 || matches <= 0 {
		return 0
	}
	denom := total
	if target > 0 && target < denom {
		denom = target
	}
	return math.Min(1, float64(matches)/float64(denom))
}

// SectionScorer scores the four profile sections against a keyword corpus.
type SectionScorer struct {
	policy      config.SectionPolicy
	readability *analysis.ReadabilityAnalyzer
}

// NewSectionScorer creates a scorer using the section thresholds and readability analyzer.
func NewSectionScorer(policy config.SectionPolicy, readability *analysis.ReadabilityAnalyzer) *SectionScorer {
	return &SectionScorer{policy: policy, readability: readability}
}

// ScoreAll scores every section. A nil profile scores 0 everywhere.
// Each section depends only on its own content and the corpus.
func (s *SectionScorer) ScoreAll(profile *types.ProfileInput, corpus *keywords.Corpus) SectionScores {
	if profile == nil {
		profile = &types.ProfileInput{}
	}
	terms := corpus.Terms()
	return SectionScores{
		Headline:   s.Headline(profile.Headline, terms),
		Summary:    s.Summary(profile.Summary, terms),
		Experience: s.Experience(profile.Experiences, terms),
		Skills:     s.Skills(profile.Skills, terms),
	}
}

// Headline scores the headline. Its band is tight and it carries no readability weight by default.
func (s *SectionScorer) Headline(headline string, terms []string) SectionResult {
	return s.scoreText(s.policy.Headline, headline, terms)
}

// Summary scores the summary text.
func (s *SectionScorer) Summary(summary string, terms []string) SectionResult {
	return s.scoreText(s.policy.Summary, summary, terms)
}

func (s *SectionScorer) scoreText(t config.SectionThreshold, text string, terms []string) SectionResult {
	normalized := parsing.Normalize(text)
	match := keywords.MatchTokens(terms, normalized.Tokens)

	readability := 0
	if t.ReadabilityWeight > 0 {
		readability = s.readability.AnalyzeNormalized(normalized).ReadabilityScore
	}

	signals := SectionSignals{
		Present:        strings.TrimSpace(text) != "",
		Length:         len(normalized.Tokens),
		KeywordMatches: match.MatchCount,
		KeywordTotal:   len(terms),
		Readability:    readability,
	}
	return SectionResult{
		Score:          ScoreSection(t, s.policy.AbsentCeiling, signals),
		Length:         signals.Length,
		KeywordMatches: match.MatchCount,
	}
}

// Experience averages per-entry quality (title and company present, description length,
// description readability) and blends it with keyword coverage of all experience text.
func (s *SectionScorer) Experience(entries []types.ExperienceEntry, terms []string) SectionResult {
	t := s.policy.Experience
	if len(entries) == 0 {
		return SectionResult{Score: ScoreSection(t, s.policy.AbsentCeiling, SectionSignals{KeywordTotal: len(terms)})}
	}

	var quality, readability float64
	totalWords := 0
	for _, entry := range entries {
		identity := 0.0
		if strings.TrimSpace(entry.Title) != "" {
			identity += 0.5
		}
		if strings.TrimSpace(entry.Company) != "" {
			identity += 0.5
		}
		desc := parsing.Normalize(entry.Description)
		totalWords += len(desc.Tokens)
		quality += (identity + LengthAdequacy(len(desc.Tokens), t.Band)) / 2
		readability += float64(s.readability.AnalyzeNormalized(desc).ReadabilityScore)
	}
	n := float64(len(entries))
	avgQuality := quality / n

	match := keywords.MatchTokens(terms, parsing.Tokenize((&types.ProfileInput{Experiences: entries}).ExperienceText()))
	signals := SectionSignals{
		Present:        true,
		Length:         totalWords,
		LengthQuality:  &avgQuality,
		KeywordMatches: match.MatchCount,
		KeywordTotal:   len(terms),
		Readability:    analysis.ClampScore(readability / n),
	}
	return SectionResult{
		Score:          ScoreSection(t, s.policy.AbsentCeiling, signals),
		Length:         totalWords,
		KeywordMatches: match.MatchCount,
	}
}

// Skills scores the skill set. Coverage of corpus keywords outweighs the number of skills.
func (s *SectionScorer) Skills(skills []string, terms []string) SectionResult {
	canonical := parsing.NormalizeSkills(skills)
	match := keywords.MatchTokens(terms, parsing.Tokenize(strings.Join(canonical, "\n")))

	signals := SectionSignals{
		Present:        len(canonical) > 0,
		Length:         len(canonical),
		KeywordMatches: match.MatchCount,
		KeywordTotal:   len(terms),
	}
	return SectionResult{
		Score:          ScoreSection(s.policy.Skills, s.policy.AbsentCeiling, signals),
		Length:         len(canonical),
		KeywordMatches: match.MatchCount,
	}
}
