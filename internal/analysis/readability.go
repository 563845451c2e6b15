package analysis

import (
	"math"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/parsing"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// ReadabilityAnalyzer computes sentence-level and lexical metrics using injected word lists.
// It holds no mutable state and is safe for concurrent use.
type ReadabilityAnalyzer struct {
	verbs  [][]string
	jargon [][]string
	terms  []string
	policy config.ReadabilityPolicy
}

// NewReadabilityAnalyzer creates an analyzer from the active-verb and jargon lists of a policy.
func NewReadabilityAnalyzer(activeVerbs, jargon []string, policy config.ReadabilityPolicy) *ReadabilityAnalyzer {
	a := &ReadabilityAnalyzer{policy: policy}
	for _, verb := range activeVerbs {
		if tokens := parsing.Tokenize(verb); len(tokens) > 0 {
			a.verbs = append(a.verbs, tokens)
		}
	}
	for _, term := range jargon {
		if tokens := parsing.Tokenize(term); len(tokens) > 0 {
			a.jargon = append(a.jargon, tokens)
			a.terms = append(a.terms, term)
		}
	}
	return a
}

// Analyze computes readability metrics for raw text. Empty text yields all zeros.
func (a *ReadabilityAnalyzer) Analyze(text string) types.ReadabilityAnalysisResult {
	return a.AnalyzeNormalized(parsing.Normalize(text))
}

// AnalyzeNormalized computes readability metrics for already normalized text.
func (a *ReadabilityAnalyzer) AnalyzeNormalized(text parsing.NormalizedText) types.ReadabilityAnalysisResult {
	result := types.ReadabilityAnalysisResult{
		SentenceCount: len(text.Sentences),
		MetricsCount:  len(text.Metrics),
		JargonTerms:   make([]string, 0),
	}
	if result.SentenceCount == 0 || text.IsEmpty() {
		return result
	}

	sentenceTokens := 0
	for _, s := range text.Sentences {
		sentenceTokens += len(s)
	}
	avg := float64(sentenceTokens) / float64(result.SentenceCount)

	for _, verb := range a.verbs {
		result.ActiveVerbCount += parsing.CountPhrase(text.Tokens, verb)
	}

	jargonTokens := 0
	for i, term := range a.jargon {
		if n := parsing.CountPhrase(text.Tokens, term); n > 0 {
			jargonTokens += n * len(term)
			result.JargonTerms = append(result.JargonTerms, a.terms[i])
		}
	}
	jargon := math.Min(100, 100*float64(jargonTokens)/float64(len(text.Tokens)))

	result.AvgSentenceLength = round2(avg)
	result.JargonScore = round2(jargon)
	result.ReadabilityScore = a.score(avg, jargon, result.ActiveVerbCount, result.MetricsCount, result.SentenceCount)
	return result
}

// score applies the composite: base, minus sentence-length and jargon penalties,
// plus capped verb and metric density bonuses, clamped to [0,100].
func (a *ReadabilityAnalyzer) score(avgLen, jargon float64, verbs, metrics, sentences int) int {
	p := a.policy

	lengthPenalty := 0.0
	if avgLen > p.TargetSentenceLength {
		lengthPenalty = math.Min(p.MaxLengthPenalty, (avgLen-p.TargetSentenceLength)*p.LengthPenaltyPerWord)
	}
	jargonPenalty := math.Min(p.MaxJargonPenalty, jargon*p.JargonPenaltyFactor)

	perSentence := 1 / float64(sentences)
	verbBonus := math.Min(p.MaxVerbBonus, float64(verbs)*perSentence*p.VerbBonusPerSentence)
	metricBonus := math.Min(p.MaxMetricBonus, float64(metrics)*perSentence*p.MetricBonusPerSentence)

	return ClampScore(p.BaseScore - lengthPenalty - jargonPenalty + verbBonus + metricBonus)
}

// ClampScore rounds v to the nearest integer and clamps it to [0,100].
func ClampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
