// Package parsing canonicalizes raw profile and job text into tokens and sentences.
package parsing

import (
	"regexp"
	"strings"
)

var (
	tokenPattern         = regexp.MustCompile(`[a-z0-9]+`)
	sentenceBreakPattern = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	metricPattern        = regexp.MustCompile(`(?i)^[$€£]?\d+(?:[.,]\d+)*(?:%|k|m|b|x|\+)?$`)
)

// wordTrimCutset is stripped from both ends of a raw word before metric detection.
const wordTrimCutset = `.,;:!?()[]{}"'`

// NormalizedText is the canonical form of a free-text field.
type NormalizedText struct {
	// Tokens are the lower-cased alphanumeric runs of the whole text.
	Tokens []string
	// Sentences holds the tokens of each non-empty sentence, in order.
	Sentences [][]string
	// Metrics are the raw words that are numeric or numeric-with-unit ("30%", "$2000", "15").
	Metrics []string
}

// IsEmpty reports whether the text produced no tokens.
func (n NormalizedText) IsEmpty() bool {
	return len(n.Tokens) == 0
}

// Normalize lower-cases text, splits it into tokens and sentences, and collects metric words.
// Empty input yields an empty NormalizedText; it never fails.
func Normalize(raw string) NormalizedText {
	if strings.TrimSpace(raw) == "" {
		return NormalizedText{Tokens: []string{}, Sentences: [][]string{}, Metrics: []string{}}
	}

	return NormalizedText{
		Tokens:    Tokenize(raw),
		Sentences: SplitSentences(raw),
		Metrics:   extractMetrics(raw),
	}
}

// Tokenize returns the lower-cased alphanumeric runs of text.
func Tokenize(raw string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(raw), -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// SplitSentences splits text on '.', '!' or '?' followed by whitespace or end of text
// and returns the tokens of each sentence. Fragments without tokens are discarded.
func SplitSentences(raw string) [][]string {
	sentences := make([][]string, 0)
	for _, fragment := range sentenceBreakPattern.Split(raw, -1) {
		tokens := Tokenize(fragment)
		if len(tokens) == 0 {
			continue
		}
		sentences = append(sentences, tokens)
	}
	return sentences
}

// IsMetric reports whether a raw word is a number or a number with a unit.
func IsMetric(word string) bool {
	word = strings.Trim(word, wordTrimCutset)
	if word == "" {
		return false
	}
	return metricPattern.MatchString(word)
}

func extractMetrics(raw string) []string {
	metrics := make([]string, 0)
	for _, word := range strings.Fields(raw) {
		if IsMetric(word) {
			metrics = append(metrics, strings.Trim(word, wordTrimCutset))
		}
	}
	return metrics
}

// ContainsPhrase reports whether phrase occurs in tokens as a contiguous token run.
// A single-token phrase matches whole tokens only.
func ContainsPhrase(tokens, phrase []string) bool {
	return CountPhrase(tokens, phrase) > 0
}

// CountPhrase counts the occurrences of phrase in tokens as a contiguous token run.
func CountPhrase(tokens, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return 0
	}
	count := 0
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, p := range phrase {
			if tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}
