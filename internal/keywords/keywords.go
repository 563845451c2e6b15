// Package keywords extracts salient terms from a job or industry corpus and matches them against candidate text.
package keywords

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/parsing"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// Source records where a corpus keyword came from.
type Source string

// Keyword sources
const (
	SourceJobText  Source = "job_text"
	SourceJobSkill Source = "job_skill"
	SourceGlossary Source = "glossary"
)

// Keyword is a corpus term. Multi-word terms match as contiguous token runs.
type Keyword struct {
	Term      string
	Tokens    []string
	Frequency int
	Source    Source
}

// Corpus is the set of target keywords ordered by descending frequency, then alphabetically.
type Corpus struct {
	Keywords []Keyword
	Industry string
}

// Len returns the number of keywords in the corpus.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Keywords)
}

// Terms returns the keyword terms in corpus order.
func (c *Corpus) Terms() []string {
	terms := make([]string, 0, c.Len())
	if c == nil {
		return terms
	}
	for _, kw := range c.Keywords {
		terms = append(terms, kw.Term)
	}
	return terms
}

// Extractor extracts keywords using a fixed stop-word list.
type Extractor struct {
	stopWords map[string]bool
}

// NewExtractor creates an extractor that ignores the given stop words.
func NewExtractor(stopWords []string) *Extractor {
	stop := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return &Extractor{stopWords: stop}
}

// Extract returns the deduplicated keyword tokens of corpusText in alphabetical order.
// Stop words and purely numeric tokens are not keywords.
func (e *Extractor) Extract(corpusText string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, tok := range parsing.Tokenize(corpusText) {
		if seen[tok] || !e.isKeywordToken(tok) {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// ExtractTokens returns every deduplicated alphanumeric token of text in alphabetical order.
// Unlike Extract it keeps stop words and numbers, so the job-match score depends only on the text.
func ExtractTokens(text string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, tok := range parsing.Tokenize(text) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func (e *Extractor) isKeywordToken(tok string) bool {
	if e.stopWords[tok] {
		return false
	}
	return strings.TrimLeft(tok, "0123456789") != ""
}

// BuildCorpus builds the keyword corpus of a job posting plus the glossary of an industry.
// Either part may be empty; a nil job and empty glossary yield an empty corpus.
func (e *Extractor) BuildCorpus(job *types.JobContext, industry string, glossary []string) *Corpus {
	var corpusText strings.Builder
	keywords := make(map[string]*Keyword)

	add := func(tokens []string, source Source) {
		if len(tokens) == 0 {
			return
		}
		term := strings.Join(tokens, " ")
		if existing, ok := keywords[term]; ok {
			// Glossary wins so that industry terms stay classified as such.
			if source == SourceGlossary || (source == SourceJobSkill && existing.Source == SourceJobText) {
				existing.Source = source
			}
			return
		}
		keywords[term] = &Keyword{Term: term, Tokens: tokens, Source: source}
	}

	if !job.IsEmpty() {
		jobText := strings.Join([]string{
			job.Title,
			parsing.PlainText(job.Description),
			parsing.PlainText(job.Requirements),
		}, "\n")
		corpusText.WriteString(jobText)
		corpusText.WriteString("\n")
		for _, tok := range e.Extract(jobText) {
			add([]string{tok}, SourceJobText)
		}
		for _, skill := range parsing.NormalizeSkills(job.Skills) {
			corpusText.WriteString(skill)
			corpusText.WriteString("\n")
			add(e.termTokens(skill), SourceJobSkill)
		}
	}

	for _, term := range glossary {
		corpusText.WriteString(term)
		corpusText.WriteString("\n")
		add(parsing.Tokenize(term), SourceGlossary)
	}

	corpusTokens := parsing.Tokenize(corpusText.String())
	out := make([]Keyword, 0, len(keywords))
	for _, kw := range keywords {
		kw.Frequency = parsing.CountPhrase(corpusTokens, kw.Tokens)
		out = append(out, *kw)
	}
	sortKeywords(out)

	return &Corpus{Keywords: out, Industry: strings.ToLower(strings.TrimSpace(industry))}
}

// termTokens tokenizes a skill, dropping stop words only from single-token skills.
func (e *Extractor) termTokens(skill string) []string {
	tokens := parsing.Tokenize(skill)
	if len(tokens) == 1 && !e.isKeywordToken(tokens[0]) {
		return nil
	}
	return tokens
}

func sortKeywords(kws []Keyword) {
	sort.Slice(kws, func(i, j int) bool {
		if kws[i].Frequency != kws[j].Frequency {
			return kws[i].Frequency > kws[j].Frequency
		}
		return kws[i].Term < kws[j].Term
	})
}

// MatchResult is the overlap of a keyword set with a candidate text.
type MatchResult struct {
	MatchCount    int
	TotalKeywords int
	Matched       []string
}

// Score returns the match percentage of the result.
func (m MatchResult) Score() int {
	return Score(m.MatchCount, m.TotalKeywords)
}

// Match counts the keywords that occur in candidateText as whole tokens, case-insensitively.
// Multi-word keywords must occur as a contiguous token run.
func Match(keywords []string, candidateText string) MatchResult {
	return MatchTokens(keywords, parsing.Tokenize(candidateText))
}

// MatchTokens is Match over an already tokenized candidate.
func MatchTokens(keywords []string, candidate []string) MatchResult {
	result := MatchResult{TotalKeywords: len(keywords), Matched: make([]string, 0)}
	for _, kw := range keywords {
		if parsing.ContainsPhrase(candidate, parsing.Tokenize(kw)) {
			result.MatchCount++
			result.Matched = append(result.Matched, kw)
		}
	}
	return result
}

// Score converts a match count into a percentage: round(min(100, 100*matchCount/max(1,total))).
// An empty keyword set scores 0.
func Score(matchCount, total int) int {
	pct := 100 * float64(matchCount) / float64(max(1, total))
	return int(math.Round(math.Min(100, pct)))
}
