// Package config provides the scoring policy and application configuration.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// weightTolerance is the allowed deviation of a weight table from a sum of 1.
const weightTolerance = 1e-6

// Policy is the complete tunable configuration of the scoring engine. It is loaded once,
// validated, and then shared read-only by every analysis.
type Policy struct {
	ActiveVerbs      []string            `mapstructure:"active_verbs" json:"active_verbs"`
	Jargon           []string            `mapstructure:"jargon" json:"jargon"`
	StopWords        []string            `mapstructure:"stop_words" json:"stop_words"`
	IndustryGlossary map[string][]string `mapstructure:"industry_glossary" json:"industry_glossary"`

	Sections    SectionPolicy      `mapstructure:"sections" json:"sections"`
	Weights     AggregationWeights `mapstructure:"weights" json:"weights"`
	Keywords    KeywordPolicy      `mapstructure:"keywords" json:"keywords"`
	Readability ReadabilityPolicy  `mapstructure:"readability" json:"readability"`
	Suggestions SuggestionPolicy   `mapstructure:"suggestions" json:"suggestions"`
}

// LengthBand is an inclusive adequacy range. Below Min is too short, above Max too long.
type LengthBand struct {
	Min int `mapstructure:"min" json:"min"`
	Max int `mapstructure:"max" json:"max"`
}

// SectionThreshold configures one section scorer. The three weights must sum to 1.
// When no keyword corpus is available the keyword weight is redistributed over the others.
type SectionThreshold struct {
	Band              LengthBand `mapstructure:"band" json:"band"`
	LengthWeight      float64    `mapstructure:"length_weight" json:"length_weight"`
	KeywordWeight     float64    `mapstructure:"keyword_weight" json:"keyword_weight"`
	ReadabilityWeight float64    `mapstructure:"readability_weight" json:"readability_weight"`
	// KeywordTarget is the number of matched corpus keywords that earns full keyword credit.
	KeywordTarget int `mapstructure:"keyword_target" json:"keyword_target"`
}

// SectionPolicy holds the per-section thresholds.
// Headline and Summary bands count words, Experience counts words per entry description,
// Skills counts distinct skills.
type SectionPolicy struct {
	AbsentCeiling int              `mapstructure:"absent_ceiling" json:"absent_ceiling"`
	Headline      SectionThreshold `mapstructure:"headline" json:"headline"`
	Summary       SectionThreshold `mapstructure:"summary" json:"summary"`
	Experience    SectionThreshold `mapstructure:"experience" json:"experience"`
	Skills        SectionThreshold `mapstructure:"skills" json:"skills"`
}

// AggregationWeights combine section, structure and readability scores into the overall score.
type AggregationWeights struct {
	Headline    float64 `mapstructure:"headline" json:"headline"`
	Summary     float64 `mapstructure:"summary" json:"summary"`
	Experience  float64 `mapstructure:"experience" json:"experience"`
	Skills      float64 `mapstructure:"skills" json:"skills"`
	Structure   float64 `mapstructure:"structure" json:"structure"`
	Readability float64 `mapstructure:"readability" json:"readability"`
}

// Sum returns the total of all weights.
func (w AggregationWeights) Sum() float64 {
	return w.Headline + w.Summary + w.Experience + w.Skills + w.Structure + w.Readability
}

// KeywordPolicy configures keyword classification.
type KeywordPolicy struct {
	// UnderusedMinOccurrences is the occurrence count a high-importance keyword must reach.
	UnderusedMinOccurrences int `mapstructure:"underused_min_occurrences" json:"underused_min_occurrences"`
	// HighImportanceFrequency is the corpus frequency at which a term counts as high-importance.
	HighImportanceFrequency int `mapstructure:"high_importance_frequency" json:"high_importance_frequency"`
	// MaxKeywordSuggestions caps the human-readable lines in KeywordAnalysisResult.Suggestions.
	MaxKeywordSuggestions int `mapstructure:"max_keyword_suggestions" json:"max_keyword_suggestions"`
	// MaxListed caps how many keywords are named in a single suggestion.
	MaxListed int `mapstructure:"max_listed" json:"max_listed"`
}

// ReadabilityPolicy configures the readability composite:
// score = BaseScore - lengthPenalty - jargonPenalty + verbBonus + metricBonus, clamped to [0,100].
type ReadabilityPolicy struct {
	BaseScore            float64 `mapstructure:"base_score" json:"base_score"`
	TargetSentenceLength float64 `mapstructure:"target_sentence_length" json:"target_sentence_length"`
	LengthPenaltyPerWord float64 `mapstructure:"length_penalty_per_word" json:"length_penalty_per_word"`
	MaxLengthPenalty     float64 `mapstructure:"max_length_penalty" json:"max_length_penalty"`
	JargonPenaltyFactor  float64 `mapstructure:"jargon_penalty_factor" json:"jargon_penalty_factor"`
	MaxJargonPenalty     float64 `mapstructure:"max_jargon_penalty" json:"max_jargon_penalty"`
	// Bonuses scale with density per sentence and saturate at their maximum.
	VerbBonusPerSentence   float64 `mapstructure:"verb_bonus_per_sentence" json:"verb_bonus_per_sentence"`
	MaxVerbBonus           float64 `mapstructure:"max_verb_bonus" json:"max_verb_bonus"`
	MetricBonusPerSentence float64 `mapstructure:"metric_bonus_per_sentence" json:"metric_bonus_per_sentence"`
	MaxMetricBonus         float64 `mapstructure:"max_metric_bonus" json:"max_metric_bonus"`
}

// SuggestionPolicy configures the cutoffs that turn findings into suggestions.
type SuggestionPolicy struct {
	LowSectionScore     int     `mapstructure:"low_section_score" json:"low_section_score"`
	LowReadabilityScore int     `mapstructure:"low_readability_score" json:"low_readability_score"`
	HighJargonScore     float64 `mapstructure:"high_jargon_score" json:"high_jargon_score"`
	// LowKeywordCoverage below this fraction raises missing-keyword suggestions to high priority.
	LowKeywordCoverage float64 `mapstructure:"low_keyword_coverage" json:"low_keyword_coverage"`
}

// DefaultPolicy returns the built-in scoring policy. Each call returns an independent copy.
func DefaultPolicy() *Policy {
	glossary := make(map[string][]string, len(defaultIndustryGlossary))
	for industry, terms := range defaultIndustryGlossary {
		glossary[industry] = append([]string(nil), terms...)
	}

	return &Policy{
		ActiveVerbs:      append([]string(nil), defaultActiveVerbs...),
		Jargon:           append([]string(nil), defaultJargon...),
		StopWords:        append([]string(nil), defaultStopWords...),
		IndustryGlossary: glossary,
		Sections: SectionPolicy{
			AbsentCeiling: 20,
			Headline: SectionThreshold{
				Band:          LengthBand{Min: 5, Max: 20},
				LengthWeight:  0.5,
				KeywordWeight: 0.5,
				KeywordTarget: 3,
			},
			Summary: SectionThreshold{
				Band:              LengthBand{Min: 40, Max: 300},
				LengthWeight:      0.3,
				KeywordWeight:     0.3,
				ReadabilityWeight: 0.4,
				KeywordTarget:     8,
			},
			Experience: SectionThreshold{
				Band:              LengthBand{Min: 20, Max: 200},
				LengthWeight:      0.4,
				KeywordWeight:     0.3,
				ReadabilityWeight: 0.3,
				KeywordTarget:     10,
			},
			Skills: SectionThreshold{
				Band:          LengthBand{Min: 5, Max: 50},
				LengthWeight:  0.4,
				KeywordWeight: 0.6,
				KeywordTarget: 10,
			},
		},
		Weights: AggregationWeights{
			Headline:    0.15,
			Summary:     0.20,
			Experience:  0.25,
			Skills:      0.15,
			Structure:   0.15,
			Readability: 0.10,
		},
		Keywords: KeywordPolicy{
			UnderusedMinOccurrences: 2,
			HighImportanceFrequency: 2,
			MaxKeywordSuggestions:   5,
			MaxListed:               5,
		},
		Readability: ReadabilityPolicy{
			BaseScore:              80,
			TargetSentenceLength:   25,
			LengthPenaltyPerWord:   2,
			MaxLengthPenalty:       40,
			JargonPenaltyFactor:    1,
			MaxJargonPenalty:       30,
			VerbBonusPerSentence:   40,
			MaxVerbBonus:           12,
			MetricBonusPerSentence: 40,
			MaxMetricBonus:         8,
		},
		Suggestions: SuggestionPolicy{
			LowSectionScore:     50,
			LowReadabilityScore: 60,
			HighJargonScore:     10,
			LowKeywordCoverage:  0.5,
		},
	}
}

// LoadPolicy reads a JSON or YAML policy file over the defaults. Keys absent from the file
// keep their default values; glossary industries merge with the built-in ones.
// The result is validated before it is returned.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return nil, configErr("policy", "policy path is empty")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigurationError{Field: "policy", Message: fmt.Sprintf("failed to read policy file %s", path), Cause: err}
	}

	policy := DefaultPolicy()
	if err := v.Unmarshal(policy); err != nil {
		return nil, &ConfigurationError{Field: "policy", Message: "failed to decode policy", Cause: err}
	}
	policy.normalizeWordLists()

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// normalizeWordLists lower-cases and trims every curated list entry and drops blanks.
func (p *Policy) normalizeWordLists() {
	p.ActiveVerbs = cleanList(p.ActiveVerbs)
	p.Jargon = cleanList(p.Jargon)
	p.StopWords = cleanList(p.StopWords)
	glossary := make(map[string][]string, len(p.IndustryGlossary))
	for industry, terms := range p.IndustryGlossary {
		glossary[strings.ToLower(strings.TrimSpace(industry))] = cleanList(terms)
	}
	p.IndustryGlossary = glossary
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.Join(strings.Fields(strings.ToLower(item)), " ")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate fails fast on a missing word list or a malformed weight table.
func (p *Policy) Validate() error {
	if p == nil {
		return configErr("policy", "policy is nil")
	}
	if len(p.ActiveVerbs) == 0 {
		return configErr("active_verbs", "active verb list is empty")
	}
	if len(p.Jargon) == 0 {
		return configErr("jargon", "jargon list is empty")
	}
	for industry, terms := range p.IndustryGlossary {
		if strings.TrimSpace(industry) == "" {
			return configErr("industry_glossary", "industry name is empty")
		}
		if len(terms) == 0 {
			return configErr("industry_glossary."+industry, "glossary has no terms")
		}
	}

	if err := validateWeights(p.Weights); err != nil {
		return err
	}

	sections := p.Sections
	if sections.AbsentCeiling < 0 || sections.AbsentCeiling > 20 {
		return configErr("sections.absent_ceiling", "must be between 0 and 20, got %d", sections.AbsentCeiling)
	}
	thresholds := []struct {
		name string
		t    SectionThreshold
	}{
		{"headline", sections.Headline},
		{"summary", sections.Summary},
		{"experience", sections.Experience},
		{"skills", sections.Skills},
	}
	for _, th := range thresholds {
		if err := validateThreshold("sections."+th.name, th.t); err != nil {
			return err
		}
	}

	kw := p.Keywords
	if kw.UnderusedMinOccurrences < 1 {
		return configErr("keywords.underused_min_occurrences", "must be at least 1, got %d", kw.UnderusedMinOccurrences)
	}
	if kw.HighImportanceFrequency < 1 {
		return configErr("keywords.high_importance_frequency", "must be at least 1, got %d", kw.HighImportanceFrequency)
	}
	if kw.MaxKeywordSuggestions < 0 || kw.MaxListed < 1 {
		return configErr("keywords", "suggestion caps must be positive")
	}

	r := p.Readability
	readabilityFields := map[string]float64{
		"base_score":                r.BaseScore,
		"target_sentence_length":    r.TargetSentenceLength,
		"length_penalty_per_word":   r.LengthPenaltyPerWord,
		"max_length_penalty":        r.MaxLengthPenalty,
		"jargon_penalty_factor":     r.JargonPenaltyFactor,
		"max_jargon_penalty":        r.MaxJargonPenalty,
		"verb_bonus_per_sentence":   r.VerbBonusPerSentence,
		"max_verb_bonus":            r.MaxVerbBonus,
		"metric_bonus_per_sentence": r.MetricBonusPerSentence,
		"max_metric_bonus":          r.MaxMetricBonus,
	}
	for name, value := range readabilityFields {
		if value < 0 || math.IsNaN(value) {
			return configErr("readability."+name, "must be non-negative")
		}
	}
	if r.BaseScore > 100 {
		return configErr("readability.base_score", "must not exceed 100, got %.2f", r.BaseScore)
	}

	s := p.Suggestions
	if s.LowSectionScore < 0 || s.LowSectionScore > 100 || s.LowReadabilityScore < 0 || s.LowReadabilityScore > 100 {
		return configErr("suggestions", "score cutoffs must be within [0,100]")
	}
	if s.LowKeywordCoverage < 0 || s.LowKeywordCoverage > 1 {
		return configErr("suggestions.low_keyword_coverage", "must be within [0,1], got %.2f", s.LowKeywordCoverage)
	}
	return nil
}

func validateWeights(w AggregationWeights) error {
	for name, value := range map[string]float64{
		"headline": w.Headline, "summary": w.Summary, "experience": w.Experience,
		"skills": w.Skills, "structure": w.Structure, "readability": w.Readability,
	} {
		if value < 0 || math.IsNaN(value) {
			return configErr("weights."+name, "must be non-negative")
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return configErr("weights", "must sum to 1, got %.6f", w.Sum())
	}
	return nil
}

func validateThreshold(field string, t SectionThreshold) error {
	if t.Band.Min < 1 || t.Band.Max < t.Band.Min {
		return configErr(field+".band", "invalid band [%d,%d]", t.Band.Min, t.Band.Max)
	}
	if t.LengthWeight < 0 || t.KeywordWeight < 0 || t.ReadabilityWeight < 0 {
		return configErr(field, "weights must be non-negative")
	}
	sum := t.LengthWeight + t.KeywordWeight + t.ReadabilityWeight
	if math.Abs(sum-1) > weightTolerance {
		return configErr(field, "weights must sum to 1, got %.6f", sum)
	}
	if t.KeywordWeight > 0 && t.KeywordTarget < 1 {
		return configErr(field+".keyword_target", "must be at least 1 when keyword_weight is set")
	}
	return nil
}

// GlossaryFor returns the glossary terms of an industry, or nil when none is configured.
func (p *Policy) GlossaryFor(industry string) []string {
	return p.IndustryGlossary[strings.ToLower(strings.TrimSpace(industry))]
}

// Industries returns the configured industry names in sorted order.
func (p *Policy) Industries() []string {
	names := make([]string, 0, len(p.IndustryGlossary))
	for name := range p.IndustryGlossary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprint returns a digest of the policy. Two policies with equal settings share it.
func (p *Policy) Fingerprint() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode policy: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
