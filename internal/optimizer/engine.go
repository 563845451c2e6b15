// Package optimizer provides the profile scoring engine and the job-match scorer.
package optimizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/profile-optimizer/internal/analysis"
	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/logger"
	"github.com/jonathan/profile-optimizer/internal/parsing"
	"github.com/jonathan/profile-optimizer/internal/scoring"
	"github.com/jonathan/profile-optimizer/internal/suggestions"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// Engine scores profiles with a fixed, validated policy. It holds no mutable state after
// construction and is safe for concurrent use.
type Engine struct {
	policy            *config.Policy
	policyFingerprint string

	extractor   *keywords.Extractor
	readability *analysis.ReadabilityAnalyzer
	sections    *scoring.SectionScorer
	suggestions *suggestions.Generator

	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.OrNop(l)
	}
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New validates the policy and builds an engine. A malformed policy fails here
// with a ConfigurationError, never during analysis.
func New(policy *config.Policy, opts ...Option) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	fingerprint, err := policy.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint policy: %w", err)
	}

	readability := analysis.NewReadabilityAnalyzer(policy.ActiveVerbs, policy.Jargon, policy.Readability)
	e := &Engine{
		policy:            policy,
		policyFingerprint: fingerprint,
		extractor:         keywords.NewExtractor(policy.StopWords),
		readability:       readability,
		sections:          scoring.NewSectionScorer(policy.Sections, readability),
		suggestions:       suggestions.NewGenerator(policy),
		logger:            zap.NewNop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the policy the engine was built with.
func (e *Engine) Policy() *config.Policy {
	return e.policy
}

// PolicyFingerprint identifies the engine policy for cache keys.
func (e *Engine) PolicyFingerprint() string {
	return e.policyFingerprint
}

// Fingerprint returns the cache key of an analysis request under this engine's policy.
func (e *Engine) Fingerprint(profile *types.ProfileInput, job *types.JobContext) (string, error) {
	return types.Fingerprint(e.policyFingerprint, profile, job)
}

// AnalyzeProfile produces the quality report of a profile, optionally against a target job.
// Sparse input degrades to low scores with suggestions; it is never an error.
// The only error is a cancelled context.
func (e *Engine) AnalyzeProfile(ctx context.Context, profile *types.ProfileInput, job *types.JobContext) (*types.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	p := canonicalProfile(profile)
	corpus := e.extractor.BuildCorpus(job, p.Industry, e.policy.GlossaryFor(p.Industry))

	var (
		mu          sync.Mutex
		keywordRes  *keywords.Analysis
		structure   types.StructureAnalysisResult
		readability types.ReadabilityAnalysisResult
		sections    scoring.SectionScores
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		res := keywords.Analyze(corpus, parsing.Tokenize(p.FullText()), e.policy.Keywords)
		mu.Lock()
		keywordRes = res
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		// Presence is judged on the input as given, before skills are canonicalised.
		res := analysis.AnalyzeStructure(profile)
		mu.Lock()
		structure = res
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		res := e.readability.Analyze(p.Summary)
		mu.Lock()
		readability = res
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		res := e.sections.ScoreAll(p, corpus)
		mu.Lock()
		sections = res
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall := scoring.Aggregate(e.policy.Weights, sections, structure.CompletenessScore, readability.ReadabilityScore)

	jobTitle := ""
	if job != nil {
		jobTitle = job.Title
	}
	suggestionList := e.suggestions.Generate(suggestions.Findings{
		Profile:     p,
		JobTitle:    jobTitle,
		Structure:   structure,
		Keywords:    keywordRes,
		Corpus:      corpus,
		Readability: readability,
		Sections:    sections,
	})

	report := &types.AnalysisReport{
		OverallScore:      overall,
		HeadlineScore:     sections.Headline.Score,
		SummaryScore:      sections.Summary.Score,
		ExperienceScore:   sections.Experience.Score,
		SkillsScore:       sections.Skills.Score,
		KeywordAnalysis:   keywordRes.Result,
		StructureAnalysis: structure,
		ReadabilityScore:  readability.ReadabilityScore,
		Suggestions:       suggestionList,
		GeneratedAt:       e.now().UTC(),
	}

	e.logger.Debug("profile analyzed",
		zap.Int("overall_score", overall),
		zap.Int("corpus_keywords", corpus.Len()),
		zap.Int("missing_keywords", len(report.KeywordAnalysis.MissingKeywords)),
		zap.Int("suggestions", len(suggestionList)),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// MatchJobToResume scores a resume against a job posting by keyword overlap.
// It fails with InvalidInputError only when both texts are empty; a single empty side scores 0.
func (e *Engine) MatchJobToResume(jobText, resumeText string) (*types.JobMatchResult, error) {
	if strings.TrimSpace(jobText) == "" && strings.TrimSpace(resumeText) == "" {
		return nil, &InvalidInputError{Message: "job text and resume text are both empty"}
	}

	terms := keywords.ExtractTokens(parsing.PlainText(jobText))
	match := keywords.Match(terms, parsing.PlainText(resumeText))

	e.logger.Debug("job match scored",
		zap.Int("total_keywords", match.TotalKeywords),
		zap.Int("match_count", match.MatchCount),
	)
	return &types.JobMatchResult{
		Score:         match.Score(),
		MatchCount:    match.MatchCount,
		TotalKeywords: match.TotalKeywords,
	}, nil
}

// canonicalProfile returns a copy of profile with canonical, deduplicated skills.
// The caller's profile is never modified.
func canonicalProfile(profile *types.ProfileInput) *types.ProfileInput {
	if profile == nil {
		return &types.ProfileInput{}
	}
	p := *profile
	p.Skills = parsing.NormalizeSkills(profile.Skills)
	return &p
}
