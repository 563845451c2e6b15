package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/logger"
	"github.com/jonathan/profile-optimizer/internal/prompts"
	"github.com/jonathan/profile-optimizer/internal/types"
)

const (
	promptFile         = "enhance.json"
	maxExcerptRunes    = 4000
	maxExampleRunes    = 400
	excerptEllipsis    = "..."
	defaultTargetRole  = "not specified"
	defaultIndustryTag = "not specified"
)

// Enhancer layers model-written examples onto suggestions that have none.
// It sits outside the scoring engine: scores are never changed.
type Enhancer struct {
	gen    Generator
	config *Config
	logger *zap.Logger
}

// NewEnhancer creates an enhancer on a generator.
func NewEnhancer(gen Generator, config *Config, log *zap.Logger) *Enhancer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Enhancer{gen: gen, config: config, logger: logger.OrNop(log)}
}

type exampleResponse struct {
	Index   int    `json:"index"`
	Example string `json:"example"`
}

// Enhance returns a copy of report with examples filled in. The input report is never modified.
// On any generation failure the original report is returned together with the error.
func (e *Enhancer) Enhance(ctx context.Context, report *types.AnalysisReport, profile *types.ProfileInput, targetRole string) (*types.AnalysisReport, error) {
	if report == nil {
		return nil, fmt.Errorf("enhance: report is required")
	}

	pending := make([]int, 0)
	for i, s := range report.Suggestions {
		if s.Example == "" {
			pending = append(pending, i)
		}
	}
	if e.config.MaxExamples > 0 && len(pending) > e.config.MaxExamples {
		pending = pending[:e.config.MaxExamples]
	}
	if len(pending) == 0 {
		return report, nil
	}

	prompt, err := e.buildPrompt(report, pending, profile, targetRole)
	if err != nil {
		return report, err
	}

	raw, err := e.gen.GenerateJSON(ctx, prompt, TierLite)
	if err != nil {
		e.logger.Warn("suggestion enhancement failed", zap.Error(err))
		return report, fmt.Errorf("failed to generate examples: %w", err)
	}

	var examples []exampleResponse
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &examples); err != nil {
		e.logger.Warn("suggestion enhancement returned invalid JSON", zap.Error(err))
		return report, fmt.Errorf("failed to parse examples: %w", err)
	}

	enhanced := *report
	enhanced.Suggestions = append([]types.Suggestion(nil), report.Suggestions...)
	applied := 0
	for _, ex := range examples {
		// Indexes are 1-based positions in the pending list.
		if ex.Index < 1 || ex.Index > len(pending) {
			continue
		}
		text := truncateRunes(strings.TrimSpace(ex.Example), maxExampleRunes)
		if text == "" {
			continue
		}
		target := pending[ex.Index-1]
		if enhanced.Suggestions[target].Example != "" {
			continue
		}
		enhanced.Suggestions[target].Example = text
		applied++
	}

	e.logger.Debug("suggestions enhanced", zap.Int("requested", len(pending)), zap.Int("applied", applied))
	return &enhanced, nil
}

func (e *Enhancer) buildPrompt(report *types.AnalysisReport, pending []int, profile *types.ProfileInput, targetRole string) (string, error) {
	system, err := prompts.Get(promptFile, "system")
	if err != nil {
		return "", err
	}
	template, err := prompts.Get(promptFile, "suggestion-examples")
	if err != nil {
		return "", err
	}

	var list strings.Builder
	for n, idx := range pending {
		s := report.Suggestions[idx]
		fmt.Fprintf(&list, "%d. [%s] %s\n", n+1, s.Type, s.Suggestion)
	}

	industry := defaultIndustryTag
	if profile != nil && strings.TrimSpace(profile.Industry) != "" {
		industry = strings.TrimSpace(profile.Industry)
	}
	if strings.TrimSpace(targetRole) == "" {
		targetRole = defaultTargetRole
	}

	body := prompts.Format(template, map[string]string{
		"TargetRole":  targetRole,
		"Industry":    industry,
		"Profile":     truncateRunes(profile.FullText(), maxExcerptRunes),
		"Suggestions": strings.TrimRight(list.String(), "\n"),
	})
	return system + "\n\n" + body, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-len(excerptEllipsis)]) + excerptEllipsis
}
