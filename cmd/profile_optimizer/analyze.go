package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/fetch"
	"github.com/jonathan/profile-optimizer/internal/llm"
	"github.com/jonathan/profile-optimizer/internal/observability"
	"github.com/jonathan/profile-optimizer/internal/optimizer"
	"github.com/jonathan/profile-optimizer/internal/reportcache"
	"github.com/jonathan/profile-optimizer/internal/schemas"
	"github.com/jonathan/profile-optimizer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a profile and print improvement suggestions",
	Long:  "Analyze a profile JSON file, optionally against a target job JSON file, and write the analysis report as JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeProfileFile string
	analyzeJobFile     string
	analyzeJobURL      string
	analyzePolicyFile  string
	analyzeOutputFile  string
	analyzeCachePath   string
	analyzeEnhance     bool
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProfileFile, "profile", "p", "", "Path to profile JSON file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to target job JSON file")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL of a job posting page to use as the target job")
	analyzeCmd.Flags().StringVar(&analyzePolicyFile, "policy", "", "Path to scoring policy file (overrides POLICY_FILE)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeCachePath, "cache", "", "Path to the SQLite report cache (overrides REPORT_CACHE_PATH)")
	analyzeCmd.Flags().BoolVar(&analyzeEnhance, "enhance", false, "Fill suggestion examples with Gemini (requires GEMINI_API_KEY)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a readable summary to stderr")

	_ = analyzeCmd.MarkFlagRequired("profile")
	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime(analyzeVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var profile types.ProfileInput
	if err := readValidatedJSON(schemas.ProfileInput, analyzeProfileFile, &profile); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var job *types.JobContext
	switch {
	case analyzeJobFile != "":
		job = &types.JobContext{}
		if err := readValidatedJSON(schemas.JobContext, analyzeJobFile, job); err != nil {
			return err
		}
	case analyzeJobURL != "":
		job, err = fetch.JobPosting(ctx, analyzeJobURL, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		log.Debug("fetched job posting", zap.String("url", analyzeJobURL), zap.String("title", job.Title))
	}

	policy, err := resolvePolicy(analyzePolicyFile, cfg)
	if err != nil {
		return err
	}
	engine, err := optimizer.New(policy, optimizer.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	report, err := analyzeWithCache(ctx, engine, cfg, &profile, job, log)
	if err != nil {
		return err
	}

	if analyzeEnhance {
		report, err = enhanceReport(ctx, cfg, report, &profile, job, log)
		if err != nil {
			return err
		}
	}

	if analyzeVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintReport(report)
	}
	return writeJSON(cmd.OutOrStdout(), analyzeOutputFile, report)
}

// analyzeWithCache serves the report from the SQLite cache when one is configured.
// Cache failures are logged and the report is computed anyway.
func analyzeWithCache(ctx context.Context, engine *optimizer.Engine, cfg *config.Config, profile *types.ProfileInput, job *types.JobContext, log *zap.Logger) (*types.AnalysisReport, error) {
	path := analyzeCachePath
	if path == "" {
		path = cfg.CachePath
	}
	if path == "" {
		return engine.AnalyzeProfile(ctx, profile, job)
	}

	cache, err := reportcache.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	fingerprint, err := engine.Fingerprint(profile, job)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint input: %w", err)
	}
	if report, ok, err := cache.Get(ctx, fingerprint); err != nil {
		log.Warn("report cache lookup failed", zap.Error(err))
	} else if ok {
		log.Debug("report cache hit", zap.String("fingerprint", fingerprint))
		return report, nil
	}

	report, err := engine.AnalyzeProfile(ctx, profile, job)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(ctx, fingerprint, report); err != nil {
		log.Warn("report cache store failed", zap.Error(err))
	}
	return report, nil
}

// enhanceReport adds generated examples to suggestions. A generation failure keeps the plain report.
func enhanceReport(ctx context.Context, cfg *config.Config, report *types.AnalysisReport, profile *types.ProfileInput, job *types.JobContext, log *zap.Logger) (*types.AnalysisReport, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("--enhance requires GEMINI_API_KEY")
	}

	llmConfig := llm.DefaultConfig()
	client, err := llm.NewGeminiClient(ctx, llmConfig, cfg.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	targetRole := ""
	if job != nil {
		targetRole = job.Title
	}
	enhanced, err := llm.NewEnhancer(client, llmConfig, log).Enhance(ctx, report, profile, targetRole)
	if err != nil {
		log.Warn("continuing without suggestion examples", zap.Error(err))
	}
	return enhanced, nil
}
