package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/observability"
	"github.com/jonathan/profile-optimizer/internal/optimizer"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score how well a resume covers a job description",
	Long:  "Extract keywords from a job description text file and report how many of them appear in a resume text file.",
	RunE:  runMatch,
}

var (
	matchJobTextFile    string
	matchResumeTextFile string
	matchPolicyFile     string
	matchVerbose        bool
)

func init() {
	matchCmd.Flags().StringVar(&matchJobTextFile, "job-text", "", "Path to job description text file (required)")
	matchCmd.Flags().StringVar(&matchResumeTextFile, "resume-text", "", "Path to resume text file (required)")
	matchCmd.Flags().StringVar(&matchPolicyFile, "policy", "", "Path to scoring policy file (overrides POLICY_FILE)")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print a readable summary to stderr")

	_ = matchCmd.MarkFlagRequired("job-text")
	_ = matchCmd.MarkFlagRequired("resume-text")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime(matchVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	jobText, err := os.ReadFile(matchJobTextFile)
	if err != nil {
		return fmt.Errorf("failed to read job text: %w", err)
	}
	resumeText, err := os.ReadFile(matchResumeTextFile)
	if err != nil {
		return fmt.Errorf("failed to read resume text: %w", err)
	}

	policy, err := resolvePolicy(matchPolicyFile, cfg)
	if err != nil {
		return err
	}
	engine, err := optimizer.New(policy, optimizer.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	result, err := engine.MatchJobToResume(string(jobText), string(resumeText))
	if err != nil {
		return err
	}

	if matchVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMatch(result)
	}
	return writeJSON(cmd.OutOrStdout(), "", result)
}
