package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/schemas"
)

var validatePolicyCmd = &cobra.Command{
	Use:   "validate-policy <file>",
	Short: "Check a scoring policy file",
	Long:  "Validate a scoring policy file against the policy schema and the weight and word-list rules, then print its fingerprint.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidatePolicy,
}

func init() {
	rootCmd.AddCommand(validatePolicyCmd)
}

func runValidatePolicy(cmd *cobra.Command, args []string) error {
	path := args[0]

	policy, err := config.LoadPolicy(path)
	if err != nil {
		return err
	}
	// Round-trip the merged policy through the schema so both YAML and JSON files are covered.
	if err := schemas.ValidateValue(schemas.Policy, policy); err != nil {
		return fmt.Errorf("policy does not match schema: %w", err)
	}

	fingerprint, err := policy.Fingerprint()
	if err != nil {
		return fmt.Errorf("failed to fingerprint policy: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Policy is valid\n")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Industries: %v\n", policy.Industries())
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", fingerprint)
	return nil
}
