// Package main provides the entry point for the Profile Optimizer CLI, API server and worker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "profile_optimizer",
	Short:         "Profile Optimizer scoring engine",
	Long:          "Profile Optimizer scores a professional profile against an optional target job and returns prioritized improvement suggestions, from the command line, over a REST API, or from a RabbitMQ worker.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML or JSON config file (environment variables take precedence)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
