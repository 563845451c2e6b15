package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/reportcache"
)

var (
	cachePath      string
	cacheOlderThan time.Duration
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and prune the local report cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cached reports older than --older-than",
	RunE:  runCachePrune,
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Path to the SQLite report cache (overrides REPORT_CACHE_PATH)")
	cachePruneCmd.Flags().DurationVar(&cacheOlderThan, "older-than", 30*24*time.Hour, "Maximum age of entries to keep")

	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime(false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path := cachePath
	if path == "" {
		path = cfg.CachePath
	}
	if path == "" {
		return fmt.Errorf("--cache or REPORT_CACHE_PATH is required")
	}
	if cacheOlderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	cache, err := reportcache.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open report cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	removed, err := cache.Prune(ctx, cacheOlderThan)
	if err != nil {
		return err
	}
	remaining, err := cache.Len(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached reports (%d remaining)\n", removed, remaining)
	return nil
}
