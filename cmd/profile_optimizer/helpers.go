package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/logger"
	"github.com/jonathan/profile-optimizer/internal/schemas"
)

// loadRuntime loads the application config and builds the logger it describes.
func loadRuntime(verbose bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.LogJSON, cfg.Debug || verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// resolvePolicy loads the policy from the flag, then the config, then falls back to the defaults.
func resolvePolicy(flagPath string, cfg *config.Config) (*config.Policy, error) {
	path := flagPath
	if path == "" && cfg != nil {
		path = cfg.PolicyFile
	}
	if path == "" {
		return config.DefaultPolicy(), nil
	}
	policy, err := config.LoadPolicy(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return policy, nil
}

// readValidatedJSON validates the file against the named schema and decodes it into out.
func readValidatedJSON(schema, path string, out any) error {
	if err := schemas.ValidateFile(schema, path); err != nil {
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if path == "" {
		_, err = w.Write(jsonBytes)
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
