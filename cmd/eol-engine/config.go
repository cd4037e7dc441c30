// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// pipelineConfig builds the run configuration: defaults, then config
// file and environment via viper, then command flags on top.
func pipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()

	if v := viper.GetString("mode"); v != "" {
		cfg.Mode = types.ExtractMode(v)
	}
	if v := viper.GetInt("max_tokens"); v > 0 {
		cfg.MaxTokens = v
	}
	if v := viper.GetString("output_dir"); v != "" {
		cfg.OutputDir = v
	}
	if v := viper.GetDuration("fetcher.timeout"); v > 0 {
		cfg.Fetcher.Timeout = v
	}
	if v := viper.GetString("fetcher.user_agent"); v != "" {
		cfg.Fetcher.UserAgent = v
	}
	if v := viper.GetInt("fetcher.max_attempts"); v > 0 {
		cfg.Fetcher.MaxAttempts = v
	}
	if v := viper.GetDuration("fetcher.retry_backoff"); v > 0 {
		cfg.Fetcher.RetryBackoff = v
	}
	if viper.IsSet("router.request_delay") {
		cfg.Router.RequestDelay = viper.GetDuration("router.request_delay")
	}
	if v := viper.GetInt("router.parallelism"); v > 0 {
		cfg.Router.Parallelism = v
	}

	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("mode") {
		v, _ := cmd.Flags().GetString("mode")
		cfg.Mode = types.ExtractMode(v)
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.MaxTokens, _ = cmd.Flags().GetInt("max-tokens")
	}

	return cfg, cfg.Validate()
}
