// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. The
	// default is a realistic browser string to avoid trivial bot-blocking.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetcherConfig holds settings for the resilient fetcher.
type FetcherConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxAttempts is the total number of attempts per URL, including the
	// first (default 3). Only transient failures are retried.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// RetryBackoff is the base delay before the first retry; it doubles
	// each attempt (default 1s).
	RetryBackoff time.Duration `json:"retry_backoff" yaml:"retry_backoff"`
}

// RouterConfig holds settings for the per-model source router.
type RouterConfig struct {
	// RequestDelay is the politeness delay between successive requests
	// for one model (default 3s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// RequestJitter adds up to this much random extra delay.
	RequestJitter time.Duration `json:"request_jitter" yaml:"request_jitter"`

	// Parallelism bounds concurrent fetches for one model's targets
	// (default 3).
	Parallelism int `json:"parallelism" yaml:"parallelism"`

	// Targets overrides the built-in target list when non-empty.
	Targets []QueryTarget `json:"targets,omitempty" yaml:"targets,omitempty"`
}

// ExtractMode selects the extraction strategy.
type ExtractMode string

const (
	ModeSimple   ExtractMode = "simple"
	ModeAdvanced ExtractMode = "advanced"
)

// PipelineConfig groups all settings for one scraping run. The zero
// value is not usable; callers start from DefaultPipelineConfig.
type PipelineConfig struct {
	Fetcher FetcherConfig `json:"fetcher" yaml:"fetcher"`
	Router  RouterConfig  `json:"router" yaml:"router"`

	// Mode selects simple or advanced extraction.
	Mode ExtractMode `json:"mode" yaml:"mode"`

	// MaxTokens is the per-batch token budget for prompt documents.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// OutputDir receives all per-run artifacts: Scrap_* files, the
	// summary JSON, prompt batches, the run log, and the results index.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// DefaultPipelineConfig returns conservative defaults for public scraping.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Fetcher: FetcherConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
			MaxAttempts:  3,
			RetryBackoff: time.Second,
		},
		Router: RouterConfig{
			RequestDelay:  3 * time.Second,
			RequestJitter: 500 * time.Millisecond,
			Parallelism:   3,
		},
		Mode:      ModeAdvanced,
		MaxTokens: 3500,
		OutputDir: "output",
	}
}

// Validate ensures the configuration is coherent. Validation failures
// are fatal at run start, before any fetching begins.
func (c PipelineConfig) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Mode != ModeSimple && c.Mode != ModeAdvanced {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeSimple, ModeAdvanced, c.Mode)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher timeout must be positive")
	}
	if c.Fetcher.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Fetcher.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	if c.Router.RequestDelay < 0 {
		return fmt.Errorf("request delay cannot be negative")
	}
	if c.Router.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	return nil
}
