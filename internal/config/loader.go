package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GRADEPARSE_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GRADEPARSE_CONFIG is set
//  3. env (prefix GRADEPARSE_)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// GRADEPARSE_QUEUE_SIZE -> queue_size (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeTTLSeconds <= 0:
		return fmt.Errorf("%w: dedupe_ttl_seconds must be positive", ErrInvalidConfig)
	case c.MaxInputBytes <= 0:
		return fmt.Errorf("%w: max_input_bytes must be positive", ErrInvalidConfig)
	case !slices.Contains([]string{"", "debug", "info", "warn", "warning", "error"}, strings.ToLower(c.LogLevel)):
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	case !slices.Contains([]string{"text", "json"}, c.LogFormat):
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	case !slices.Contains([]string{"memory", "sqlite", "postgres"}, c.StoreDriver):
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case !slices.Contains([]string{"local", "remote", "remote_fallback"}, c.ExtractorMode):
		return fmt.Errorf("%w: unknown extractor_mode %q", ErrInvalidConfig, c.ExtractorMode)
	}
	if c.UsesRemote() {
		if c.LLMBaseURL == "" || c.LLMModel == "" {
			return fmt.Errorf("%w: llm_base_url and llm_model are required for %s", ErrInvalidConfig, c.ExtractorMode)
		}
		if c.LLMTimeoutSeconds <= 0 || c.LLMCacheTTLSeconds <= 0 {
			return fmt.Errorf("%w: llm timeouts must be positive", ErrInvalidConfig)
		}
	}
	return nil
}
