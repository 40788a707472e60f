// Package config defines service configuration and its defaults.
package config

import (
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the async import queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of import workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeTTLSeconds is how long an import key is remembered.
	DedupeTTLSeconds int `koanf:"dedupe_ttl_seconds"`

	// MaxInputBytes caps request bodies and CLI input.
	MaxInputBytes int64 `koanf:"max_input_bytes"`

	// StoreDriver is memory, sqlite or postgres. StoreDSN is passed to the
	// driver; empty selects a local default.
	StoreDriver string `koanf:"store_driver"`
	StoreDSN    string `koanf:"store_dsn"`

	// ExtractorMode is local, remote or remote_fallback.
	ExtractorMode string `koanf:"extractor_mode"`

	LLMBaseURL         string `koanf:"llm_base_url"`
	LLMModel           string `koanf:"llm_model"`
	LLMAPIKeyEnv       string `koanf:"llm_api_key_env"`
	LLMTimeoutSeconds  int    `koanf:"llm_timeout_seconds"`
	LLMCacheTTLSeconds int    `koanf:"llm_cache_ttl_seconds"`

	// CORSAllowedOrigins is a comma separated origin list; "*" allows all.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		QueueSize:          1024,
		WorkerCount:        runtime.NumCPU(),
		DedupeTTLSeconds:   600,
		MaxInputBytes:      1 << 20,
		StoreDriver:        "memory",
		ExtractorMode:      "local",
		LLMBaseURL:         "https://api.openai.com/v1",
		LLMModel:           "gpt-4.1-mini",
		LLMAPIKeyEnv:       "OPENAI_API_KEY",
		LLMTimeoutSeconds:  60,
		LLMCacheTTLSeconds: 1800,
		CORSAllowedOrigins: "*",
	}
}

// DedupeTTL returns DedupeTTLSeconds as a duration.
func (c *Config) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSeconds) * time.Second
}

// LLMTimeout returns LLMTimeoutSeconds as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

// LLMCacheTTL returns LLMCacheTTLSeconds as a duration.
func (c *Config) LLMCacheTTL() time.Duration {
	return time.Duration(c.LLMCacheTTLSeconds) * time.Second
}

// AllowedOrigins splits CORSAllowedOrigins, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// UsesRemote reports whether the extractor mode needs the remote client.
func (c *Config) UsesRemote() bool {
	return c.ExtractorMode == "remote" || c.ExtractorMode == "remote_fallback"
}
