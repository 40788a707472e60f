package llm

import (
	"net/http"
	"time"
)

// Default client configuration.
const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-4.1-mini"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	defaultTimeout   = 60 * time.Second
	defaultCacheTTL  = 30 * time.Minute
	endpointPath     = "/chat/completions"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the API base URL, e.g. https://api.openai.com/v1.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAPIKeyEnv names the environment variable holding the API key.
func WithAPIKeyEnv(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.apiKeyEnv = name
		}
	}
}

// WithAPIKey sets the key directly, bypassing the environment.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCacheTTL sets how long answers are cached per input text.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cacheTTL = d
		}
	}
}

// WithDoer replaces the function that executes HTTP requests.
func WithDoer(do func(*http.Request) (*http.Response, error)) Option {
	return func(c *Client) {
		if do != nil {
			c.do = do
		}
	}
}
