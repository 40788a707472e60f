// Package llm is an OpenAI-compatible client that extracts course records
// from pasted text with a strict JSON schema response.
package llm

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/okian/gradeparse/internal/domain/extract"
	"github.com/okian/gradeparse/pkg/metrics"
)

const systemPrompt = "Extract every academic course from the user's text. " +
	"Return the course name, its credit weight and its numeric score from 0 to 100. " +
	"Convert letter or word grades to numbers. Skip lines that are not courses."

// courseSchema requires name, credit and score on every item.
var courseSchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["courses"],
  "properties": {
    "courses": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "credit", "score"],
        "properties": {
          "name": {"type": "string"},
          "credit": {"type": "number", "minimum": 0},
          "score": {"type": "number", "minimum": 0, "maximum": 100}
        }
      }
    }
  }
}`)

// Client calls a chat completions endpoint.
type Client struct {
	baseURL   string
	model     string
	apiKeyEnv string
	apiKey    string
	timeout   time.Duration
	cacheTTL  time.Duration
	url       string
	cache     *gocache.Cache
	do        func(*http.Request) (*http.Response, error)
}

var _ extract.RemoteClient = (*Client)(nil)

// New builds a Client. The API key comes from WithAPIKey or the configured
// environment variable.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   DefaultBaseURL,
		model:     DefaultModel,
		apiKeyEnv: DefaultAPIKeyEnv,
		timeout:   defaultTimeout,
		cacheTTL:  defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" {
		c.apiKey = os.Getenv(c.apiKeyEnv)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, c.apiKeyEnv)
	}
	if c.do == nil {
		c.do = (&http.Client{Timeout: c.timeout}).Do
	}
	c.url = strings.TrimRight(c.baseURL, "/") + endpointPath
	c.cache = gocache.New(c.cacheTTL, 2*c.cacheTTL)
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type coursePayload struct {
	Courses []extract.Candidate `json:"courses"`
}

// ExtractCourses asks the service for the courses in text. Successful
// answers are cached by the SHA-256 of text.
func (c *Client) ExtractCourses(ctx context.Context, text string) ([]extract.Candidate, error) {
	key := cacheKey(text)
	if v, ok := c.cache.Get(key); ok {
		metrics.RecordRemoteCacheHit()
		return cloneCandidates(v.([]extract.Candidate)), nil
	}

	out, err := c.invoke(ctx, text)
	if err != nil {
		metrics.RecordRemoteError(errorKind(err))
		return nil, err
	}
	c.cache.Set(key, cloneCandidates(out), gocache.DefaultExpiration)
	return out, nil
}

func (c *Client) invoke(ctx context.Context, text string) ([]extract.Candidate, error) {
	body, err := json.Marshal(&chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		ResponseFormat: &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchema{Name: "courses", Schema: courseSchema, Strict: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		msg := strings.TrimSpace(string(slurp))
		if resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode/100 == 5 {
			return nil, UpstreamError{Status: resp.StatusCode, Message: msg}
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestRejected, resp.StatusCode, msg)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode: %w", ErrResponseInvalid)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return nil, ErrResponseInvalid
	}
	var payload coursePayload
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode content: %w", ErrResponseInvalid)
	}
	if payload.Courses == nil {
		payload.Courses = []extract.Candidate{}
	}
	return payload.Courses, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cloneCandidates(in []extract.Candidate) []extract.Candidate {
	out := make([]extract.Candidate, len(in))
	for i, c := range in {
		out[i] = extract.Candidate{Name: c.Name, Credit: cloneFloat(c.Credit), Score: cloneFloat(c.Score)}
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func errorKind(err error) string {
	var up UpstreamError
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrResponseInvalid):
		return "invalid_response"
	case errors.Is(err, ErrRequestRejected):
		return "rejected"
	case errors.As(err, &up):
		return "upstream"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "transport"
	}
}
