package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/gradeparse/internal/domain/stats"
)

// HTTPClient talks to a running gradeparse server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Parse posts text to /parse.
func (c *HTTPClient) Parse(ctx context.Context, text string) (Output, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Output{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out Output
	if err := c.do(req, &out); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Stored fetches the stored courses and their statistics.
func (c *HTTPClient) Stored(ctx context.Context, includePlanned bool) (Output, error) {
	listReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/courses", http.NoBody)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	var out Output
	if err := c.do(listReq, &out); err != nil {
		return Output{}, err
	}

	q := url.Values{"include_planned": {strconv.FormatBool(includePlanned)}}
	statsReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), http.NoBody)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	var report stats.Report
	if err := c.do(statsReq, &report); err != nil {
		return Output{}, err
	}
	out.Summary = report.Summary
	out.Distribution = report.Distribution
	return out, nil
}

func (c *HTTPClient) do(req *http.Request, v any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServer, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrServer, err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrServer, req.Method, req.URL.Path, resp.StatusCode, apiErr.Message)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrServer, err)
	}
	return nil
}
