package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the remote extraction client.
var (
	ErrMissingAPIKey   = errors.New("llm: missing api key")
	ErrRateLimited     = errors.New("llm: rate limited")
	ErrResponseInvalid = errors.New("llm: invalid response")
	ErrRequestRejected = errors.New("llm: request rejected")
)

// UpstreamError is a 5xx or 408 answer from the service.
type UpstreamError struct {
	Status  int
	Message string
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("llm upstream %d: %s", e.Status, e.Message)
}

// Timeout reports whether the upstream timed out.
func (e UpstreamError) Timeout() bool { return e.Status == http.StatusRequestTimeout }

// Temporary reports whether a retry may succeed.
func (e UpstreamError) Temporary() bool { return e.Status/100 == 5 }
