package extract

import "errors"

// Sentinel errors for extraction.
var (
	ErrUnknownMode  = errors.New("unknown extractor mode")
	ErrNoRemote     = errors.New("remote extractor not configured")
	ErrRemoteFailed = errors.New("remote extraction failed")
)
