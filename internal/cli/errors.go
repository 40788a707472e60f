package cli

import "errors"

var (
	ErrInputTooLarge = errors.New("input too large")
	ErrUnknownFormat = errors.New("unknown output format")
	ErrServer        = errors.New("server request failed")
	ErrStoredNeedURL = errors.New("-stored requires -url")
)
