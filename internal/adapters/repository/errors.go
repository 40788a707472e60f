package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("course not found")
	ErrDuplicateID       = errors.New("duplicate course id")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)
