package config

import (
	"errors"
)

var (
	// ErrInvalidConfig wraps every Validate failure; the message names the
	// offending gradeparse key.
	ErrInvalidConfig = errors.New("invalid gradeparse config")
	// ErrLoadConfig wraps failures reading the GRADEPARSE_CONFIG file or the
	// GRADEPARSE_ environment.
	ErrLoadConfig = errors.New("load gradeparse config")
)
