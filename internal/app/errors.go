package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBackpressure  = errors.New("import queue is full")
	ErrJobNotFound   = errors.New("import job not found")
	ErrInvalidCourse = errors.New("invalid course")
)
