// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Record bounds shared by every producer of course records.
const (
	MaxNameLength = 50 // names must be strictly shorter than this, in runes
	MinScore      = 0.0
	MaxScore      = 100.0
)

// Validation errors returned by NewCourse.
var (
	ErrInvalidName   = errors.New("invalid course name")
	ErrInvalidCredit = errors.New("invalid credit")
	ErrInvalidScore  = errors.New("invalid score")
)

// Course is a single extracted course record.
type Course struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Credit  float64 `json:"credit"`
	Score   float64 `json:"score"`
	Planned bool    `json:"planned"`
}

// NewCourse builds a Course, enforcing the record invariants: a non-empty name
// shorter than MaxNameLength runes, a non-negative credit and a score within
// [MinScore, MaxScore]. New records are never planned.
func NewCourse(id, name string, credit, score float64) (Course, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n >= MaxNameLength {
		return Course{}, fmt.Errorf("%w: length %d", ErrInvalidName, n)
	}
	if math.IsNaN(credit) || math.IsInf(credit, 0) || credit < 0 {
		return Course{}, fmt.Errorf("%w: %v", ErrInvalidCredit, credit)
	}
	if math.IsNaN(score) || score < MinScore || score > MaxScore {
		return Course{}, fmt.Errorf("%w: %v", ErrInvalidScore, score)
	}
	return Course{ID: id, Name: name, Credit: credit, Score: score}, nil
}

// ExcludePlanned returns the courses that are not flagged as planned,
// preserving order. The input slice is not modified.
func ExcludePlanned(courses []Course) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if !c.Planned {
			out = append(out, c)
		}
	}
	return out
}

// ImportJob is a queued request to extract and store courses from raw text.
type ImportJob struct {
	ID          string    // job identifier returned to the client
	Key         string    // idempotency key
	Text        string    // raw pasted text
	SubmittedAt time.Time // enqueue time
}
