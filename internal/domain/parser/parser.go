// Package parser extracts course records from free-form pasted text.
//
// A line flows through Preprocess, NormalizeGrades, ExtractNumbers,
// Disambiguate and ExtractName. Lines that cannot be fully resolved are
// dropped without error; everything here is pure and safe for concurrent use.
package parser

import (
	"errors"

	"github.com/google/uuid"

	"github.com/okian/gradeparse/internal/domain/model"
)

// RejectReason explains why a line produced no record.
type RejectReason string

// Rejection reasons.
const (
	RejectTooFewNumbers RejectReason = "too_few_numbers"
	RejectInvalidName   RejectReason = "invalid_name"
	RejectScoreRange    RejectReason = "score_out_of_range"
	RejectCreditRange   RejectReason = "credit_out_of_range"
)

// Rejection pairs a cleaned line with the reason it was dropped.
type Rejection struct {
	Line   string       `json:"line"`
	Reason RejectReason `json:"reason"`
}

// Report is the detailed outcome of a parse.
type Report struct {
	Courses  []model.Course `json:"courses"`
	Lines    int            `json:"lines"`
	Rejected []Rejection    `json:"rejected"`
}

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithIDGenerator sets the function used to assign record identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(p *Parser) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// Parser turns text into course records.
type Parser struct {
	newID func() string
}

// New creates a Parser. Records get random UUIDs unless WithIDGenerator is set.
func New(opts ...Option) *Parser {
	p := &Parser{newID: uuid.NewString}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse extracts courses from text with the default parser.
func Parse(text string) []model.Course {
	return defaultParser.Parse(text)
}

// Parse extracts courses from text in line order. It never fails; text
// without recognisable courses yields an empty, non-nil slice.
func (p *Parser) Parse(text string) []model.Course {
	return p.ParseWithReport(text).Courses
}

// ParseWithReport is Parse plus the list of rejected lines.
func (p *Parser) ParseWithReport(text string) Report {
	lines := Preprocess(text)
	rep := Report{
		Courses:  make([]model.Course, 0, len(lines)),
		Lines:    len(lines),
		Rejected: []Rejection{},
	}
	for _, line := range lines {
		c, reason, ok := p.ParseLine(line)
		if !ok {
			rep.Rejected = append(rep.Rejected, Rejection{Line: line, Reason: reason})
			continue
		}
		rep.Courses = append(rep.Courses, c)
	}
	return rep
}

// ParseLine resolves a single preprocessed line into a course.
func (p *Parser) ParseLine(line string) (model.Course, RejectReason, bool) {
	line = NormalizeGrades(line)

	nums := ExtractNumbers(line)
	if len(nums) < 2 {
		return model.Course{}, RejectTooFewNumbers, false
	}
	v1, v2 := nums[len(nums)-2], nums[len(nums)-1]
	res := Disambiguate(v1, v2)

	name, ok := ExtractName(line, v1, v2)
	if !ok {
		return model.Course{}, RejectInvalidName, false
	}

	c, err := model.NewCourse("", name, res.Credit.Value, res.Score.Value)
	switch {
	case errors.Is(err, model.ErrInvalidCredit):
		return model.Course{}, RejectCreditRange, false
	case err != nil:
		return model.Course{}, RejectScoreRange, false
	}
	c.ID = p.newID()
	return c, "", true
}
