// Package extract turns pasted text into course records, either with the
// local heuristic parser or through a remote text-understanding service.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/internal/domain/parser"
	"github.com/okian/gradeparse/pkg/logger"
	"github.com/okian/gradeparse/pkg/metrics"
)

// Sources reported in Result.Source.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// rejectIncomplete labels remote candidates missing credit or score.
const rejectIncomplete = "incomplete_record"

// Extractor modes selectable by configuration.
const (
	ModeLocal          = "local"
	ModeRemote         = "remote"
	ModeRemoteFallback = "remote_fallback"
)

// Result is the outcome of one extraction.
type Result struct {
	Courses  []model.Course `json:"courses"`
	Lines    int            `json:"lines"`
	Rejected int            `json:"rejected"`
	Source   string         `json:"source"`
}

// Extractor produces course records from raw text.
type Extractor interface {
	Extract(ctx context.Context, text string) (Result, error)
}

// Candidate is an unvalidated record returned by a remote service. Credit
// and Score are nil when the service left them out.
type Candidate struct {
	Name   string   `json:"name"`
	Credit *float64 `json:"credit"`
	Score  *float64 `json:"score"`
}

// Complete reports whether the service supplied both numbers.
func (c Candidate) Complete() bool {
	return c.Credit != nil && c.Score != nil
}

// RemoteClient asks a remote service for candidate records.
type RemoteClient interface {
	ExtractCourses(ctx context.Context, text string) ([]Candidate, error)
}

// LocalExtractor runs the heuristic parser.
type LocalExtractor struct {
	parser *parser.Parser
}

// NewLocal wraps p, or a default parser when p is nil.
func NewLocal(p *parser.Parser) *LocalExtractor {
	if p == nil {
		p = parser.New()
	}
	return &LocalExtractor{parser: p}
}

// Extract parses text. It fails only when ctx is already done.
func (e *LocalExtractor) Extract(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("local extract: %w", err)
	}

	start := time.Now()
	report := e.parser.ParseWithReport(text)
	metrics.RecordExtractLatency(SourceLocal, float64(time.Since(start).Microseconds())/1000)
	metrics.RecordLinesScanned(report.Lines)
	for _, r := range report.Rejected {
		metrics.RecordLineRejected(string(r.Reason))
	}
	metrics.RecordCoursesExtracted(SourceLocal, len(report.Courses))

	return Result{
		Courses:  report.Courses,
		Lines:    report.Lines,
		Rejected: len(report.Rejected),
		Source:   SourceLocal,
	}, nil
}

// RemoteExtractor delegates to a RemoteClient and validates every candidate
// with model.NewCourse. Incomplete or invalid candidates are dropped.
type RemoteExtractor struct {
	client RemoteClient
	newID  func() string
}

// NewRemote wraps client.
func NewRemote(client RemoteClient) *RemoteExtractor {
	return &RemoteExtractor{client: client, newID: uuid.NewString}
}

// Extract calls the remote service.
func (e *RemoteExtractor) Extract(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	candidates, err := e.client.ExtractCourses(ctx, text)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordRemoteLatency(elapsed)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRemoteFailed, err)
	}
	metrics.RecordExtractLatency(SourceRemote, elapsed)

	courses := make([]model.Course, 0, len(candidates))
	for _, c := range candidates {
		if !c.Complete() {
			metrics.RecordLineRejected(rejectIncomplete)
			continue
		}
		course, err := model.NewCourse(e.newID(), c.Name, *c.Credit, *c.Score)
		if err != nil {
			continue
		}
		courses = append(courses, course)
	}
	metrics.RecordCoursesExtracted(SourceRemote, len(courses))

	return Result{
		Courses:  courses,
		Lines:    len(candidates),
		Rejected: len(candidates) - len(courses),
		Source:   SourceRemote,
	}, nil
}

// FallbackExtractor tries primary first and uses secondary when it fails.
type FallbackExtractor struct {
	primary   Extractor
	secondary Extractor
	log       logger.Logger
}

// NewFallback chains primary and secondary.
func NewFallback(primary, secondary Extractor, log logger.Logger) *FallbackExtractor {
	if log == nil {
		log = logger.Nop()
	}
	return &FallbackExtractor{primary: primary, secondary: secondary, log: log}
}

// Extract runs primary, then secondary on error. A cancelled ctx is not
// retried.
func (e *FallbackExtractor) Extract(ctx context.Context, text string) (Result, error) {
	res, err := e.primary.Extract(ctx, text)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return Result{}, err
	}
	e.log.Warn(ctx, "primary extractor failed, falling back", logger.Error(err))
	metrics.RecordExtractFallback()
	return e.secondary.Extract(ctx, text)
}

// ForMode builds the extractor for a configured mode. remote may be nil for
// ModeLocal.
func ForMode(mode string, remote RemoteClient, log logger.Logger) (Extractor, error) {
	local := NewLocal(nil)
	switch mode {
	case "", ModeLocal:
		return local, nil
	case ModeRemote:
		if remote == nil {
			return nil, ErrNoRemote
		}
		return NewRemote(remote), nil
	case ModeRemoteFallback:
		if remote == nil {
			return nil, ErrNoRemote
		}
		return NewFallback(NewRemote(remote), local, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
