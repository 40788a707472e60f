// Package service ties extraction, storage, idempotency and the async import
// pipeline together for the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/gradeparse/internal/adapters/mq/queue"
	workerpool "github.com/okian/gradeparse/internal/adapters/mq/worker"
	repository "github.com/okian/gradeparse/internal/adapters/repository"
	"github.com/okian/gradeparse/internal/domain/dedupe"
	"github.com/okian/gradeparse/internal/domain/extract"
	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/internal/domain/stats"
	"github.com/okian/gradeparse/internal/domain/types"
	"github.com/okian/gradeparse/pkg/logger"
	"github.com/okian/gradeparse/pkg/metrics"
)

const (
	defaultQueueSize = 1024
	defaultDedupeTTL = 10 * time.Minute
	defaultJobTTL    = time.Hour
)

// Service implements the API dependencies for course import and statistics.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	extractor  extract.Extractor
	deduper    dedupe.Deduper
	queue      eventqueue.Queue
	workerPool *workerpool.Pool
	jobs       *jobTracker

	workerCount int
	queueSize   int
	dedupeTTL   time.Duration
	jobTTL      time.Duration
	jobTimeout  time.Duration

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of import workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending async imports.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeTTL sets how long an import key is remembered.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.dedupeTTL = ttl
		}
	}
}

// WithJobTTL sets how long finished job statuses stay queryable.
func WithJobTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.jobTTL = ttl
		}
	}
}

// WithJobTimeout bounds the extraction and storage of one async import.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the course store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithExtractor sets the course extractor. Defaults to the local parser.
func WithExtractor(ex extract.Extractor) Option {
	return func(s *Service) {
		if ex != nil {
			s.extractor = ex
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		dedupeTTL:   defaultDedupeTTL,
		jobTTL:      defaultJobTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.extractor == nil {
		s.extractor = extract.NewLocal(nil)
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithTTL(s.dedupeTTL))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.jobs = newJobTracker(s.jobTTL, s.deduper, s.logger)

	var wopts []workerpool.Option
	if s.jobTimeout > 0 {
		wopts = append(wopts, workerpool.WithJobTimeout(s.jobTimeout))
	}
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.extractor, s.store, s.jobs, wopts...)
	// Workers outlive ctx; only Stop ends them, after draining the queue.
	s.workerPool.Start(context.WithoutCancel(ctx))

	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdateStoredCourses(n)
	}

	s.started = true
	s.logger.Info(ctx, "course service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.String("dedupeTTL", s.dedupeTTL.String()),
	)
	return nil
}

// Stop drains pending imports. Imports still queued when the drain times out
// are marked failed and their keys released. The store is left open for its
// owner to close.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping course service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "course service stopped")
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Parse extracts courses from text without storing them.
func (s *Service) Parse(ctx context.Context, text string) (extract.Result, error) {
	if err := s.running(); err != nil {
		return extract.Result{}, err
	}
	return s.extractor.Extract(ctx, text)
}

// Import extracts courses from text and stores them. key identifies the
// import for idempotency; an empty key is derived from text. A repeated key
// within the dedupe TTL stores nothing and reports Duplicate.
func (s *Service) Import(ctx context.Context, key, text string) (types.ImportOutcome, error) {
	if err := s.running(); err != nil {
		return types.ImportOutcome{}, err
	}
	if key == "" {
		key = dedupe.KeyFor(text)
	}
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordImportDuplicate()
		s.logger.Debug(ctx, "duplicate import skipped", logger.String("key", key))
		return types.ImportOutcome{Duplicate: true, Key: key}, nil
	}

	res, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.deduper.Unrecord(ctx, key)
		return types.ImportOutcome{}, fmt.Errorf("extract: %w", err)
	}
	if len(res.Courses) > 0 {
		if err := s.store.Add(ctx, res.Courses...); err != nil {
			s.deduper.Unrecord(ctx, key)
			return types.ImportOutcome{}, fmt.Errorf("store: %w", err)
		}
	}

	return types.ImportOutcome{
		Key:      key,
		Imported: len(res.Courses),
		Rejected: res.Rejected,
		Source:   res.Source,
	}, nil
}

// SubmitImport queues text for asynchronous import. It returns the queued
// job, or duplicate=true when key was already imported. ErrBackpressure is
// returned when the queue is full.
func (s *Service) SubmitImport(ctx context.Context, key, text string) (status types.JobStatus, duplicate bool, err error) {
	if err := s.running(); err != nil {
		return types.JobStatus{}, false, err
	}
	if key == "" {
		key = dedupe.KeyFor(text)
	}
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordImportDuplicate()
		return types.JobStatus{}, true, nil
	}

	job := model.ImportJob{ID: uuid.NewString(), Key: key, Text: text, SubmittedAt: time.Now().UTC()}
	status = s.jobs.queued(job)
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, key)
		s.jobs.forget(job.ID)
		if errors.Is(err, eventqueue.ErrFull) || errors.Is(err, eventqueue.ErrClosed) {
			return types.JobStatus{}, false, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return types.JobStatus{}, false, err
	}
	return status, false, nil
}

// Job returns the status of an asynchronous import.
func (s *Service) Job(_ context.Context, id string) (types.JobStatus, error) {
	if err := s.running(); err != nil {
		return types.JobStatus{}, err
	}
	st, ok := s.jobs.get(id)
	if !ok {
		return types.JobStatus{}, ErrJobNotFound
	}
	return st, nil
}

// Courses lists stored courses, optionally filtered by planned flag.
func (s *Service) Courses(ctx context.Context, planned *bool) ([]model.Course, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, repository.Filter{Planned: planned})
}

// SetPlanned marks a stored course as planned or actual.
func (s *Service) SetPlanned(ctx context.Context, id string, planned bool) (model.Course, error) {
	if err := s.running(); err != nil {
		return model.Course{}, err
	}
	return s.store.SetPlanned(ctx, id, planned)
}

// Delete removes one stored course.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.running(); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Clear removes every stored course.
func (s *Service) Clear(ctx context.Context) (int, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	n, err := s.store.Clear(ctx)
	if err == nil {
		s.logger.Info(ctx, "courses cleared", logger.Int("removed", n))
	}
	return n, err
}

// Stats computes statistics over stored courses. Planned courses are
// excluded unless includePlanned is set.
func (s *Service) Stats(ctx context.Context, includePlanned bool) (stats.Report, error) {
	courses, err := s.Courses(ctx, nil)
	if err != nil {
		return stats.Report{}, err
	}
	if !includePlanned {
		courses = model.ExcludePlanned(courses)
	}
	return stats.Compute(courses), nil
}

// StatsFor validates courses and computes their statistics. The planned
// flag is ignored.
func (s *Service) StatsFor(courses []model.Course) (stats.Report, error) {
	valid := make([]model.Course, 0, len(courses))
	for i, c := range courses {
		v, err := model.NewCourse(c.ID, c.Name, c.Credit, c.Score)
		if err != nil {
			return stats.Report{}, fmt.Errorf("%w at index %d: %w", ErrInvalidCourse, i, err)
		}
		valid = append(valid, v)
	}
	return stats.Compute(valid), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeTTL":   s.dedupeTTL.String(),
	}
	if s.started {
		out["queueLength"] = s.queue.Len()
		out["dedupeKeys"] = s.deduper.Size()
		out["trackedJobs"] = s.jobs.size()
		if n, err := s.store.Count(context.Background()); err == nil {
			out["storedCourses"] = n
		}
	}
	return out
}
