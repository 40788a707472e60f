package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/gradeparse/internal/domain/extract"
	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/pkg/logger"
	"github.com/okian/gradeparse/pkg/metrics"
)

const (
	defaultJobTimeout   = 2 * time.Minute
	poolShutdownTimeout = 30 * time.Second
)

// Job outcomes reported to metrics.
const (
	outcomeDone   = "done"
	outcomeFailed = "failed"
)

// Job is what workers read off the queue.
type Job = model.ImportJob

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan Job
}

// Saver stores extracted courses.
type Saver interface {
	Add(ctx context.Context, courses ...model.Course) error
}

// Reporter receives the outcome of every job. err is nil on success.
type Reporter interface {
	Complete(ctx context.Context, j Job, res extract.Result, err error)
}

// Worker processes import jobs.
type Worker interface {
	// Run processes jobs until the queue is drained, ctx is done or Shutdown
	// is called.
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	extractor  extract.Extractor
	saver      Saver
	reporter   Reporter
	name       string
	jobTimeout time.Duration

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, ex extract.Extractor, saver Saver, reporter Reporter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		extractor:  ex,
		saver:      saver,
		reporter:   reporter,
		name:       "worker",
		jobTimeout: defaultJobTimeout,
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if lq, ok := w.queue.(interface{ Len() int }); ok {
				metrics.UpdateQueueSize(lq.Len())
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "import job failed", logger.String("job_id", j.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j Job) (err error) {
	start := time.Now()
	var res extract.Result
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordJobFinished(outcomeFailed)
		} else {
			metrics.RecordJobFinished(outcomeDone)
		}
		w.reporter.Complete(ctx, j, res, err)
	}()

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	res, err = w.extractor.Extract(jobCtx, j.Text)
	if err != nil {
		return fmt.Errorf("extract job %s: %w", j.ID, err)
	}
	if len(res.Courses) == 0 {
		return nil
	}
	if err = w.saver.Add(jobCtx, res.Courses...); err != nil {
		return fmt.Errorf("store job %s: %w", j.ID, err)
	}
	w.logger.Debug(ctx, "import job stored",
		logger.String("job_id", j.ID),
		logger.Int("courses", len(res.Courses)),
		logger.String("source", res.Source))
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	reporter Reporter

	logger logger.Logger
}

// NewPool creates a worker pool. workerCount < 1 selects runtime.NumCPU().
func NewPool(workerCount int, q Queue, ex extract.Extractor, saver Saver, reporter Reporter, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		reporter: reporter,
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, ex, saver, reporter, wopts...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals every worker to stop after its current job, without draining.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		<-w.done
	}
	metrics.UpdateWorkerCount(0)
}

// Shutdown closes the queue and waits for workers to drain pending jobs.
// Jobs still queued when the wait times out are reported with ErrAbandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		p.abandon(ctx)
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}

func (p *Pool) abandon(ctx context.Context) {
	dq, ok := p.queue.(interface{ Drain() []Job })
	if !ok {
		return
	}
	left := dq.Drain()
	for _, j := range left {
		metrics.RecordJobFinished(outcomeFailed)
		p.reporter.Complete(ctx, j, extract.Result{}, ErrAbandoned)
	}
	if len(left) > 0 {
		p.logger.Warn(ctx, "pending imports abandoned", logger.Int("jobs", len(left)))
	}
}
