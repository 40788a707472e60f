package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/okian/gradeparse/internal/domain/dedupe"
	"github.com/okian/gradeparse/internal/domain/extract"
	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/internal/domain/types"
	"github.com/okian/gradeparse/pkg/logger"
)

// jobTracker keeps the status of asynchronous imports for a limited time and
// receives worker outcomes.
type jobTracker struct {
	jobs    *gocache.Cache
	deduper dedupe.Deduper
	log     logger.Logger
}

func newJobTracker(ttl time.Duration, d dedupe.Deduper, log logger.Logger) *jobTracker {
	return &jobTracker{
		jobs:    gocache.New(ttl, ttl),
		deduper: d,
		log:     log,
	}
}

func (t *jobTracker) queued(j model.ImportJob) types.JobStatus {
	s := types.JobStatus{ID: j.ID, State: types.JobQueued, SubmittedAt: j.SubmittedAt}
	t.jobs.SetDefault(j.ID, s)
	return s
}

func (t *jobTracker) forget(id string) {
	t.jobs.Delete(id)
}

func (t *jobTracker) get(id string) (types.JobStatus, bool) {
	v, ok := t.jobs.Get(id)
	if !ok {
		return types.JobStatus{}, false
	}
	return v.(types.JobStatus), true
}

func (t *jobTracker) size() int {
	return t.jobs.ItemCount()
}

// Complete records the worker outcome. Failed imports release their
// idempotency key so they can be submitted again.
func (t *jobTracker) Complete(ctx context.Context, j model.ImportJob, res extract.Result, err error) {
	now := time.Now()
	s := types.JobStatus{
		ID:          j.ID,
		State:       types.JobDone,
		Imported:    len(res.Courses),
		Rejected:    res.Rejected,
		Source:      res.Source,
		SubmittedAt: j.SubmittedAt,
		FinishedAt:  &now,
	}
	if err != nil {
		s.State = types.JobFailed
		s.Imported = 0
		s.Error = err.Error()
		t.deduper.Unrecord(ctx, j.Key)
	}
	t.jobs.SetDefault(j.ID, s)
	t.log.Info(ctx, "import job finished",
		logger.String("job_id", j.ID),
		logger.String("state", string(s.State)),
		logger.Int("imported", s.Imported))
}
