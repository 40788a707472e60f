// Package repository stores course records in memory or in a SQL database.
package repository

import (
	"context"
	"time"

	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/pkg/metrics"
)

// Filter narrows List results. A nil Planned matches every course.
type Filter struct {
	Planned *bool
}

func (f Filter) match(c model.Course) bool {
	return f.Planned == nil || *f.Planned == c.Planned
}

// Store provides read/write access to stored courses. List returns courses in
// insertion order.
type Store interface {
	// Add stores courses atomically. Returns ErrDuplicateID if any ID exists.
	Add(ctx context.Context, courses ...model.Course) error
	List(ctx context.Context, f Filter) ([]model.Course, error)
	// Get returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (model.Course, error)
	SetPlanned(ctx context.Context, id string, planned bool) (model.Course, error)
	Delete(ctx context.Context, id string) error
	// Clear removes every course and returns how many were removed.
	Clear(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// observe records the latency of a store operation started at start.
func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}
