package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/pkg/metrics"
)

// MemoryStore keeps courses in an ordered slice with an ID index.
type MemoryStore struct {
	mu      sync.RWMutex
	courses []model.Course
	index   map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

func (s *MemoryStore) Add(_ context.Context, courses ...model.Course) error {
	defer observe("add", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		if _, ok := s.index[c.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	for _, c := range courses {
		s.index[c.ID] = len(s.courses)
		s.courses = append(s.courses, c)
	}
	metrics.UpdateStoredCourses(len(s.courses))
	return nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]model.Course, error) {
	defer observe("list", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if f.match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Course{}, ErrNotFound
	}
	return s.courses[i], nil
}

func (s *MemoryStore) SetPlanned(_ context.Context, id string, planned bool) (model.Course, error) {
	defer observe("set_planned", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Course{}, ErrNotFound
	}
	s.courses[i].Planned = planned
	return s.courses[i], nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	defer observe("delete", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	s.courses = append(s.courses[:i], s.courses[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.courses); j++ {
		s.index[s.courses[j].ID] = j
	}
	metrics.UpdateStoredCourses(len(s.courses))
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.courses)
	s.courses = nil
	s.index = make(map[string]int)
	metrics.UpdateStoredCourses(0)
	return n, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
