package metrics

import (
	"context"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// InstrumentedTaskStore records the duration and outcome of every call made
// to the wrapped store.
type InstrumentedTaskStore struct {
	next    store.TaskStore
	metrics *Metrics
}

var _ store.TaskStore = (*InstrumentedTaskStore)(nil)

// NewInstrumentedTaskStore wraps next.
func NewInstrumentedTaskStore(next store.TaskStore, m *Metrics) *InstrumentedTaskStore {
	return &InstrumentedTaskStore{next: next, metrics: m}
}

// Create implements store.TaskStore.
func (s *InstrumentedTaskStore) Create(ctx context.Context, task *domain.Task) error {
	start := time.Now()
	err := s.next.Create(ctx, task)
	s.metrics.RecordStoreOperation("create", err, time.Since(start))
	return err
}

// List implements store.TaskStore.
func (s *InstrumentedTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	start := time.Now()
	tasks, err := s.next.List(ctx)
	s.metrics.RecordStoreOperation("list", err, time.Since(start))
	return tasks, err
}

// GetByID implements store.TaskStore.
func (s *InstrumentedTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	start := time.Now()
	task, err := s.next.GetByID(ctx, id)
	s.metrics.RecordStoreOperation("get", err, time.Since(start))
	return task, err
}

// Update implements store.TaskStore.
func (s *InstrumentedTaskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	start := time.Now()
	task, err := s.next.Update(ctx, id, patch)
	s.metrics.RecordStoreOperation("update", err, time.Since(start))
	return task, err
}

// Delete implements store.TaskStore.
func (s *InstrumentedTaskStore) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.metrics.RecordStoreOperation("delete", err, time.Since(start))
	return err
}
