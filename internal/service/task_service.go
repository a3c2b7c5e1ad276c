package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask persists a new task and returns it with its assigned ID
	CreateTask(ctx context.Context, text, day string, reminder bool) (*domain.Task, error)

	// ListTasks returns every task ordered by ID
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask retrieves a task by its ID
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTask applies the present fields of patch and returns the updated task
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask permanently removes a task
	DeleteTask(ctx context.Context, id int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService
// It returns an error if taskStore is nil.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// CreateTask creates a new task
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	text, day string,
	reminder bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task := domain.NewTask(text, day, reminder)
	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task", "error", err)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Debug("task created", "task_id", task.ID)
	return task, nil
}

// ListTasks returns all tasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.List(ctx)
	if err != nil {
		log.Error("failed to list tasks", "error", err)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed tasks", "count", len(tasks))
	return tasks, nil
}

// GetTask retrieves a task by its ID
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		mapped := NewTaskServiceError("get_task", "failed to retrieve task", err)
		if mapped == ErrTaskNotFound {
			log.Debug("task not found", "task_id", id)
		} else {
			log.Error("failed to retrieve task", "error", err, "task_id", id)
		}
		return nil, mapped
	}

	return task, nil
}

// UpdateTask applies a partial update. An empty patch returns the current task.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		return s.GetTask(ctx, id)
	}

	task, err := s.taskStore.Update(ctx, id, patch)
	if err != nil {
		mapped := NewTaskServiceError("update_task", "failed to update task", err)
		if mapped == ErrTaskNotFound {
			log.Debug("task not found for update", "task_id", id)
		} else {
			log.Error("failed to update task", "error", err, "task_id", id)
		}
		return nil, mapped
	}

	log.Debug("task updated", "task_id", id)
	return task, nil
}

// DeleteTask removes a task by its ID
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, id); err != nil {
		mapped := NewTaskServiceError("delete_task", "failed to delete task", err)
		if mapped == ErrTaskNotFound {
			log.Debug("task not found for delete", "task_id", id)
		} else {
			log.Error("failed to delete task", "error", err, "task_id", id)
		}
		return mapped
	}

	log.Debug("task deleted", "task_id", id)
	return nil
}
