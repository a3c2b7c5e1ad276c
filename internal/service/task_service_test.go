package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, s store.TaskStore) service.TaskService {
	t.Helper()
	svc, err := service.NewTaskService(s, nil)
	require.NoError(t, err)
	return svc
}

func TestNewTaskService_NilStore(t *testing.T) {
	svc, err := service.NewTaskService(nil, nil)
	assert.Nil(t, svc)

	var svcErr *service.TaskServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_service", svcErr.Operation)
}

func TestTaskService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, mocks.NewMockTaskStore())

	created, err := svc.CreateTask(ctx, "Buy milk", "Mon", true)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Buy milk", created.Text)
	assert.Equal(t, "Mon", created.Day)
	assert.True(t, created.Reminder)

	got, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty slice", func(t *testing.T) {
		svc := newService(t, mocks.NewMockTaskStore())
		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("nil from store becomes empty slice", func(t *testing.T) {
		svc := newService(t, &mocks.MockTaskStore{
			ListFn: func(ctx context.Context) ([]*domain.Task, error) { return nil, nil },
		})
		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
	})

	t.Run("returns every created task", func(t *testing.T) {
		svc := newService(t, mocks.NewMockTaskStore())
		for _, text := range []string{"a", "b", "c"} {
			_, err := svc.CreateTask(ctx, text, "Mon", false)
			require.NoError(t, err)
		}
		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "a", tasks[0].Text)
		assert.Equal(t, "c", tasks[2].Text)
	})
}

func TestTaskService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, mocks.NewMockTaskStore())
	day := "Tue"

	_, err := svc.GetTask(ctx, 99999)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.UpdateTask(ctx, 99999, domain.TaskPatch{Day: &day})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.UpdateTask(ctx, 99999, domain.TaskPatch{})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	assert.ErrorIs(t, svc.DeleteTask(ctx, 99999), service.ErrTaskNotFound)
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, mocks.NewMockTaskStore())

	created, err := svc.CreateTask(ctx, "Buy milk", "Mon", true)
	require.NoError(t, err)

	day := "Tue"
	updated, err := svc.UpdateTask(ctx, created.ID, domain.TaskPatch{Day: &day})
	require.NoError(t, err)
	assert.Equal(t, "Tue", updated.Day)
	assert.Equal(t, "Buy milk", updated.Text)
	assert.True(t, updated.Reminder)

	off := false
	updated, err = svc.UpdateTask(ctx, created.ID, domain.TaskPatch{Reminder: &off})
	require.NoError(t, err)
	assert.False(t, updated.Reminder)
	assert.Equal(t, created.ID, updated.ID)
}

func TestTaskService_UpdateTask_EmptyPatchSkipsWrite(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Task{ID: 7, Text: "x", Day: "Mon"}
	svc := newService(t, &mocks.MockTaskStore{
		GetByIDFn: func(ctx context.Context, id int64) (*domain.Task, error) {
			return existing, nil
		},
		UpdateFn: func(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
			t.Fatal("Update must not be called for an empty patch")
			return nil, nil
		},
	})

	got, err := svc.UpdateTask(ctx, 7, domain.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, mocks.NewMockTaskStore())

	created, err := svc.CreateTask(ctx, "Buy milk", "Mon", true)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	_, err = svc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.ErrorIs(t, svc.DeleteTask(ctx, created.ID), service.ErrTaskNotFound)
}

func TestTaskService_StoreFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("database is locked")
	svc := newService(t, &mocks.MockTaskStore{
		CreateFn:  func(ctx context.Context, task *domain.Task) error { return dbErr },
		ListFn:    func(ctx context.Context) ([]*domain.Task, error) { return nil, dbErr },
		GetByIDFn: func(ctx context.Context, id int64) (*domain.Task, error) { return nil, dbErr },
		UpdateFn: func(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
			return nil, dbErr
		},
		DeleteFn: func(ctx context.Context, id int64) error { return dbErr },
	})
	text := "t"

	tests := []struct {
		name string
		op   string
		call func() error
	}{
		{"create", "create_task", func() error { _, err := svc.CreateTask(ctx, "t", "d", false); return err }},
		{"list", "list_tasks", func() error { _, err := svc.ListTasks(ctx); return err }},
		{"get", "get_task", func() error { _, err := svc.GetTask(ctx, 1); return err }},
		{"update", "update_task", func() error {
			_, err := svc.UpdateTask(ctx, 1, domain.TaskPatch{Text: &text})
			return err
		}},
		{"delete", "delete_task", func() error { return svc.DeleteTask(ctx, 1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var svcErr *service.TaskServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tc.op, svcErr.Operation)
			assert.ErrorIs(t, err, dbErr)
			assert.NotErrorIs(t, err, service.ErrTaskNotFound)
		})
	}
}
