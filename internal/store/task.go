package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Implementations hold no task state between calls; every method goes to
// the database.
type TaskStore interface {
	// Create inserts a new task and sets task.ID to the store-assigned value.
	// Returns ErrInvalidEntity if the task already has an ID.
	Create(ctx context.Context, task *domain.Task) error

	// List returns every task ordered by ID. An empty store yields an empty slice.
	List(ctx context.Context) ([]*domain.Task, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update applies the present fields of patch in a single statement and
	// returns the resulting row.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// Delete permanently removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error
}

// PatchArgs converts patch into the text, day and reminder bind arguments
// of a COALESCE-style update. Absent fields bind as SQL NULL.
func PatchArgs(patch domain.TaskPatch) []any {
	var text, day sql.NullString
	var reminder sql.NullBool
	if patch.Text != nil {
		text = sql.NullString{String: *patch.Text, Valid: true}
	}
	if patch.Day != nil {
		day = sql.NullString{String: *patch.Day, Valid: true}
	}
	if patch.Reminder != nil {
		reminder = sql.NullBool{Bool: *patch.Reminder, Valid: true}
	}
	return []any{text, day, reminder}
}
