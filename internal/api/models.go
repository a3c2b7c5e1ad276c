package api

import (
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// CreateTaskRequest defines the payload for creating a task. Pointer fields
// let "required" mean present, so false and "" are accepted. Any id in the
// body is ignored.
type CreateTaskRequest struct {
	Text     *string `json:"text"     validate:"required"`
	Day      *string `json:"day"      validate:"required"`
	Reminder *bool   `json:"reminder" validate:"required"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Text     shared.Optional[string] `json:"text"`
	Day      shared.Optional[string] `json:"day"`
	Reminder shared.Optional[bool]   `json:"reminder"`
}

// Validate rejects explicit nulls; no task column is nullable.
func (r *UpdateTaskRequest) Validate() error {
	switch {
	case r.Text.Null:
		return domain.NewValidationError("text", "cannot be null", domain.ErrNullField)
	case r.Day.Null:
		return domain.NewValidationError("day", "cannot be null", domain.ErrNullField)
	case r.Reminder.Null:
		return domain.NewValidationError("reminder", "cannot be null", domain.ErrNullField)
	}
	return nil
}

// ToPatch converts the request into a domain patch.
func (r *UpdateTaskRequest) ToPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Text:     r.Text.Ptr(),
		Day:      r.Day.Ptr(),
		Reminder: r.Reminder.Ptr(),
	}
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Day      string `json:"day"`
	Reminder bool   `json:"reminder"`
}

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	OK bool `json:"ok"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:       t.ID,
		Text:     t.Text,
		Day:      t.Day,
		Reminder: t.Reminder,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
