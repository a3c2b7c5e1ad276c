package domain

// Task is a to-do item with a free-form scheduled day and a reminder flag.
// ID is zero until the task has been persisted; the store assigns it.
type Task struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Day      string `json:"day"`
	Reminder bool   `json:"reminder"`
}

// NewTask creates an unpersisted Task.
func NewTask(text, day string, reminder bool) *Task {
	return &Task{
		Text:     text,
		Day:      day,
		Reminder: reminder,
	}
}

// IsPersisted reports whether the store has assigned an ID.
func (t *Task) IsPersisted() bool {
	return t.ID > 0
}

// TaskPatch is a partial update. A nil field is absent and leaves the stored
// value untouched; a non-nil field is applied even when it holds the zero
// value (false, "").
type TaskPatch struct {
	Text     *string
	Day      *string
	Reminder *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Day == nil && p.Reminder == nil
}
