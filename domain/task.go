package domain

import "time"

// Task represents a user-owned activity item. Optional columns are pointers
// so "never set" survives round-trips through storage and the offline buffer.
type Task struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Priority             int        `json:"priority"`
	Completed            bool       `json:"completed"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	Recurrence           string     `json:"recurrence,omitempty"`
	ProjectID            *int64     `json:"project_id,omitempty"`
	ParentID             *int64     `json:"parent_id,omitempty"`
	ReminderTime         *time.Time `json:"reminder_time,omitempty"`
	ReminderRecurring    string     `json:"reminder_recurring,omitempty"`
	ReminderSnoozedUntil *time.Time `json:"reminder_snoozed_until,omitempty"`
	ReminderEnabled      bool       `json:"reminder_enabled"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TaskEdges carries the full-replace dependency sets submitted with a task
// update. A nil slice means the set is not part of the update; an empty one
// clears it. The edge sets commit together with the task row, so a buffered
// update replays them as one unit.
type TaskEdges struct {
	BlockedBy   *[]int64 `json:"blocked_by,omitempty"`
	Blocking    *[]int64 `json:"blocking,omitempty"`
	LinkedTasks *[]int64 `json:"linked_tasks,omitempty"`
}

// DatesValid reports whether the start/due pair respects start <= due.
// A task with either date unset is always valid.
func (t *Task) DatesValid() bool {
	if t == nil || t.StartDate == nil || t.DueDate == nil {
		return true
	}
	return !t.StartDate.After(*t.DueDate)
}
