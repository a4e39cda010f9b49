package domain

import "time"

// Notification types reused across the service. The backend only stores
// notifications; scheduling and delivery live elsewhere.
const (
	NotificationTypeReminder = "reminder"
	NotificationTypeSystem   = "system"
)

type Notification struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	TaskID       *int64     `json:"task_id,omitempty"`
	Title        string     `json:"title,omitempty"`
	Message      string     `json:"message"`
	Type         string     `json:"type"`
	Read         bool       `json:"read"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	ShowAt       *time.Time `json:"show_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
