package transport

import (
	"time"

	"github.com/prodhub/backend/domain"
	taskUC "github.com/prodhub/backend/usecase/task"
)

// ErrorResponse is the stable error contract: a string message for
// single-field failures, or a field→message object for profile-style
// updates.
type ErrorResponse struct {
	Error interface{} `json:"error"`
}

func NewError(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

func NewFieldErrors(fields domain.FieldErrors) ErrorResponse {
	return ErrorResponse{Error: fields}
}

// TaskResponse is the canonical external task representation. The required
// fields are always present (project_id/parent_id as explicit nulls when
// unset); the optional ones are omitted entirely when unset and are never
// emitted as null. Callers depend on exactly this asymmetry.
type TaskResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed"`
	Priority    int            `json:"priority"`
	ProjectID   *int64         `json:"project_id"`
	ParentID    *int64         `json:"parent_id"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Subtasks    []TaskResponse `json:"subtasks"`
	DueDate     string         `json:"due_date,omitempty"`
	StartDate   string         `json:"start_date,omitempty"`
	Recurrence  string         `json:"recurrence,omitempty"`
	ReminderTime string        `json:"reminder_time,omitempty"`
	BlockedBy   []int64        `json:"blocked_by,omitempty"`
	Blocking    []int64        `json:"blocking,omitempty"`
	LinkedTasks []int64        `json:"linked_tasks,omitempty"`
}

// NewTaskResponse serializes a single task without relationship state.
func NewTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Completed:    t.Completed,
		Priority:     t.Priority,
		ProjectID:    t.ProjectID,
		ParentID:     t.ParentID,
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
		Subtasks:     make([]TaskResponse, 0),
		DueDate:      formatOptionalTime(t.DueDate),
		StartDate:    formatOptionalTime(t.StartDate),
		Recurrence:   t.Recurrence,
		ReminderTime: formatOptionalTime(t.ReminderTime),
	}
}

// NewTaskDetailResponse serializes a task with its direct subtasks and
// dependency id sets.
func NewTaskDetailResponse(d *taskUC.Detail) TaskResponse {
	resp := NewTaskResponse(d.Task)
	for _, sub := range d.Subtasks {
		resp.Subtasks = append(resp.Subtasks, NewTaskResponse(sub))
	}
	resp.BlockedBy = d.BlockedBy
	resp.Blocking = d.Blocking
	resp.LinkedTasks = d.Linked
	return resp
}

// TaskListResponse is the paginated task envelope.
type TaskListResponse struct {
	Tasks       []TaskResponse `json:"tasks"`
	Total       int64          `json:"total"`
	Pages       int            `json:"pages"`
	CurrentPage int            `json:"current_page"`
	PerPage     int            `json:"per_page"`
}

// ProjectResponse is the canonical external project representation.
type ProjectResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func NewProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

// ProjectMutationResponse wraps a project mutation result.
type ProjectMutationResponse struct {
	Success   bool  `json:"success"`
	ProjectID int64 `json:"project_id"`
	ProjectResponse
}

func NewProjectMutationResponse(p *domain.Project) ProjectMutationResponse {
	return ProjectMutationResponse{
		Success:         true,
		ProjectID:       p.ID,
		ProjectResponse: NewProjectResponse(p),
	}
}

// ProjectListResponse is the paginated project envelope.
type ProjectListResponse struct {
	Projects    []ProjectResponse `json:"projects"`
	Total       int64             `json:"total"`
	Pages       int               `json:"pages"`
	CurrentPage int               `json:"current_page"`
	PerPage     int               `json:"per_page"`
}

// NotificationResponse mirrors the stored notification; show_at and
// snoozed_until appear only when set.
type NotificationResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Read         bool   `json:"read"`
	CreatedAt    string `json:"created_at"`
	TaskID       *int64 `json:"task_id"`
	ShowAt       string `json:"show_at,omitempty"`
	SnoozedUntil string `json:"snoozed_until,omitempty"`
}

func NewNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		Read:         n.Read,
		CreatedAt:    formatTime(n.CreatedAt),
		TaskID:       n.TaskID,
		ShowAt:       formatOptionalTime(n.ShowAt),
		SnoozedUntil: formatOptionalTime(n.SnoozedUntil),
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
