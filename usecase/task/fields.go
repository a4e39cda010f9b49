package task

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/optional"
)

// Patch is the raw task input for both create and update. Each field is
// tri-state (absent, null, value) so partial updates only touch the keys
// the caller actually sent.
type Patch struct {
	Title           optional.Field[string]  `json:"title"`
	Description     optional.Field[string]  `json:"description"`
	Completed       optional.Field[bool]    `json:"completed"`
	Priority        optional.Field[int]     `json:"priority"`
	ProjectID       optional.Field[int64]   `json:"project_id"`
	ParentID        optional.Field[int64]   `json:"parent_id"`
	DueDate         optional.Field[string]  `json:"due_date"`
	StartDate       optional.Field[string]  `json:"start_date"`
	Recurrence      optional.Field[string]  `json:"recurrence"`
	BlockedBy       optional.Field[[]int64] `json:"blocked_by"`
	Blocking        optional.Field[[]int64] `json:"blocking"`
	LinkedTasks     optional.Field[[]int64] `json:"linked_tasks"`
	ReminderTime    optional.Field[string]  `json:"reminder_time"`
	ReminderEnabled optional.Field[bool]    `json:"reminder_enabled"`
}

// dateLayouts are tried in order when parsing caller-supplied timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, domain.InvalidDateFormat(field)
}

func validateTitle(f optional.Field[string], missing *domain.Error) (string, error) {
	title, ok := f.Value()
	if !ok {
		return "", missing
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", missing
	}
	if utf8.RuneCountInString(title) > 255 {
		return "", domain.ErrTitleTooLong
	}
	return title, nil
}

// extractCreateFields validates every creatable field in order and builds
// the new task. It performs read-only lookups only.
func (uc *UseCase) extractCreateFields(ctx context.Context, ownerID int64, p Patch) (*domain.Task, error) {
	title, err := validateTitle(p.Title, domain.ErrTitleRequired)
	if err != nil {
		return nil, err
	}

	description := ""
	if v, ok := p.Description.Value(); ok {
		description = strings.TrimSpace(v)
	}

	projectID, err := uc.resolveProject(ctx, ownerID, p.ProjectID)
	if err != nil {
		return nil, err
	}

	parentID, err := uc.resolveParent(ctx, ownerID, 0, p.ParentID)
	if err != nil {
		return nil, err
	}

	priority := 1
	if p.Priority.IsSet() && !p.Priority.IsNull() {
		v, ok := p.Priority.Value()
		if !ok {
			return nil, domain.ErrInvalidPriority
		}
		priority = v
	}

	dueDate, err := parseDateField(p.DueDate, "due_date")
	if err != nil {
		return nil, err
	}
	startDate, err := parseDateField(p.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	if startDate != nil && dueDate != nil && startDate.After(*dueDate) {
		return nil, domain.ErrStartAfterDue
	}

	recurrence := ""
	if v, ok := p.Recurrence.Value(); ok {
		recurrence = strings.TrimSpace(v)
	}

	reminderTime, err := parseDateField(p.ReminderTime, "reminder_time")
	if err != nil {
		return nil, err
	}
	reminderEnabled := true
	if v, ok := p.ReminderEnabled.Value(); ok {
		reminderEnabled = v
	}

	return &domain.Task{
		UserID:          ownerID,
		Title:           title,
		Description:     description,
		Priority:        priority,
		DueDate:         dueDate,
		StartDate:       startDate,
		Recurrence:      recurrence,
		ProjectID:       projectID,
		ParentID:        parentID,
		ReminderTime:    reminderTime,
		ReminderEnabled: reminderEnabled,
	}, nil
}

// applyUpdateFields applies each present field to t in a fixed order and
// stops at the first failure. The start/due invariant is re-checked against
// the task's final state even when neither date was part of this update.
// On failure t may be partially mutated; callers must discard it.
func (uc *UseCase) applyUpdateFields(ctx context.Context, ownerID int64, t *domain.Task, p Patch) error {
	if p.Title.IsSet() {
		title, err := validateTitle(p.Title, domain.ErrUpdateTitleRequired)
		if err != nil {
			return err
		}
		t.Title = title
	}

	if p.Description.IsSet() && !p.Description.IsNull() {
		if v, ok := p.Description.Value(); ok {
			t.Description = strings.TrimSpace(v)
		}
	}

	// Null coerces to false, the way a missing value would.
	if p.Completed.IsSet() {
		if p.Completed.IsNull() {
			t.Completed = false
		} else if v, ok := p.Completed.Value(); ok {
			t.Completed = v
		}
	}

	if p.Priority.IsSet() {
		v, ok := p.Priority.Value()
		if !ok {
			return domain.ErrInvalidPriority
		}
		t.Priority = v
	}

	if p.ProjectID.IsSet() {
		projectID, err := uc.resolveProject(ctx, ownerID, p.ProjectID)
		if err != nil {
			return err
		}
		t.ProjectID = projectID
	}

	if p.ParentID.IsSet() {
		if err := uc.SetParent(ctx, ownerID, t, p.ParentID); err != nil {
			return err
		}
	}

	if p.DueDate.IsSet() {
		due, err := parseDateField(p.DueDate, "due_date")
		if err != nil {
			return err
		}
		t.DueDate = due
	}

	if p.StartDate.IsSet() {
		start, err := parseDateField(p.StartDate, "start_date")
		if err != nil {
			return err
		}
		t.StartDate = start
	}

	if p.Recurrence.IsSet() {
		t.Recurrence = ""
		if v, ok := p.Recurrence.Value(); ok {
			t.Recurrence = strings.TrimSpace(v)
		}
	}

	if !t.DatesValid() {
		return domain.ErrStartAfterDue
	}
	return nil
}

// applyReminderFields validates the reminder fields. They come last in the
// update order, after the dependency sets have been staged.
func (uc *UseCase) applyReminderFields(t *domain.Task, p Patch) error {
	if p.ReminderTime.IsSet() {
		reminder, err := parseDateField(p.ReminderTime, "reminder_time")
		if err != nil {
			return err
		}
		t.ReminderTime = reminder
	}
	if v, ok := p.ReminderEnabled.Value(); ok {
		t.ReminderEnabled = v
	}
	return nil
}

// parseDateField maps an optional string field to a timestamp. Null and
// empty string both clear the value; anything unparsable names the field.
func parseDateField(f optional.Field[string], field string) (*time.Time, error) {
	if !f.IsSet() || f.IsNull() {
		return nil, nil
	}
	v, ok := f.Value()
	if !ok {
		return nil, domain.InvalidDateFormat(field)
	}
	return parseDate(strings.TrimSpace(v), field)
}

// resolveProject validates a project reference against the owner's
// projects. Null clears the reference. The error does not distinguish
// "missing" from "someone else's project".
func (uc *UseCase) resolveProject(ctx context.Context, ownerID int64, f optional.Field[int64]) (*int64, error) {
	if !f.IsSet() || f.IsNull() {
		return nil, nil
	}
	id, ok := f.Value()
	if !ok {
		return nil, domain.ErrInvalidProjectID
	}
	if _, err := uc.projects.GetByID(ctx, ownerID, id); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidProjectID
		}
		return nil, err
	}
	return &id, nil
}
