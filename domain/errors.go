package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid is shorthand for a 400-class validation failure. The message is
// surfaced to the caller verbatim, so it must identify the offending field.
func Invalid(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}

// Common domain errors. The "Invalid X ID" family deliberately does not
// distinguish "does not exist" from "belongs to someone else".
var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, "User not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "Task not found")
	ErrProjectNotFound      = NewError(ErrCodeNotFound, "Project not found")
	ErrNotificationNotFound = NewError(ErrCodeNotFound, "Notification not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "Session not found")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "Authentication required")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")

	ErrTitleRequired        = Invalid("Title is required.")
	ErrTitleTooLong         = Invalid("Title must be 255 characters or less.")
	ErrUpdateTitleRequired  = Invalid("Task title is required")
	ErrInvalidPriority      = Invalid("Invalid priority value.")
	ErrInvalidProjectID     = Invalid("Invalid project ID")
	ErrInvalidParentID      = Invalid("Invalid parent task ID")
	ErrStartAfterDue        = Invalid("start_date cannot be after due_date")
	ErrProjectNameRequired  = Invalid("Project name is required")
	ErrTaskSelfBlock        = Invalid("Task cannot block itself")
	ErrTaskSelfLink         = Invalid("Task cannot be linked to itself")
	ErrInvalidBlockedByID   = Invalid("Invalid blocked_by task ID")
	ErrInvalidBlockingID    = Invalid("Invalid blocking task ID")
	ErrInvalidLinkedTaskID  = Invalid("Invalid linked task ID")
	ErrBlockedByNotList     = Invalid("blocked_by must be a list of task IDs")
	ErrBlockingNotList      = Invalid("blocking must be a list of task IDs")
	ErrLinkedTasksNotList   = Invalid("linked_tasks must be a list of task IDs")
)

// InvalidDateFormat names the field that failed to parse.
func InvalidDateFormat(field string) *Error {
	return Invalid(fmt.Sprintf("Invalid %s format", field))
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// FieldErrors aggregates per-field messages for profile-style updates,
// serialized as {"error": {"field": "message"}}.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return fmt.Sprintf("%d field(s) failed validation", len(f))
}
