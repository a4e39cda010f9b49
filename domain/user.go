package domain

import "time"

// User represents an account. Every task, project, and notification belongs
// to exactly one user; all cross-reference lookups are scoped by UserID.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
