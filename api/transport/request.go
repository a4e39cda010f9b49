package transport

import "github.com/prodhub/backend/pkg/optional"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credential returns the username when present, falling back to the email.
func (r LoginRequest) Credential() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

type SnoozeRequest struct {
	Minutes optional.Field[int] `json:"minutes"`
}
