// Package profile exposes account reads and the multi-field profile update.
// Unlike the task pipeline, profile validation aggregates every failing
// field into one response.
package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/optional"
	"github.com/prodhub/backend/repository"
	"github.com/prodhub/backend/usecase/auth"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// Patch carries the optional profile fields.
type Patch struct {
	Username optional.Field[string] `json:"username"`
	Email    optional.Field[string] `json:"email"`
	Password optional.Field[string] `json:"password"`
}

func (uc *UseCase) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateProfile applies the present fields, collecting every failing field
// into a FieldErrors value instead of stopping at the first one.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID int64, patch Patch) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fieldErrs := domain.FieldErrors{}

	if patch.Username.IsSet() {
		username, ok := patch.Username.Value()
		username = strings.TrimSpace(username)
		if !ok || username == "" {
			fieldErrs["username"] = "Username cannot be empty"
		} else {
			user.Username = username
		}
	}

	if patch.Email.IsSet() {
		email, ok := patch.Email.Value()
		email = strings.TrimSpace(email)
		if !ok || email == "" || !strings.Contains(email, "@") {
			fieldErrs["email"] = "Invalid email"
		} else {
			user.Email = email
		}
	}

	if patch.Password.IsSet() {
		password, ok := patch.Password.Value()
		if !ok || !auth.IsStrongPassword(password) {
			fieldErrs["password"] = "Password must be at least 8 characters long and include uppercase, lowercase, numbers, and special characters."
		} else {
			hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if hashErr != nil {
				return nil, hashErr
			}
			user.PasswordHash = string(hash)
		}
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	if err := uc.users.Update(ctx, user); err != nil {
		uc.logger.Error("profile update failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}
