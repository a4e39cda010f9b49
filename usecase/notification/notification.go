// Package notification stores and surfaces in-app notifications. Delivery
// and scheduling are out of scope; this only manages the stored rows.
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/optional"
	"github.com/prodhub/backend/repository"
	"github.com/prodhub/backend/usecase"
)

type UseCase struct {
	notifications repository.NotificationRepository
	buffer        usecase.OperationBuffer
	logger        *zap.Logger
}

func New(notifications repository.NotificationRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		notifications: notifications,
		buffer:        buffer,
		logger:        logger,
	}
}

func (uc *UseCase) ListNotifications(ctx context.Context, ownerID int64) ([]domain.Notification, error) {
	return uc.notifications.ListByUser(ctx, ownerID)
}

// CreateNotification persists a notification, falling back to the offline
// buffer when primary storage is unavailable.
func (uc *UseCase) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	created, err := uc.notifications.Create(ctx, n)
	if err != nil {
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferNotification(ctx, usecase.OperationCreate, n); bufErr == nil {
				uc.logger.Warn("notification create buffered", zap.Int64("user_id", n.UserID))
				return n, nil
			}
		}
		return nil, err
	}
	return created, nil
}

// Dismiss marks the notification as read.
func (uc *UseCase) Dismiss(ctx context.Context, ownerID, id int64) error {
	n, err := uc.notifications.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	n.Read = true
	return uc.notifications.Update(ctx, n)
}

// Snooze hides the notification for the given number of minutes.
func (uc *UseCase) Snooze(ctx context.Context, ownerID, id int64, minutes optional.Field[int]) (*time.Time, error) {
	n, err := uc.notifications.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	m, err := validateSnoozeMinutes(minutes)
	if err != nil {
		return nil, err
	}

	until := time.Now().UTC().Add(time.Duration(m) * time.Minute)
	n.SnoozedUntil = &until
	if err := uc.notifications.Update(ctx, n); err != nil {
		return nil, err
	}
	return &until, nil
}

func validateSnoozeMinutes(f optional.Field[int]) (int, error) {
	if !f.IsSet() || f.IsNull() {
		return 0, domain.Invalid("Minutes parameter is required")
	}
	minutes, ok := f.Value()
	if !ok {
		return 0, domain.Invalid("Invalid minutes value")
	}
	if minutes <= 0 {
		return 0, domain.Invalid("Minutes must be positive")
	}
	return minutes, nil
}
