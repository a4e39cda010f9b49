package repository

import (
	"context"

	"github.com/prodhub/backend/domain"
)

type NotificationRepository interface {
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Notification, error)
	ListByUser(ctx context.Context, ownerID int64) ([]domain.Notification, error)
	Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	Update(ctx context.Context, notification *domain.Notification) error
}
