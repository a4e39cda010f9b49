package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Notification, error) {
	const query = `
	SELECT id, user_id, task_id, title, message, type, read, snoozed_until, show_at, created_at
	FROM notification
	WHERE id = $1 AND user_id = $2
	`
	return scanNotification(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *notificationRepository) ListByUser(ctx context.Context, ownerID int64) ([]domain.Notification, error) {
	const query = `
	SELECT id, user_id, task_id, title, message, type, read, snoozed_until, show_at, created_at
	FROM notification
	WHERE user_id = $1
	ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if notification == nil {
		return nil, domain.ErrInvalidPayload
	}
	if notification.Type == "" {
		notification.Type = domain.NotificationTypeReminder
	}

	const query = `
	INSERT INTO notification (user_id, task_id, title, message, type, read, snoozed_until, show_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		notification.UserID,
		notification.TaskID,
		nullString(notification.Title),
		notification.Message,
		notification.Type,
		notification.Read,
		notification.SnoozedUntil,
		notification.ShowAt,
	).Scan(&notification.ID, &notification.CreatedAt); err != nil {
		return nil, err
	}

	return notification, nil
}

func (r *notificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	if notification == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE notification
	SET read = $3,
		snoozed_until = $4,
		show_at = $5
	WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Read,
		notification.SnoozedUntil,
		notification.ShowAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	var title *string

	if err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.TaskID,
		&title,
		&n.Message,
		&n.Type,
		&n.Read,
		&n.SnoozedUntil,
		&n.ShowAt,
		&n.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}

	if title != nil {
		n.Title = *title
	}
	return &n, nil
}
