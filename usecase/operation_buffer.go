package usecase

import (
	"context"

	"github.com/prodhub/backend/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline buffer so use cases stay
// storage-agnostic. Task creates are never buffered: ids are
// server-assigned serials and cannot be minted while the store is down.
// A buffered task update carries its dependency-set replacements so the
// replay applies the whole patch, not just the row.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task, edges domain.TaskEdges) error
	BufferNotification(ctx context.Context, operation string, notification *domain.Notification) error
}
