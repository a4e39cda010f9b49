package services

import (
	"context"
	"encoding/json"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/internal/infrastructure/buffer"
	"github.com/prodhub/backend/usecase"
)

type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

// taskPayload is the wire shape of a buffered task operation: the row plus
// any dependency-set replacements submitted with it.
type taskPayload struct {
	Task  domain.Task      `json:"task"`
	Edges domain.TaskEdges `json:"edges"`
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task, edges domain.TaskEdges) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(taskPayload{Task: *task, Edges: edges})
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    task.UserID,
		TargetID:  task.ID,
		Entity:    buffer.EntityTask,
		Operation: operation,
		Data:      payload,
		Priority:  4,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferNotification(ctx context.Context, operation string, notification *domain.Notification) error {
	if b.processor == nil || notification == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    notification.UserID,
		TargetID:  notification.ID,
		Entity:    buffer.EntityNotification,
		Operation: operation,
		Data:      payload,
		Priority:  2,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
