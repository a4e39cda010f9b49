package repository

import (
	"context"

	"github.com/prodhub/backend/domain"
)

// TaskRepository is the owner-scoped task store. Every read takes the owner
// id alongside the task id; a task belonging to someone else behaves as if
// it did not exist.
type TaskRepository interface {
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error)
	List(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Task, error)
	Count(ctx context.Context, ownerID int64) (int64, error)
	// ListChildIDs returns the ids of the direct subtasks of parentID.
	ListChildIDs(ctx context.Context, parentID int64) ([]int64, error)
	// ListSubtasks returns the direct subtasks of parentID, newest first.
	ListSubtasks(ctx context.Context, parentID int64) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update writes the task row and replaces any submitted dependency
	// sets in one transaction. Either everything commits or nothing does.
	Update(ctx context.Context, task *domain.Task, edges domain.TaskEdges) error
	// DeleteAll removes the given tasks in one transaction. Edge rows and
	// reminder notifications referencing them go with them.
	DeleteAll(ctx context.Context, ownerID int64, ids []int64) error
}
