package repository

import "context"

// DependencyRepository reads the task-to-task edge sets: blocking
// dependencies (task_dependencies) and non-semantic links (task_links).
// Writes go through TaskRepository.Update so the edge replacements commit
// in the same transaction as the task row.
type DependencyRepository interface {
	// BlockedBy returns the ids of tasks that must complete before taskID.
	BlockedBy(ctx context.Context, taskID int64) ([]int64, error)
	// Blocking returns the ids of tasks that taskID must complete before.
	Blocking(ctx context.Context, taskID int64) ([]int64, error)
	Linked(ctx context.Context, taskID int64) ([]int64, error)
}
