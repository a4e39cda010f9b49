// Package task implements the task domain: field validation, the
// parent/subtask hierarchy, and the blocking/linked dependency graph.
package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/pagination"
	"github.com/prodhub/backend/repository"
	"github.com/prodhub/backend/usecase"
)

type UseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	deps     repository.DependencyRepository
	buffer   usecase.OperationBuffer
	logger   *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	deps repository.DependencyRepository,
	buffer usecase.OperationBuffer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		projects: projects,
		deps:     deps,
		buffer:   buffer,
		logger:   logger,
	}
}

// Detail is a task together with the relationship state its serialization
// needs: direct subtasks and the dependency id sets.
type Detail struct {
	Task      domain.Task
	Subtasks  []domain.Task
	BlockedBy []int64
	Blocking  []int64
	Linked    []int64
}

// ListTasks returns one page of the owner's tasks, newest first, each with
// its direct subtasks.
func (uc *UseCase) ListTasks(ctx context.Context, ownerID int64, params pagination.Params) (pagination.Page[Detail], error) {
	params = params.Normalize()

	total, err := uc.tasks.Count(ctx, ownerID)
	if err != nil {
		return pagination.Page[Detail]{}, err
	}

	tasks, err := uc.tasks.List(ctx, ownerID, params.PerPage, params.Offset())
	if err != nil {
		return pagination.Page[Detail]{}, err
	}

	details := make([]Detail, 0, len(tasks))
	for _, t := range tasks {
		subtasks, err := uc.tasks.ListSubtasks(ctx, t.ID)
		if err != nil {
			return pagination.Page[Detail]{}, err
		}
		details = append(details, Detail{Task: t, Subtasks: subtasks})
	}

	return pagination.NewPage(details, total, params), nil
}

// GetTask returns one task with subtasks and dependency sets.
func (uc *UseCase) GetTask(ctx context.Context, ownerID, id int64) (*Detail, error) {
	t, err := uc.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	subtasks, err := uc.tasks.ListSubtasks(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Task: *t, Subtasks: subtasks}
	if detail.BlockedBy, err = uc.deps.BlockedBy(ctx, t.ID); err != nil {
		return nil, err
	}
	if detail.Blocking, err = uc.deps.Blocking(ctx, t.ID); err != nil {
		return nil, err
	}
	if detail.Linked, err = uc.deps.Linked(ctx, t.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateTask validates the patch with the create rules and persists the task.
// Validation performs read-only lookups only; nothing is written on failure.
func (uc *UseCase) CreateTask(ctx context.Context, ownerID int64, patch Patch) (*domain.Task, error) {
	t, err := uc.extractCreateFields(ctx, ownerID, patch)
	if err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, t)
	if err != nil {
		uc.logger.Error("task create failed", zap.Int64("user_id", ownerID), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// UpdateTask applies the patch to the stored task (partial-update
// semantics), persists it, and replaces any submitted dependency sets.
// The first failing field aborts the whole update; nothing is committed.
func (uc *UseCase) UpdateTask(ctx context.Context, ownerID, id int64, patch Patch) (*Detail, error) {
	t, err := uc.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := uc.applyUpdateFields(ctx, ownerID, t, patch); err != nil {
		return nil, err
	}

	edges, err := uc.stageDependencies(ctx, ownerID, t, patch)
	if err != nil {
		return nil, err
	}

	if err := uc.applyReminderFields(t, patch); err != nil {
		return nil, err
	}

	if err := uc.tasks.Update(ctx, t, edges); err != nil {
		if err == domain.ErrTaskNotFound {
			return nil, err
		}
		if !uc.shouldBuffer(ctx, usecase.OperationUpdate, t, edges) {
			return nil, err
		}
		// The primary store is down, so relationship reads are off the
		// table. Report the accepted state from the patch itself.
		return bufferedDetail(t, edges), nil
	}

	return uc.GetTask(ctx, ownerID, id)
}

// bufferedDetail builds the response for an update that was accepted into
// the offline buffer. Stored subtasks and any edge sets the patch did not
// touch are unknown while the store is down.
func bufferedDetail(t *domain.Task, edges domain.TaskEdges) *Detail {
	d := &Detail{Task: *t, Subtasks: []domain.Task{}}
	if edges.BlockedBy != nil {
		d.BlockedBy = *edges.BlockedBy
	}
	if edges.Blocking != nil {
		d.Blocking = *edges.Blocking
	}
	if edges.LinkedTasks != nil {
		d.Linked = *edges.LinkedTasks
	}
	return d
}

// DeleteTask removes the task and its whole subtask subtree. The subtree is
// collected with an explicit worklist so the cascade contract holds
// regardless of the storage engine's own foreign-key rules.
func (uc *UseCase) DeleteTask(ctx context.Context, ownerID, id int64) error {
	t, err := uc.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	ids, err := uc.collectSubtree(ctx, t.ID)
	if err != nil {
		return err
	}

	if err := uc.tasks.DeleteAll(ctx, ownerID, ids); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, t, domain.TaskEdges{}) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, t *domain.Task, edges domain.TaskEdges) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, t, edges); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Int64("task_id", t.ID))
	return true
}
