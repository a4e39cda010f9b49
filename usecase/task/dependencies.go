package task

import (
	"context"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/optional"
)

// stageDependencies validates the dependency fields of the patch in order:
// blocked_by, blocking, linked_tasks. Only direct self-reference is
// rejected; multi-hop cycles are not detected (known gap, kept as-is).
// The returned edge sets commit together with the task row.
func (uc *UseCase) stageDependencies(ctx context.Context, ownerID int64, t *domain.Task, p Patch) (domain.TaskEdges, error) {
	var edges domain.TaskEdges
	var err error

	edges.BlockedBy, err = uc.resolveEdgeSet(ctx, ownerID, t.ID, p.BlockedBy,
		domain.ErrBlockedByNotList, domain.ErrInvalidBlockedByID, domain.ErrTaskSelfBlock)
	if err != nil {
		return domain.TaskEdges{}, err
	}

	edges.Blocking, err = uc.resolveEdgeSet(ctx, ownerID, t.ID, p.Blocking,
		domain.ErrBlockingNotList, domain.ErrInvalidBlockingID, domain.ErrTaskSelfBlock)
	if err != nil {
		return domain.TaskEdges{}, err
	}

	edges.LinkedTasks, err = uc.resolveEdgeSet(ctx, ownerID, t.ID, p.LinkedTasks,
		domain.ErrLinkedTasksNotList, domain.ErrInvalidLinkedTaskID, domain.ErrTaskSelfLink)
	if err != nil {
		return domain.TaskEdges{}, err
	}

	return edges, nil
}

// resolveEdgeSet validates one dependency id list. Every id must resolve to
// a task of the same owner and must not equal the task's own id.
func (uc *UseCase) resolveEdgeSet(
	ctx context.Context,
	ownerID, selfID int64,
	f optional.Field[[]int64],
	errNotList, errNotFound, errSelf *domain.Error,
) (*[]int64, error) {
	if !f.IsSet() {
		return nil, nil
	}
	if f.IsNull() {
		empty := []int64{}
		return &empty, nil
	}
	if f.Err() != nil {
		return nil, errNotList
	}

	ids, _ := f.Value()
	for _, id := range ids {
		if id == selfID {
			return nil, errSelf
		}
		if _, err := uc.tasks.GetByID(ctx, ownerID, id); err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil, errNotFound
			}
			return nil, err
		}
	}
	return &ids, nil
}
