package task

import (
	"context"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/optional"
)

// SetParent resolves the submitted parent against the owner's tasks and
// applies it to t. Absent and null both clear the parent. Depth is
// unbounded and re-parenting onto a descendant is not rejected; the
// worklist delete guards against the resulting loop instead.
func (uc *UseCase) SetParent(ctx context.Context, ownerID int64, t *domain.Task, parent optional.Field[int64]) error {
	parentID, err := uc.resolveParent(ctx, ownerID, t.ID, parent)
	if err != nil {
		return err
	}
	t.ParentID = parentID
	return nil
}

func (uc *UseCase) resolveParent(ctx context.Context, ownerID, selfID int64, f optional.Field[int64]) (*int64, error) {
	if !f.IsSet() || f.IsNull() {
		return nil, nil
	}
	id, ok := f.Value()
	if !ok {
		return nil, domain.ErrInvalidParentID
	}
	if selfID != 0 && id == selfID {
		return nil, domain.ErrInvalidParentID
	}
	if _, err := uc.tasks.GetByID(ctx, ownerID, id); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidParentID
		}
		return nil, err
	}
	return &id, nil
}

// collectSubtree gathers root and every transitive subtask id with a
// breadth-first worklist. The visited set keeps a corrupted parent chain
// (a cycle) from looping forever.
func (uc *UseCase) collectSubtree(ctx context.Context, root int64) ([]int64, error) {
	ids := []int64{root}
	seen := map[int64]struct{}{root: {}}
	queue := []int64{root}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		children, err := uc.tasks.ListChildIDs(ctx, parent)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids, nil
}
