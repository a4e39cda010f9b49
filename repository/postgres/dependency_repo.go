package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/repository"
)

type dependencyRepository struct {
	pool *pgxpool.Pool
}

// NewDependencyRepository returns a Postgres-backed DependencyRepository over
// the task_dependencies and task_links edge tables.
func NewDependencyRepository(pool *pgxpool.Pool) repository.DependencyRepository {
	return &dependencyRepository{pool: pool}
}

func (r *dependencyRepository) BlockedBy(ctx context.Context, taskID int64) ([]int64, error) {
	return queryEdgeIDs(ctx, r.pool, selectBlockedBy, taskID)
}

func (r *dependencyRepository) Blocking(ctx context.Context, taskID int64) ([]int64, error) {
	return queryEdgeIDs(ctx, r.pool, selectBlocking, taskID)
}

func (r *dependencyRepository) Linked(ctx context.Context, taskID int64) ([]int64, error) {
	return queryEdgeIDs(ctx, r.pool, selectLinked, taskID)
}

const (
	selectBlockedBy = `SELECT blocker_id FROM task_dependencies WHERE blocked_id = $1 ORDER BY blocker_id`
	selectBlocking  = `SELECT blocked_id FROM task_dependencies WHERE blocker_id = $1 ORDER BY blocked_id`
	selectLinked    = `SELECT task_b_id FROM task_links WHERE task_a_id = $1 ORDER BY task_b_id`
)

// replaceEdges applies every submitted edge-set replacement over db, which
// is the transaction the task row update runs in.
func replaceEdges(ctx context.Context, db querier, taskID int64, edges domain.TaskEdges) error {
	if edges.BlockedBy != nil {
		if err := replaceEdgeSet(ctx, db, taskID, *edges.BlockedBy, selectBlockedBy,
			`DELETE FROM task_dependencies WHERE blocked_id = $1 AND blocker_id = ANY($2)`,
			`INSERT INTO task_dependencies (blocker_id, blocked_id) SELECT b, $1 FROM unnest($2::bigint[]) AS b`,
		); err != nil {
			return err
		}
	}
	if edges.Blocking != nil {
		if err := replaceEdgeSet(ctx, db, taskID, *edges.Blocking, selectBlocking,
			`DELETE FROM task_dependencies WHERE blocker_id = $1 AND blocked_id = ANY($2)`,
			`INSERT INTO task_dependencies (blocker_id, blocked_id) SELECT $1, b FROM unnest($2::bigint[]) AS b`,
		); err != nil {
			return err
		}
	}
	if edges.LinkedTasks != nil {
		if err := replaceEdgeSet(ctx, db, taskID, *edges.LinkedTasks, selectLinked,
			`DELETE FROM task_links WHERE task_a_id = $1 AND task_b_id = ANY($2)`,
			`INSERT INTO task_links (task_a_id, task_b_id) SELECT $1, b FROM unnest($2::bigint[]) AS b`,
		); err != nil {
			return err
		}
	}
	return nil
}

// replaceEdgeSet diffs the stored set against want: removed edges are
// deleted, new ones inserted, untouched ones left alone.
func replaceEdgeSet(ctx context.Context, db querier, taskID int64, want []int64, selectQuery, deleteQuery, insertQuery string) error {
	have, err := queryEdgeIDs(ctx, db, selectQuery, taskID)
	if err != nil {
		return err
	}

	toAdd, toRemove := diffIDs(have, want)
	if len(toRemove) > 0 {
		if _, err := db.Exec(ctx, deleteQuery, taskID, toRemove); err != nil {
			return err
		}
	}
	if len(toAdd) > 0 {
		if _, err := db.Exec(ctx, insertQuery, taskID, toAdd); err != nil {
			return err
		}
	}
	return nil
}

func queryEdgeIDs(ctx context.Context, db querier, query string, taskID int64) ([]int64, error) {
	rows, err := db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
