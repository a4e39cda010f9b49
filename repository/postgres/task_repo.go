package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/repository"
)

const taskColumns = `id, user_id, title, description, priority, completed,
	due_date, start_date, recurrence, project_id, parent_id,
	reminder_time, reminder_recurring, reminder_snoozed_until, reminder_enabled,
	created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, ownerID)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM task
	WHERE user_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) Count(ctx context.Context, ownerID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM task WHERE user_id = $1`, ownerID).Scan(&total)
	return total, err
}

func (r *taskRepository) ListChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM task WHERE parent_id = $1`, parentID)
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

func (r *taskRepository) ListSubtasks(ctx context.Context, parentID int64) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM task
	WHERE parent_id = $1
	ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO task (user_id, title, description, priority, completed,
		due_date, start_date, recurrence, project_id, parent_id,
		reminder_time, reminder_recurring, reminder_snoozed_until, reminder_enabled)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		task.Priority,
		task.Completed,
		task.DueDate,
		task.StartDate,
		nullString(task.Recurrence),
		task.ProjectID,
		task.ParentID,
		task.ReminderTime,
		nullString(task.ReminderRecurring),
		task.ReminderSnoozedUntil,
		task.ReminderEnabled,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

// Update writes the task row and replaces any submitted dependency sets in
// one transaction, so a failure partway through commits nothing.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task, edges domain.TaskEdges) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
	UPDATE task
	SET title = $3,
		description = $4,
		priority = $5,
		completed = $6,
		due_date = $7,
		start_date = $8,
		recurrence = $9,
		project_id = $10,
		parent_id = $11,
		reminder_time = $12,
		reminder_recurring = $13,
		reminder_snoozed_until = $14,
		reminder_enabled = $15,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := tx.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Priority,
		task.Completed,
		task.DueDate,
		task.StartDate,
		nullString(task.Recurrence),
		task.ProjectID,
		task.ParentID,
		task.ReminderTime,
		nullString(task.ReminderRecurring),
		task.ReminderSnoozedUntil,
		task.ReminderEnabled,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	if err := replaceEdges(ctx, tx, task.ID, edges); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *taskRepository) DeleteAll(ctx context.Context, ownerID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Edge rows and reminder notifications go via ON DELETE CASCADE.
	tag, err := tx.Exec(ctx, `DELETE FROM task WHERE user_id = $1 AND id = ANY($2)`, ownerID, ids)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return tx.Commit(ctx)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var recurrence, reminderRecurring *string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Completed,
		&task.DueDate,
		&task.StartDate,
		&recurrence,
		&task.ProjectID,
		&task.ParentID,
		&task.ReminderTime,
		&reminderRecurring,
		&task.ReminderSnoozedUntil,
		&task.ReminderEnabled,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if recurrence != nil {
		task.Recurrence = *recurrence
	}
	if reminderRecurring != nil {
		task.ReminderRecurring = *reminderRecurring
	}

	return &task, nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
