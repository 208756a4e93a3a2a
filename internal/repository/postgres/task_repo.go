package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
	"github.com/and161185/task-keeper/internal/repository"
)

// TaskRepo implements TaskRepository using PostgreSQL.
type TaskRepo struct{ db *DB }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(db *DB) *TaskRepo { return &TaskRepo{db: db} }

const taskColumns = `id, user_id, title, description, due_date, status, priority, created_at, updated_at`

// Create inserts a task row.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	const q = `
INSERT INTO tasks (` + taskColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Pool.Exec(ctx, q,
		t.ID, t.UserID, t.Title, t.Description, t.DueDate,
		t.Status.String(), int(t.Priority), t.CreatedAt, t.UpdatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return errs.Storage("tasks insert", err)
}

// FindPage returns one ordered page of the owner's tasks matching the filter.
func (r *TaskRepo) FindPage(ctx context.Context, pq repository.PageQuery) ([]model.Task, error) {
	order, err := repository.OrderBy(pq.Sort)
	if err != nil {
		return nil, errs.Validation("%v", err)
	}

	args := []any{pq.OwnerID}
	where := []string{"user_id = $1"}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if pq.Filter.Status != 0 {
		where = append(where, "status = "+arg(pq.Filter.Status.String()))
	}
	if pq.Filter.DueOn != nil {
		from, to := repository.DayBounds(*pq.Filter.DueOn)
		where = append(where, "due_date >= "+arg(from), "due_date < "+arg(to))
	}
	if pq.Filter.Priority != 0 {
		where = append(where, "priority = "+arg(int(pq.Filter.Priority)))
	}

	q := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + order + ` LIMIT ` + arg(pq.Limit) + ` OFFSET ` + arg(pq.Offset)

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, errs.Storage("tasks page", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0, pq.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errs.Storage("tasks page scan", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("tasks page", err)
	}
	return out, nil
}

// FindOne returns a single owned task by id.
func (r *TaskRepo) FindOne(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1 AND user_id=$2`
	t, err := scanTask(r.db.Pool.QueryRow(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("tasks select", err)
	}
	return t, nil
}

// Update overwrites the mutable columns of an owned task in one statement.
func (r *TaskRepo) Update(ctx context.Context, ownerID, id uuid.UUID, in model.TaskInput, updatedAt time.Time) (*model.Task, error) {
	const q = `
UPDATE tasks
SET title=$3, description=$4, due_date=$5, status=$6, priority=$7, updated_at=$8
WHERE id=$1 AND user_id=$2
RETURNING ` + taskColumns
	t, err := scanTask(r.db.Pool.QueryRow(ctx, q,
		id, ownerID, in.Title, in.Description, in.DueDate,
		in.Status.String(), int(in.Priority), updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("tasks update", err)
	}
	return t, nil
}

// Delete removes an owned task.
func (r *TaskRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM tasks WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, ownerID)
	if err != nil {
		return false, errs.Storage("tasks delete", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTask(row pgx.Row) (*model.Task, error) {
	var (
		t        model.Task
		status   string
		priority int
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&status, &priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := model.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}
	t.Status = st
	t.Priority = model.TaskPriority(priority)
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		t.DueDate = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
