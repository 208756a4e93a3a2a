package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
	"github.com/and161185/task-keeper/internal/repository"
)

// TaskRepo implements TaskRepository on SQLite.
type TaskRepo struct{ s *Store }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(s *Store) *TaskRepo { return &TaskRepo{s: s} }

const taskColumns = `id, user_id, title, description, due_date, status, priority, created_at, updated_at`

// Create inserts a task row.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	const q = `
INSERT INTO tasks (` + taskColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.s.db.ExecContext(ctx, q,
		t.ID, t.UserID, t.Title, t.Description, nullMillis(t.DueDate),
		t.Status.String(), int(t.Priority), toMillis(t.CreatedAt), toMillis(t.UpdatedAt))
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

	where := []string{"user_id = ?"}
	args := []any{pq.OwnerID}
	if pq.Filter.Status != 0 {
		where = append(where, "status = ?")
		args = append(args, pq.Filter.Status.String())
	}
	if pq.Filter.DueOn != nil {
		from, to := repository.DayBounds(*pq.Filter.DueOn)
		where = append(where, "due_date >= ?", "due_date < ?")
		args = append(args, toMillis(from), toMillis(to))
	}
	if pq.Filter.Priority != 0 {
		where = append(where, "priority = ?")
		args = append(args, int(pq.Filter.Priority))
	}
	args = append(args, pq.Limit, pq.Offset)

	q := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + order + ` LIMIT ? OFFSET ?`

	rows, err := r.s.db.QueryContext(ctx, q, args...)
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
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	t, err := scanTask(r.s.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
SET title = ?, description = ?, due_date = ?, status = ?, priority = ?, updated_at = ?
WHERE id = ? AND user_id = ?
RETURNING ` + taskColumns
	t, err := scanTask(r.s.db.QueryRowContext(ctx, q,
		in.Title, in.Description, nullMillis(in.DueDate),
		in.Status.String(), int(in.Priority), toMillis(updatedAt), id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("tasks update", err)
	}
	return t, nil
}

// Delete removes an owned task.
func (r *TaskRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM tasks WHERE id = ? AND user_id = ?`
	res, err := r.s.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, errs.Storage("tasks delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errs.Storage("tasks delete", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		t                model.Task
		due              sql.NullInt64
		status           string
		priority         int
		created, updated int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &due,
		&status, &priority, &created, &updated); err != nil {
		return nil, err
	}
	st, err := model.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}
	t.Status = st
	t.Priority = model.TaskPriority(priority)
	if due.Valid {
		d := fromMillis(due.Int64)
		t.DueDate = &d
	}
	t.CreatedAt = fromMillis(created)
	t.UpdatedAt = fromMillis(updated)
	return &t, nil
}
