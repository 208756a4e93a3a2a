package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/task-keeper/internal/model"
)

// PageQuery is an owner-scoped listing window over tasks.
type PageQuery struct {
	OwnerID uuid.UUID
	Filter  model.TaskFilter
	Sort    model.TaskSort
	Offset  int
	Limit   int
}

// TaskRepository persists tasks. Every method is scoped by owner: a task owned
// by somebody else behaves exactly like a missing one.
type TaskRepository interface {
	// Create inserts a new task.
	Create(ctx context.Context, t *model.Task) error
	// FindPage returns one page of the owner's tasks matching the filter in the requested order.
	FindPage(ctx context.Context, q PageQuery) ([]model.Task, error)
	// FindOne returns the owner's task by id or errs.ErrNotFound.
	FindOne(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
	// Update overwrites the mutable fields of the owner's task and returns the stored row, or errs.ErrNotFound.
	Update(ctx context.Context, ownerID, id uuid.UUID, in model.TaskInput, updatedAt time.Time) (*model.Task, error)
	// Delete removes the owner's task; false means nothing matched.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}
