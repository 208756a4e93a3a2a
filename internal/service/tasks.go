package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
	"github.com/and161185/task-keeper/internal/repository"
)

// Listing and field limits.
const (
	DefaultPage        = 1
	DefaultPageSize    = 10
	DefaultMaxPageSize = 100
	MaxTitleLen        = 200
	MaxDescriptionLen  = 4000
)

// TaskService defines the per-user task lifecycle. Every operation is scoped
// to ownerID; tasks of other users behave as if they did not exist.
type TaskService interface {
	// Create validates the input and stores a new task.
	Create(ctx context.Context, ownerID uuid.UUID, in model.TaskInput) (*model.Task, error)
	// List returns one page of the owner's tasks.
	List(ctx context.Context, ownerID uuid.UUID, q model.TaskQuery) ([]model.Task, error)
	// Get returns a single task.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
	// Update replaces the mutable fields of a task.
	Update(ctx context.Context, ownerID, id uuid.UUID, in model.TaskInput) (*model.Task, error)
	// Delete removes a task and reports whether anything was removed.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}

type TaskServiceImpl struct {
	repo        repository.TaskRepository
	maxPageSize int
	now         func() time.Time
}

// NewTaskService constructs TaskService. A non-positive maxPageSize selects the default.
func NewTaskService(repo repository.TaskRepository, maxPageSize int) *TaskServiceImpl {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &TaskServiceImpl{repo: repo, maxPageSize: maxPageSize, now: time.Now}
}

// Create assigns id and timestamps and applies the Pending/Medium defaults.
func (s *TaskServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, in model.TaskInput) (*model.Task, error) {
	if ownerID == uuid.Nil {
		return nil, errs.Validation("empty owner")
	}
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := s.stamp()
	t := &model.Task{
		ID:          id,
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List validates the query window and translates the 1-based page into offset/limit.
func (s *TaskServiceImpl) List(ctx context.Context, ownerID uuid.UUID, q model.TaskQuery) ([]model.Task, error) {
	if ownerID == uuid.Nil {
		return nil, errs.Validation("empty owner")
	}
	pq, err := s.pageQuery(ownerID, q)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPage(ctx, pq)
}

// Get fetches one owned task.
func (s *TaskServiceImpl) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, errs.Validation("empty owner/id")
	}
	return s.repo.FindOne(ctx, ownerID, id)
}

// Update is a full replacement: omitted optional fields are cleared and zero
// enums fall back to the Create defaults.
func (s *TaskServiceImpl) Update(ctx context.Context, ownerID, id uuid.UUID, in model.TaskInput) (*model.Task, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, errs.Validation("empty owner/id")
	}
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, ownerID, id, in, s.stamp())
}

// Delete removes one owned task.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return false, errs.Validation("empty owner/id")
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *TaskServiceImpl) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *TaskServiceImpl) pageQuery(ownerID uuid.UUID, q model.TaskQuery) (repository.PageQuery, error) {
	page, size := q.Page, q.PageSize
	if page == 0 {
		page = DefaultPage
	}
	if size == 0 {
		size = DefaultPageSize
	}
	switch {
	case page < 1:
		return repository.PageQuery{}, errs.Validation("page must be >= 1, got %d", page)
	case size < 1:
		return repository.PageQuery{}, errs.Validation("page size must be >= 1, got %d", size)
	case size > s.maxPageSize:
		return repository.PageQuery{}, errs.Validation("page size must be <= %d, got %d", s.maxPageSize, size)
	}
	if q.Filter.Status != 0 && !q.Filter.Status.Valid() {
		return repository.PageQuery{}, errs.Validation("unknown status %d", int(q.Filter.Status))
	}
	if q.Filter.Priority != 0 && !q.Filter.Priority.Valid() {
		return repository.PageQuery{}, errs.Validation("unknown priority %d", int(q.Filter.Priority))
	}
	switch q.Sort.By {
	case model.SortByDueDate, model.SortByPriority:
	default:
		return repository.PageQuery{}, errs.Validation("unknown sort key %d", int(q.Sort.By))
	}
	switch q.Sort.Order {
	case model.Ascending, model.Descending:
	default:
		return repository.PageQuery{}, errs.Validation("unknown sort order %d", int(q.Sort.Order))
	}
	// Offsets past the last row simply yield an empty page.
	return repository.PageQuery{
		OwnerID: ownerID,
		Filter:  q.Filter,
		Sort:    q.Sort,
		Offset:  (page - 1) * size,
		Limit:   size,
	}, nil
}

func normalizeInput(in model.TaskInput) (model.TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return in, errs.Validation("title is required")
	case utf8.RuneCountInString(in.Title) > MaxTitleLen:
		return in, errs.Validation("title exceeds %d characters", MaxTitleLen)
	case utf8.RuneCountInString(in.Description) > MaxDescriptionLen:
		return in, errs.Validation("description exceeds %d characters", MaxDescriptionLen)
	}
	if in.Status == 0 {
		in.Status = model.StatusPending
	} else if !in.Status.Valid() {
		return in, errs.Validation("unknown status %d", int(in.Status))
	}
	if in.Priority == 0 {
		in.Priority = model.PriorityMedium
	} else if !in.Priority.Valid() {
		return in, errs.Validation("unknown priority %d", int(in.Priority))
	}
	if in.DueDate != nil {
		d := in.DueDate.UTC().Truncate(time.Millisecond)
		in.DueDate = &d
	}
	return in, nil
}
