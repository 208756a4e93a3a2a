package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
	"github.com/and161185/task-keeper/internal/repository"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, name string) *model.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := &model.User{
		ID:        uuid.Must(uuid.NewV4()),
		Username:  name,
		Email:     name + "@example.com",
		PwdHash:   "$2a$10$digest",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewUserRepo(s).Create(context.Background(), u))
	return u
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "  ", nil)
	require.Error(t, err)
}

func TestUserRepo_RoundTripAndUniqueness(t *testing.T) {
	s := openStore(t)
	r := NewUserRepo(s)
	ctx := context.Background()

	u := seedUser(t, s, "alice")

	ok, err := r.ExistsByUsernameOrEmail(ctx, "alice", "other@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.ExistsByUsernameOrEmail(ctx, "bob", "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.ExistsByUsernameOrEmail(ctx, "bob", "bob@example.com")
	require.NoError(t, err)
	require.False(t, ok)

	byName, err := r.GetByUsernameOrEmail(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, *u, *byName)
	byEmail, err := r.GetByUsernameOrEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = r.GetByUsernameOrEmail(ctx, "nobody")
	require.ErrorIs(t, err, errs.ErrNotFound)

	dup := *u
	dup.ID = uuid.Must(uuid.NewV4())
	dup.Email = "fresh@example.com"
	require.ErrorIs(t, r.Create(ctx, &dup), errs.ErrAlreadyExists)
}

func newTask(owner uuid.UUID, title string, due *time.Time, p model.TaskPriority) *model.Task {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Task{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    owner,
		Title:     title,
		DueDate:   due,
		Status:    model.StatusPending,
		Priority:  p,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskRepo_CRUD(t *testing.T) {
	s := openStore(t)
	r := NewTaskRepo(s)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	due := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	task := newTask(alice.ID, "buy milk", &due, model.PriorityLow)
	require.NoError(t, r.Create(ctx, task))

	got, err := r.FindOne(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, *task, *got)

	_, err = r.FindOne(ctx, bob.ID, task.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	later := task.UpdatedAt.Add(time.Minute)
	upd, err := r.Update(ctx, alice.ID, task.ID, model.TaskInput{
		Title: "buy oat milk", Status: model.StatusCompleted, Priority: model.PriorityHigh,
	}, later)
	require.NoError(t, err)
	require.Equal(t, "buy oat milk", upd.Title)
	require.Nil(t, upd.DueDate)
	require.Equal(t, model.StatusCompleted, upd.Status)
	require.Equal(t, task.CreatedAt, upd.CreatedAt)
	require.Equal(t, later, upd.UpdatedAt)

	_, err = r.Update(ctx, bob.ID, task.ID, model.TaskInput{Title: "x", Status: model.StatusPending, Priority: model.PriorityLow}, later)
	require.ErrorIs(t, err, errs.ErrNotFound)

	ok, err := r.Delete(ctx, bob.ID, task.ID)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = r.Delete(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.Delete(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTaskRepo_Create_UnknownOwner(t *testing.T) {
	s := openStore(t)
	err := NewTaskRepo(s).Create(context.Background(), newTask(uuid.Must(uuid.NewV4()), "orphan", nil, model.PriorityLow))
	require.ErrorIs(t, err, errs.ErrStorage)
}

func TestTaskRepo_FindPage_FilterSortWindow(t *testing.T) {
	s := openStore(t)
	r := NewTaskRepo(s)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	d1 := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 6, 1, 23, 59, 0, 0, time.UTC)
	d3 := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	tasks := []*model.Task{
		newTask(alice.ID, "a", &d3, model.PriorityHigh),
		newTask(alice.ID, "b", nil, model.PriorityLow),
		newTask(alice.ID, "c", &d1, model.PriorityMedium),
		newTask(alice.ID, "d", &d2, model.PriorityHigh),
	}
	for _, tk := range tasks {
		require.NoError(t, r.Create(ctx, tk))
	}
	require.NoError(t, r.Create(ctx, newTask(bob.ID, "bob's", &d1, model.PriorityHigh)))

	titles := func(ts []model.Task) []string {
		out := make([]string, 0, len(ts))
		for _, tk := range ts {
			out = append(out, tk.Title)
		}
		return out
	}

	all, err := r.FindPage(ctx, repository.PageQuery{OwnerID: alice.ID, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d", "a", "b"}, titles(all))

	desc, err := r.FindPage(ctx, repository.PageQuery{OwnerID: alice.ID, Sort: model.TaskSort{Order: model.Descending}, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "d", "c", "b"}, titles(desc))

	day, err := r.FindPage(ctx, repository.PageQuery{OwnerID: alice.ID, Filter: model.TaskFilter{DueOn: &d1}, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d"}, titles(day))

	high, err := r.FindPage(ctx, repository.PageQuery{
		OwnerID: alice.ID,
		Filter:  model.TaskFilter{Priority: model.PriorityHigh, Status: model.StatusPending},
		Limit:   10,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"d", "a"}, titles(high))

	page2, err := r.FindPage(ctx, repository.PageQuery{
		OwnerID: alice.ID,
		Sort:    model.TaskSort{By: model.SortByPriority, Order: model.Descending},
		Offset:  2, Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.Equal(t, []model.TaskPriority{model.PriorityMedium, model.PriorityLow},
		[]model.TaskPriority{page2[0].Priority, page2[1].Priority})

	none, err := r.FindPage(ctx, repository.PageQuery{OwnerID: alice.ID, Offset: 100, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, none)
}
