// Package convert maps domain models to and from API wire messages.
package convert

import (
	"strings"
	"time"

	u "github.com/gofrs/uuid/v5"

	"github.com/and161185/task-keeper/internal/api"
	"github.com/and161185/task-keeper/internal/errs"
	model "github.com/and161185/task-keeper/internal/model"
)

// DayLayout is the wire format of a calendar-day filter.
const DayLayout = time.DateOnly

// --- helpers ---

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// ParseID parses a task or user id, reporting malformed input as a validation error.
func ParseID(s string) (u.UUID, error) {
	id, err := u.FromString(strings.TrimSpace(s))
	if err != nil {
		return u.Nil, errs.Validation("invalid id %q", s)
	}
	return id, nil
}

// --- users ---

// ToWireUser converts a user view to its wire form.
func ToWireUser(v model.UserView) api.User {
	return api.User{
		ID:        v.ID.String(),
		Username:  v.Username,
		Email:     v.Email,
		CreatedAt: v.CreatedAt.UTC(),
		UpdatedAt: v.UpdatedAt.UTC(),
	}
}

// --- tasks (server -> client) ---

// ToWireTask converts a domain task to its wire form. The owner is implied by the caller.
func ToWireTask(t model.Task) api.Task {
	return api.Task{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     utcPtr(t.DueDate),
		Status:      t.Status.String(),
		Priority:    t.Priority.String(),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

// ToWireTasks converts a slice of tasks; the result is never nil.
func ToWireTasks(ts []model.Task) []api.Task {
	out := make([]api.Task, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToWireTask(t))
	}
	return out
}

// --- tasks (client -> server) ---

// FromWireTaskInput parses the writable task fields. Enum names are matched case-insensitively.
func FromWireTaskInput(in api.TaskInput) (model.TaskInput, error) {
	st, err := model.ParseTaskStatus(in.Status)
	if err != nil {
		return model.TaskInput{}, errs.Validation("%v", err)
	}
	pr, err := model.ParseTaskPriority(in.Priority)
	if err != nil {
		return model.TaskInput{}, errs.Validation("%v", err)
	}
	return model.TaskInput{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     utcPtr(in.DueDate),
		Status:      st,
		Priority:    pr,
	}, nil
}

// FromWireListRequest parses filter, ordering and paging of a listing.
func FromWireListRequest(in *api.ListTasksRequest) (model.TaskQuery, error) {
	var q model.TaskQuery
	if in == nil {
		return q, nil
	}
	var err error
	if q.Filter.Status, err = model.ParseTaskStatus(in.Status); err != nil {
		return q, errs.Validation("%v", err)
	}
	if q.Filter.Priority, err = model.ParseTaskPriority(in.Priority); err != nil {
		return q, errs.Validation("%v", err)
	}
	if d := strings.TrimSpace(in.DueDate); d != "" {
		day, err := parseDay(d)
		if err != nil {
			return q, err
		}
		q.Filter.DueOn = &day
	}
	if q.Sort.By, err = model.ParseSortBy(in.SortBy); err != nil {
		return q, errs.Validation("%v", err)
	}
	if q.Sort.Order, err = model.ParseSortOrder(in.SortOrder); err != nil {
		return q, errs.Validation("%v", err)
	}
	q.Page = in.Page
	q.PageSize = in.PageSize
	return q, nil
}

// parseDay accepts a bare date or a full RFC 3339 timestamp; only the UTC day is kept.
func parseDay(s string) (time.Time, error) {
	if d, err := time.Parse(DayLayout, s); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, errs.Validation("invalid due date %q, want %s", s, DayLayout)
}
