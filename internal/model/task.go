package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// TaskStatus is the lifecycle state of a task. The zero value means "unspecified".
type TaskStatus int

const (
	StatusPending TaskStatus = iota + 1
	StatusInProgress
	StatusCompleted
)

var statusNames = map[TaskStatus]string{
	StatusPending:    "Pending",
	StatusInProgress: "InProgress",
	StatusCompleted:  "Completed",
}

func (s TaskStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("TaskStatus(%d)", int(s))
}

// Valid reports whether s is one of the defined statuses.
func (s TaskStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseTaskStatus parses a status name case-insensitively. Empty input yields the zero value.
func ParseTaskStatus(s string) (TaskStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	norm := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(s), "_", ""), "-", "")
	for st, name := range statusNames {
		if strings.ToLower(name) == norm {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// TaskPriority orders tasks by importance. Numeric order is significant: Low < Medium < High.
// The zero value means "unspecified".
type TaskPriority int

const (
	PriorityLow TaskPriority = iota + 1
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[TaskPriority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

func (p TaskPriority) String() string {
	if n, ok := priorityNames[p]; ok {
		return n
	}
	return fmt.Sprintf("TaskPriority(%d)", int(p))
}

// Valid reports whether p is one of the defined priorities.
func (p TaskPriority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// ParseTaskPriority parses a priority name case-insensitively. Empty input yields the zero value.
func ParseTaskPriority(s string) (TaskPriority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for p, name := range priorityNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// Task is a single work item owned by exactly one user.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID // owner, immutable
	Title       string
	Description string     // empty means none
	DueDate     *time.Time // optional
	Status      TaskStatus
	Priority    TaskPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskInput carries the caller-controlled fields of a task for create and update.
// Zero Status/Priority fall back to Pending/Medium.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      TaskStatus
	Priority    TaskPriority
}

// TaskFilter narrows a listing. Every field is optional; set fields are ANDed.
type TaskFilter struct {
	Status   TaskStatus
	DueOn    *time.Time // calendar day (UTC); time of day is ignored
	Priority TaskPriority
}

// SortBy selects the primary sort key of a listing.
type SortBy int

const (
	SortByDueDate SortBy = iota
	SortByPriority
)

func (s SortBy) String() string {
	switch s {
	case SortByDueDate:
		return "DueDate"
	case SortByPriority:
		return "Priority"
	default:
		return fmt.Sprintf("SortBy(%d)", int(s))
	}
}

// ParseSortBy accepts "DueDate"/"due_date"/"due" and "Priority" case-insensitively. Empty means DueDate.
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "") {
	case "", "due", "duedate":
		return SortByDueDate, nil
	case "priority":
		return SortByPriority, nil
	default:
		return 0, fmt.Errorf("unknown sort key %q", s)
	}
}

// SortOrder is the direction of the primary sort key.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "Ascending"
	case Descending:
		return "Descending"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(o))
	}
}

// ParseSortOrder accepts "Ascending"/"asc" and "Descending"/"desc" case-insensitively. Empty means Ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return 0, fmt.Errorf("unknown sort order %q", s)
	}
}

// TaskSort is the requested ordering of a listing.
type TaskSort struct {
	By    SortBy
	Order SortOrder
}

// TaskQuery is a listing request: filter, ordering and a 1-based page window.
// Zero Page/PageSize fall back to 1/10.
type TaskQuery struct {
	Filter   TaskFilter
	Sort     TaskSort
	Page     int
	PageSize int
}
