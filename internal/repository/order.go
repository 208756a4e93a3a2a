package repository

import (
	"fmt"
	"time"

	"github.com/and161185/task-keeper/internal/model"
)

// sortColumns maps every sort key to the column it orders by.
var sortColumns = map[model.SortBy]string{
	model.SortByDueDate:  "due_date",
	model.SortByPriority: "priority",
}

// OrderBy renders the ORDER BY expression for s. Rows without a value sort
// last in both directions and ties are broken by id, so consecutive pages
// never overlap or skip rows.
func OrderBy(s model.TaskSort) (string, error) {
	col, ok := sortColumns[s.By]
	if !ok {
		return "", fmt.Errorf("unsupported sort key %s", s.By)
	}
	dir := "ASC"
	switch s.Order {
	case model.Ascending:
	case model.Descending:
		dir = "DESC"
	default:
		return "", fmt.Errorf("unsupported sort order %s", s.Order)
	}
	return fmt.Sprintf("%s %s NULLS LAST, id ASC", col, dir), nil
}

// DayBounds returns the half-open UTC range [start, end) of the calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
