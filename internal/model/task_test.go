package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want TaskStatus
		ok   bool
	}{
		{"", 0, true},
		{"Pending", StatusPending, true},
		{" pending ", StatusPending, true},
		{"InProgress", StatusInProgress, true},
		{"in_progress", StatusInProgress, true},
		{"In-Progress", StatusInProgress, true},
		{"COMPLETED", StatusCompleted, true},
		{"done", 0, false},
		{"in progress", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTaskStatus(tc.in)
		if !tc.ok {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseTaskPriority(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want TaskPriority
		ok   bool
	}{
		{"", 0, true},
		{"low", PriorityLow, true},
		{"Medium", PriorityMedium, true},
		{" HIGH ", PriorityHigh, true},
		{"urgent", 0, false},
		{"3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTaskPriority(tc.in)
		if !tc.ok {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseSortBy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want SortBy
		ok   bool
	}{
		{"", SortByDueDate, true},
		{"due", SortByDueDate, true},
		{"DueDate", SortByDueDate, true},
		{"due_date", SortByDueDate, true},
		{"Priority", SortByPriority, true},
		{"title", 0, false},
		{"due-date", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseSortBy(tc.in)
		if !tc.ok {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want SortOrder
		ok   bool
	}{
		{"", Ascending, true},
		{"asc", Ascending, true},
		{"Ascending", Ascending, true},
		{"DESC", Descending, true},
		{"descending", Descending, true},
		{"down", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseSortOrder(tc.in)
		if !tc.ok {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}
