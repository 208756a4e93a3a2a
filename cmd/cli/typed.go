package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/and161185/task-keeper/internal/api"
)

// ------- task flags -------

type taskFlags struct {
	title    *string
	desc     *string
	due      *string
	status   *string
	priority *string
}

func bindTaskFlags(fs *flag.FlagSet) *taskFlags {
	return &taskFlags{
		title:    fs.String("title", "", "task title"),
		desc:     fs.String("desc", "", "task description"),
		due:      fs.String("due", "", "due date (YYYY-MM-DD or RFC3339)"),
		status:   fs.String("status", "", "Pending|InProgress|Completed"),
		priority: fs.String("priority", "", "Low|Medium|High"),
	}
}

// input builds the writable task fields. Status and priority are checked by the server.
func (f *taskFlags) input() (api.TaskInput, error) {
	if strings.TrimSpace(*f.title) == "" {
		return api.TaskInput{}, errors.New("need -title")
	}
	due, err := parseDue(*f.due)
	if err != nil {
		return api.TaskInput{}, err
	}
	return api.TaskInput{
		Title:       *f.title,
		Description: *f.desc,
		DueDate:     due,
		Status:      *f.status,
		Priority:    *f.priority,
	}, nil
}

type listFlags struct {
	status   *string
	priority *string
	due      *string
	sortBy   *string
	order    *string
	page     *int
	size     *int
}

func bindListFlags(fs *flag.FlagSet) *listFlags {
	return &listFlags{
		status:   fs.String("status", "", "filter by status"),
		priority: fs.String("priority", "", "filter by priority"),
		due:      fs.String("due", "", "filter by due day (YYYY-MM-DD)"),
		sortBy:   fs.String("sort", "", "due|priority"),
		order:    fs.String("order", "", "asc|desc"),
		page:     fs.Int("page", 0, "page number (1-based)"),
		size:     fs.Int("size", 0, "page size"),
	}
}

func (f *listFlags) request() *api.ListTasksRequest {
	return &api.ListTasksRequest{
		Status:    *f.status,
		Priority:  *f.priority,
		DueDate:   *f.due,
		SortBy:    *f.sortBy,
		SortOrder: *f.order,
		Page:      *f.page,
		PageSize:  *f.size,
	}
}

// parseDue accepts a calendar day (midnight UTC) or an RFC3339 timestamp.
func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return &d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("bad -due %q: want YYYY-MM-DD or RFC3339", s)
	}
	ts = ts.UTC()
	return &ts, nil
}

// ------- password prompt -------

// promptPassword reads a password without echo from a terminal, or one line otherwise.
func promptPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}

// ------- output -------

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printTable(w io.Writer, tasks []api.Task) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDUE\tSTATUS\tPRIORITY")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.UTC().Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, due, t.Status, t.Priority)
	}
	return tw.Flush()
}
