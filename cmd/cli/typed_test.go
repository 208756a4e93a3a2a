package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/and161185/task-keeper/internal/api"
)

func Test_parseDue(t *testing.T) {
	t.Parallel()

	if d, err := parseDue(" "); err != nil || d != nil {
		t.Fatalf("empty: %v %v", d, err)
	}
	d, err := parseDue("2026-05-10")
	if err != nil || !d.Equal(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date: %v %v", d, err)
	}
	d, err = parseDue("2026-05-10T12:00:00+03:00")
	if err != nil || !d.Equal(time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)) || d.Location() != time.UTC {
		t.Fatalf("rfc3339: %v %v", d, err)
	}
	if _, err := parseDue("10/05/2026"); err == nil {
		t.Fatalf("want error for unknown layout")
	}
}

func Test_taskFlags_Input(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	tf := bindTaskFlags(fs)
	if err := fs.Parse([]string{"-title", "report", "-desc", "q3", "-due", "2026-01-02", "-status", "InProgress", "-priority", "High"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	in, err := tf.input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.Title != "report" || in.Description != "q3" || in.Status != "InProgress" || in.Priority != "High" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.DueDate == nil || in.DueDate.Format(time.DateOnly) != "2026-01-02" {
		t.Fatalf("due not parsed: %v", in.DueDate)
	}

	fs = flag.NewFlagSet("t", flag.ContinueOnError)
	tf = bindTaskFlags(fs)
	_ = fs.Parse([]string{"-title", "  "})
	if _, err := tf.input(); err == nil {
		t.Fatalf("blank title must be rejected")
	}
}

func Test_listFlags_Request(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("l", flag.ContinueOnError)
	lf := bindListFlags(fs)
	_ = fs.Parse([]string{"-status", "Pending", "-sort", "priority", "-order", "desc", "-page", "2", "-size", "5"})
	got := lf.request()
	want := api.ListTasksRequest{Status: "Pending", SortBy: "priority", SortOrder: "desc", Page: 2, PageSize: 5}
	if *got != want {
		t.Fatalf("request = %+v, want %+v", *got, want)
	}
}

func Test_promptPassword_FromPipe(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	go func() { _, _ = io.WriteString(w, "Secret1!\r\nignored\n"); _ = w.Close() }()

	var prompt bytes.Buffer
	pw, err := promptPassword(r, &prompt)
	if err != nil || pw != "Secret1!" {
		t.Fatalf("promptPassword: %q %v", pw, err)
	}
	if prompt.Len() != 0 {
		t.Fatalf("no prompt expected for non-terminal input, got %q", prompt.String())
	}

	r2, w2, _ := os.Pipe()
	defer r2.Close()
	_ = w2.Close()
	if _, err := promptPassword(r2, io.Discard); err == nil {
		t.Fatalf("empty input must be rejected")
	}
}

func Test_printTable(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := printTable(&buf, []api.Task{
		{ID: "1", Title: "a", DueDate: &due, Status: "Pending", Priority: "High"},
		{ID: "2", Title: "b", Status: "Completed", Priority: "Low"},
	})
	if err != nil {
		t.Fatalf("printTable: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "2026-03-04") || !strings.Contains(lines[2], "-") {
		t.Fatalf("due column wrong:\n%s", buf.String())
	}
}
