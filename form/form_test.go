package form

import (
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"taskboard/domain"
)

func TestOpenCreateStartsEmpty(t *testing.T) {
	var f Form
	f.OpenEdit(domain.Task{ID: "t1", Title: "old", Assignee: "a"})
	f.OpenCreate()
	if !f.IsOpen() || f.Mode() != Create || f.TaskID() != "" {
		t.Fatalf("unexpected state: %#v", f)
	}
	if f.Fields() != (domain.Fields{}) {
		t.Fatalf("expected empty fields, got %#v", f.Fields())
	}
	if f.Heading() != "Create New Task" || f.SubmitLabel() != "Create" {
		t.Fatalf("unexpected labels %q %q", f.Heading(), f.SubmitLabel())
	}
}

func TestOpenEditCopiesTaskValues(t *testing.T) {
	d := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	task := domain.Task{ID: "t1", Title: "Write spec", Description: "draft", Assignee: "Zara", Deadline: &d, Status: domain.StatusInProgress}

	var f Form
	f.OpenEdit(task)

	got := f.Fields()
	if got.Title != "Write spec" || got.Description != "draft" || got.Assignee != "Zara" || got.Deadline == nil || !got.Deadline.Equal(d) {
		t.Fatalf("fields not initialized: %#v", got)
	}
	*got.Deadline = d.Add(time.Hour)
	if !task.Deadline.Equal(d) {
		t.Fatalf("form shares deadline with task")
	}
	if f.Heading() != "Edit Task" || f.SubmitLabel() != "Save Changes" {
		t.Fatalf("unexpected labels %q %q", f.Heading(), f.SubmitLabel())
	}
}

func TestSubmitRequiresTitle(t *testing.T) {
	var f Form
	f.OpenCreate()
	f.SetTitle("   ")
	if _, err := f.Submit(); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if f.Submitting() {
		t.Fatalf("failed validation must not mark the form in flight")
	}
}

func TestSubmitClosedForm(t *testing.T) {
	var f Form
	if _, err := f.Submit(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSubmitCreateEmitsCreateCommand(t *testing.T) {
	var f Form
	f.OpenCreate()
	f.SetTitle("Write spec")
	f.SetAssignee("Zara")

	cmd, err := f.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if cmd.Type != domain.CommandCreate || cmd.TaskID != "" || cmd.ID == "" {
		t.Fatalf("unexpected command %#v", cmd)
	}
	if cmd.Timestamp != 0 {
		t.Fatalf("timestamps are stamped by the dispatching transport, got %d", cmd.Timestamp)
	}
	var fields domain.Fields
	if err := sonic.Unmarshal(cmd.Data, &fields); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields.Title != "Write spec" || fields.Assignee != "Zara" {
		t.Fatalf("unexpected payload %#v", fields)
	}
}

func TestSubmitEditEmitsUpdateCommand(t *testing.T) {
	var f Form
	f.OpenEdit(domain.Task{ID: "t9", Title: "old"})
	f.SetTitle("new")

	cmd, err := f.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if cmd.Type != domain.CommandUpdate || cmd.TaskID != "t9" {
		t.Fatalf("unexpected command %#v", cmd)
	}
}

func TestSubmitGuardsDuplicateSubmission(t *testing.T) {
	var f Form
	f.OpenCreate()
	f.SetTitle("once")
	if _, err := f.Submit(); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.Submit(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	f.Close()
	if f.IsOpen() || f.Submitting() || f.Fields() != (domain.Fields{}) {
		t.Fatalf("close did not discard state: %#v", f)
	}
	f.OpenCreate()
	f.SetTitle("again")
	if _, err := f.Submit(); err != nil {
		t.Fatalf("submit after reopen: %v", err)
	}
}

func TestParseDeadline(t *testing.T) {
	d, err := ParseDeadline(" 2026-12-24 ", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !d.Equal(time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", d)
	}
	if FormatDeadline(d) != "2026-12-24" {
		t.Fatalf("unexpected format %q", FormatDeadline(d))
	}
	if d, err := ParseDeadline("", time.UTC); err != nil || d != nil {
		t.Fatalf("blank deadline should clear, got %v %v", d, err)
	}
	if _, err := ParseDeadline("24/12/2026", time.UTC); !errors.Is(err, ErrBadDeadline) {
		t.Fatalf("expected ErrBadDeadline, got %v", err)
	}
}

func TestSetDeadlineCopies(t *testing.T) {
	var f Form
	f.OpenCreate()
	d := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.SetDeadline(&d)
	d = d.Add(24 * time.Hour)
	if f.Fields().Deadline.Day() != 1 {
		t.Fatalf("form aliased caller's deadline")
	}
	f.SetDeadline(nil)
	if f.Fields().Deadline != nil {
		t.Fatalf("expected cleared deadline")
	}
}
