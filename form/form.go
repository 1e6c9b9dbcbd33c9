// Package form holds the transient state of the task edit dialog.
package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/board"
	"taskboard/domain"
)

// Mode tells whether the form creates a task or edits one.
type Mode int

const (
	Create Mode = iota
	Edit
)

// DeadlineLayout is the date format accepted for deadlines.
const DeadlineLayout = "2006-01-02"

var (
	ErrClosed         = errors.New("form is not open")
	ErrTitleRequired  = board.ErrTitleRequired
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrBadDeadline    = errors.New("deadline must look like YYYY-MM-DD")
)

// Form collects the fields of one task between open and close. Nothing it
// holds reaches the board until Submit hands out a command.
type Form struct {
	open       bool
	mode       Mode
	taskID     string
	fields     domain.Fields
	submitting bool
}

// OpenCreate opens an empty form for a new task.
func (f *Form) OpenCreate() {
	*f = Form{open: true, mode: Create}
}

// OpenEdit opens the form pre-filled with the current values of t.
func (f *Form) OpenEdit(t domain.Task) {
	*f = Form{open: true, mode: Edit, taskID: t.ID, fields: domain.FieldsOf(t)}
}

// Close discards everything typed so far.
func (f *Form) Close() {
	*f = Form{}
}

func (f *Form) IsOpen() bool          { return f.open }
func (f *Form) Mode() Mode            { return f.mode }
func (f *Form) TaskID() string        { return f.taskID }
func (f *Form) Fields() domain.Fields { return f.fields }
func (f *Form) Submitting() bool      { return f.submitting }

// Heading is the dialog title for the current mode.
func (f *Form) Heading() string {
	if f.mode == Edit {
		return "Edit Task"
	}
	return "Create New Task"
}

// SubmitLabel is the caption of the submit control.
func (f *Form) SubmitLabel() string {
	if f.mode == Edit {
		return "Save Changes"
	}
	return "Create"
}

func (f *Form) SetTitle(v string)       { f.fields.Title = v }
func (f *Form) SetDescription(v string) { f.fields.Description = v }
func (f *Form) SetAssignee(v string)    { f.fields.Assignee = v }

// SetDeadline sets or, with nil, clears the deadline.
func (f *Form) SetDeadline(d *time.Time) {
	if d == nil {
		f.fields.Deadline = nil
		return
	}
	v := *d
	f.fields.Deadline = &v
}

// ParseDeadline reads a YYYY-MM-DD date in loc. A blank input means no
// deadline.
func ParseDeadline(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DeadlineLayout, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDeadline, raw)
	}
	return &d, nil
}

// FormatDeadline renders d in the layout ParseDeadline accepts.
func FormatDeadline(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DeadlineLayout)
}

// Submit validates the form and returns the single intent it stands for: a
// create command, or an update command for the edited task. The form stays
// in flight until Close, so repeated submits are rejected.
func (f *Form) Submit() (domain.Command, error) {
	if !f.open {
		return domain.Command{}, ErrClosed
	}
	if f.submitting {
		return domain.Command{}, ErrSubmitInFlight
	}
	if strings.TrimSpace(f.fields.Title) == "" {
		return domain.Command{}, ErrTitleRequired
	}

	var (
		cmd domain.Command
		err error
	)
	if f.mode == Edit {
		cmd, err = domain.NewUpdateCommand(f.taskID, f.fields)
	} else {
		cmd, err = domain.NewCreateCommand(f.fields)
	}
	if err != nil {
		return domain.Command{}, err
	}
	cmd.ID = uuid.NewString()
	f.submitting = true
	return cmd, nil
}
