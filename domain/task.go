package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status is the column a task belongs to.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

var ErrInvalidStatus = errors.New("invalid status")

// Valid reports whether s is one of the board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Title is the column heading shown for s.
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return ""
}

// ParseStatus converts a raw column identifier into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Direction is a one column step on the board.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection converts a raw direction into a Direction.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(raw); d {
	case Left, Right:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
}

// Step returns the status adjacent to s in direction d. The second result is
// false at the terminal column in that direction.
func (s Status) Step(d Direction) (Status, bool) {
	switch {
	case d == Right && s == StatusTodo:
		return StatusInProgress, true
	case d == Right && s == StatusInProgress:
		return StatusCompleted, true
	case d == Left && s == StatusCompleted:
		return StatusInProgress, true
	case d == Left && s == StatusInProgress:
		return StatusTodo, true
	}
	return s, false
}

// Task represents a single card on the board.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// CanMove reports whether the move control for d is exposed on t.
func (t Task) CanMove(d Direction) bool {
	_, ok := t.Status.Step(d)
	return ok
}

// Clone returns a copy of t that shares no pointers with it.
func (t Task) Clone() Task {
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	return t
}

// Fields carries the user editable part of a task.
type Fields struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// FieldsOf extracts the editable fields of t.
func FieldsOf(t Task) Fields {
	c := t.Clone()
	return Fields{
		Title:       c.Title,
		Description: c.Description,
		Assignee:    c.Assignee,
		Deadline:    c.Deadline,
	}
}

// Apply overwrites the editable fields of t with f.
func (f Fields) Apply(t *Task) {
	t.Title = f.Title
	t.Description = f.Description
	t.Assignee = f.Assignee
	t.Deadline = nil
	if f.Deadline != nil {
		d := *f.Deadline
		t.Deadline = &d
	}
}

// UnmarshalText rejects statuses outside the three board columns.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
