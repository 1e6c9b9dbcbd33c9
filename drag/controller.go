// Package drag turns pointer drag gestures into task store operations.
//
// A gesture is started on a card, hovers over cards or empty column space
// and ends with a drop or a cancel. Hovering a different column reassigns
// the dragged task eagerly, so the board shows the card in its new column
// before the drop settles its final position.
package drag

import (
	"context"

	log "github.com/sirupsen/logrus"

	"taskboard/domain"
)

// Phase is the state of the controller.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Outcome describes what a drop did to the board.
type Outcome int

const (
	// Abandoned means the drop had no usable target or the dragged task is gone.
	Abandoned Outcome = iota
	// Reassigned means the dragged task changed column.
	Reassigned
	// Reordered means the dragged task moved within its column.
	Reordered
	// Unchanged means the task was dropped on itself or its own column.
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case Reassigned:
		return "reassigned"
	case Reordered:
		return "reordered"
	case Unchanged:
		return "unchanged"
	}
	return "abandoned"
}

// Target is what the pointer is over: a task card, or the empty space of a
// column when TaskID is blank.
type Target struct {
	TaskID string        `json:"taskId,omitempty"`
	Column domain.Status `json:"column,omitempty"`
}

// Board is the part of the task store the controller drives.
type Board interface {
	Get(ctx context.Context, id string) (domain.Task, bool)
	IndexOf(ctx context.Context, id string) int
	SetStatus(ctx context.Context, id string, st domain.Status) bool
	Reorder(ctx context.Context, id string, position int) bool
}

// Controller is the Idle/Dragging state machine. It is not safe for
// concurrent use; callers dispatch gesture events one at a time.
type Controller struct {
	board  Board
	log    *log.Logger
	phase  Phase
	active string
}

// NewController creates an idle controller over b.
func NewController(b Board, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Controller{board: b, log: logger}
}

// Phase returns the current state.
func (c *Controller) Phase() Phase { return c.phase }

// ActiveID returns the id of the dragged task, blank when idle.
func (c *Controller) ActiveID() string { return c.active }

// Start begins dragging the task with id. It reports whether a gesture was
// started; unknown tasks and a gesture already in progress are ignored.
func (c *Controller) Start(ctx context.Context, id string) bool {
	if c.phase == Dragging {
		return false
	}
	if _, ok := c.board.Get(ctx, id); !ok {
		c.log.WithField("task", id).Debug("drag start ignored: task not found")
		return false
	}
	c.phase = Dragging
	c.active = id
	c.log.WithField("task", id).Debug("drag started")
	return true
}

// Over handles the pointer entering target. When target resolves to a
// column other than the dragged task's current one, the task is moved there
// right away and placed at the hovered card's position.
func (c *Controller) Over(ctx context.Context, target Target) {
	if c.phase != Dragging || target.TaskID == c.active {
		return
	}
	active, ok := c.board.Get(ctx, c.active)
	if !ok {
		c.abandon("drag over: dragged task not found")
		return
	}
	status, ok := c.resolve(ctx, target)
	if !ok || status == active.Status {
		return
	}
	c.board.SetStatus(ctx, c.active, status)
	if target.TaskID != "" {
		if i := c.board.IndexOf(ctx, target.TaskID); i >= 0 {
			c.board.Reorder(ctx, c.active, i)
		}
	}
	c.log.WithFields(log.Fields{"task": c.active, "column": status}).Debug("drag over: column changed")
}

// Drop ends the gesture on target; a nil target means the pointer was
// released outside any drop zone.
func (c *Controller) Drop(ctx context.Context, target *Target) Outcome {
	if c.phase != Dragging {
		return Abandoned
	}
	id := c.active
	c.reset()

	out := c.drop(ctx, id, target)
	c.log.WithFields(log.Fields{"task": id, "outcome": out.String()}).Debug("drag dropped")
	return out
}

func (c *Controller) drop(ctx context.Context, id string, target *Target) Outcome {
	if target == nil {
		return Abandoned
	}
	active, ok := c.board.Get(ctx, id)
	if !ok {
		return Abandoned
	}
	status, ok := c.resolve(ctx, *target)
	if !ok {
		return Abandoned
	}
	if status != active.Status {
		c.board.SetStatus(ctx, id, status)
		return Reassigned
	}
	if target.TaskID == "" || target.TaskID == id {
		return Unchanged
	}
	to := c.board.IndexOf(ctx, target.TaskID)
	if to < 0 || to == c.board.IndexOf(ctx, id) {
		return Unchanged
	}
	c.board.Reorder(ctx, id, to)
	return Reordered
}

// Cancel aborts the gesture. Changes made while hovering are kept.
func (c *Controller) Cancel() {
	if c.phase == Dragging {
		c.abandon("drag cancelled")
	}
}

// resolve maps a target onto the column it belongs to.
func (c *Controller) resolve(ctx context.Context, target Target) (domain.Status, bool) {
	if target.TaskID != "" {
		over, ok := c.board.Get(ctx, target.TaskID)
		if !ok {
			return "", false
		}
		return over.Status, true
	}
	return target.Column, target.Column.Valid()
}

func (c *Controller) abandon(reason string) {
	c.log.WithField("task", c.active).Debug(reason)
	c.reset()
}

func (c *Controller) reset() {
	c.phase = Idle
	c.active = ""
}
