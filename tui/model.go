// Package tui renders the board in the terminal and turns keyboard and mouse
// input into board intents.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"taskboard/board"
	"taskboard/domain"
	"taskboard/drag"
	"taskboard/form"
)

// Store is the task store the UI renders and mutates.
type Store interface {
	board.Store
	drag.Board
	Tasks() []domain.Task
}

type Option func(*Model)

// WithActivationCells sets how far the pointer must travel before a press on
// a card turns into a drag.
func WithActivationCells(n int) Option {
	return func(m *Model) {
		if n >= 0 {
			m.activation = n
		}
	}
}

func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithClock overrides the clock used for overdue badges.
func WithClock(fn func() time.Time) Option {
	return func(m *Model) { m.now = fn }
}

// press is a left-button press on a card that has not become a drag yet.
type press struct {
	x, y   int
	taskID string
}

type Model struct {
	ctx    context.Context
	store  Store
	drag   *drag.Controller
	log    *log.Logger
	styles Styles
	now    func() time.Time

	keys     keyMap
	formKeys formKeyMap
	help     help.Model

	form    form.Form
	inputs  formInputs
	formErr string

	width, height int
	selCol        int
	selRow        int
	pressed       *press
	activation    int
	status        string
}

// New builds the board UI over store.
func New(ctx context.Context, store Store, opts ...Option) Model {
	m := Model{
		ctx:        ctx,
		store:      store,
		log:        log.StandardLogger(),
		styles:     NewStyles(DarkTheme()),
		now:        time.Now,
		keys:       defaultKeyMap(),
		formKeys:   defaultFormKeyMap(),
		help:       help.New(),
		inputs:     newFormInputs(),
		activation: 1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.drag = drag.NewController(store, m.log)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.form.IsOpen() {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	case tea.MouseMsg:
		if m.form.IsOpen() {
			return m, nil
		}
		return m.updateMouse(msg), nil
	}
	if m.form.IsOpen() {
		return m, m.inputs.update(msg)
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := board.Columns(m.store.Tasks())
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.Dragging() {
			m.status = "Drag cancelled"
		}
		m.endGesture()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.selRow--
	case key.Matches(msg, m.keys.Down):
		m.selRow++
	case key.Matches(msg, m.keys.Left):
		m.selCol--
	case key.Matches(msg, m.keys.Right):
		m.selCol++
	case key.Matches(msg, m.keys.New):
		m.endGesture()
		m.form.OpenCreate()
		m.formErr = ""
		return m, m.inputs.load(m.form.Fields())
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(cols); ok {
			m.endGesture()
			m.form.OpenEdit(t)
			m.formErr = ""
			return m, m.inputs.load(m.form.Fields())
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(cols); ok {
			m.dispatch(domain.NewDeleteCommand(t.ID))
		}
	case key.Matches(msg, m.keys.MoveLeft):
		m.moveSelected(cols, domain.Left)
	case key.Matches(msg, m.keys.MoveRight):
		m.moveSelected(cols, domain.Right)
	case key.Matches(msg, m.keys.RaiseCard):
		m.shiftSelected(cols, -1)
	case key.Matches(msg, m.keys.LowerCard):
		m.shiftSelected(cols, 1)
	}
	m.clampSelection(board.Columns(m.store.Tasks()))
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.form.Close()
		m.formErr = ""
		return m, nil
	case key.Matches(msg, m.formKeys.Next):
		return m, m.inputs.focusField(m.inputs.focus + 1)
	case key.Matches(msg, m.formKeys.Prev):
		return m, m.inputs.focusField(m.inputs.focus - 1)
	case key.Matches(msg, m.formKeys.Submit):
		m.submitForm()
		return m, nil
	}
	return m, m.inputs.update(msg)
}

func (m *Model) submitForm() {
	if err := m.inputs.apply(&m.form); err != nil {
		m.formErr = err.Error()
		return
	}
	cmd, err := m.form.Submit()
	if err != nil {
		if errors.Is(err, form.ErrTitleRequired) {
			m.formErr = "Title is required"
		} else {
			m.formErr = err.Error()
		}
		return
	}
	id, ok := m.dispatch(cmd)
	m.form.Close()
	m.formErr = ""
	if ok {
		m.selectTask(id)
	}
}

// dispatch routes one intent to the store and reports whether it was
// accepted.
func (m *Model) dispatch(cmd domain.Command) (string, bool) {
	id, err := board.Apply(m.ctx, m.store, cmd)
	if err != nil {
		m.log.WithError(err).WithField("type", cmd.Type).Warn("intent rejected")
		m.status = err.Error()
		return "", false
	}
	m.status = ""
	return id, true
}

func (m *Model) moveSelected(cols []board.Column, d domain.Direction) {
	t, ok := m.selected(cols)
	if !ok || !t.CanMove(d) {
		return
	}
	cmd, err := domain.NewMoveCommand(t.ID, d)
	if err != nil {
		m.status = err.Error()
		return
	}
	if _, ok := m.dispatch(cmd); ok {
		m.selectTask(t.ID)
	}
}

// shiftSelected swaps the selected card with its neighbour in the column.
func (m *Model) shiftSelected(cols []board.Column, delta int) {
	t, ok := m.selected(cols)
	if !ok {
		return
	}
	col := cols[m.selCol].Tasks
	next := m.selRow + delta
	if next < 0 || next >= len(col) {
		return
	}
	pos := m.indexOf(col[next].ID)
	if pos < 0 {
		return
	}
	cmd, err := domain.NewReorderCommand(t.ID, pos)
	if err != nil {
		m.status = err.Error()
		return
	}
	if _, ok := m.dispatch(cmd); ok {
		m.selectTask(t.ID)
	}
}

func (m Model) updateMouse(msg tea.MouseMsg) Model {
	cols := board.Columns(m.store.Tasks())
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		// a drag whose release never arrived is dropped here
		m.endGesture()
		if t := hitTest(cols, msg.X, msg.Y); t != nil && t.TaskID != "" {
			m.pressed = &press{x: msg.X, y: msg.Y, taskID: t.TaskID}
			m.selectTask(t.TaskID)
		}
	case tea.MouseActionMotion:
		if m.pressed == nil {
			return m
		}
		if m.drag.Phase() == drag.Idle {
			if distance(m.pressed.x, m.pressed.y, msg.X, msg.Y) < m.activation {
				return m
			}
			if !m.drag.Start(m.ctx, m.pressed.taskID) {
				m.pressed = nil
				return m
			}
		}
		if t := hitTest(cols, msg.X, msg.Y); t != nil {
			m.drag.Over(m.ctx, *t)
		}
		if m.drag.Phase() == drag.Idle {
			m.pressed = nil
			m.status = "Drag abandoned"
			break
		}
		m.selectTask(m.pressed.taskID)
	case tea.MouseActionRelease:
		if m.pressed == nil {
			return m
		}
		id := m.pressed.taskID
		m.pressed = nil
		if m.drag.Phase() != drag.Dragging {
			return m
		}
		out := m.drag.Drop(m.ctx, hitTest(cols, msg.X, msg.Y))
		m.status = fmt.Sprintf("Drop: %s", out)
		m.selectTask(id)
	}
	m.clampSelection(board.Columns(m.store.Tasks()))
	return m
}

// endGesture forgets the pending press and cancels any drag in progress.
func (m *Model) endGesture() {
	m.drag.Cancel()
	m.pressed = nil
}

func distance(x0, y0, x1, y1 int) int {
	dx, dy := x1-x0, y1-y0
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

func (m Model) selected(cols []board.Column) (domain.Task, bool) {
	if m.selCol < 0 || m.selCol >= len(cols) {
		return domain.Task{}, false
	}
	tasks := cols[m.selCol].Tasks
	if m.selRow < 0 || m.selRow >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.selRow], true
}

// selectTask moves the selection onto the card with id, wherever it is now.
func (m *Model) selectTask(id string) {
	if id == "" {
		return
	}
	for ci, col := range board.Columns(m.store.Tasks()) {
		for ri, t := range col.Tasks {
			if t.ID == id {
				m.selCol, m.selRow = ci, ri
				return
			}
		}
	}
}

func (m *Model) clampSelection(cols []board.Column) {
	m.selCol = max(0, min(m.selCol, len(cols)-1))
	n := len(cols[m.selCol].Tasks)
	m.selRow = max(0, min(m.selRow, n-1))
}

func (m Model) indexOf(id string) int {
	return m.store.IndexOf(m.ctx, id)
}

// Selected returns the id of the selected card, blank when the selected
// column is empty.
func (m Model) Selected() string {
	t, ok := m.selected(board.Columns(m.store.Tasks()))
	if !ok {
		return ""
	}
	return t.ID
}

// Dragging reports whether a drag gesture is in progress.
func (m Model) Dragging() bool { return m.drag.Phase() == drag.Dragging }

// FormOpen reports whether the task form is shown.
func (m Model) FormOpen() bool { return m.form.IsOpen() }
