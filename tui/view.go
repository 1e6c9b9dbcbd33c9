package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"taskboard/board"
	"taskboard/domain"
)

const (
	heading  = "Task Manager"
	subtitle = "Drag cards between columns or use the keyboard"
)

func (m Model) View() string {
	if m.form.IsOpen() {
		box := m.inputs.view(m.styles, m.form.Heading(), m.form.SubmitLabel(), m.formErr, m.help.View(m.formKeys))
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
		}
		return box
	}

	// Rows above boardTop are fixed: hitTest relies on them.
	rows := []string{
		m.styles.Header.Render(heading),
		m.styles.Subtitle.Render(subtitle),
		"",
		m.renderBoard(board.Columns(m.store.Tasks())),
		"",
	}
	if m.status != "" {
		rows = append(rows, m.styles.Status.Render(m.status))
	}
	rows = append(rows, m.help.View(m.keys))
	return strings.Join(rows, "\n")
}

func (m Model) renderBoard(cols []board.Column) string {
	parts := make([]string, 0, 2*len(cols))
	gap := strings.Repeat(" ", columnGap)
	for i, col := range cols {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, m.renderColumn(i, col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderColumn(ci int, col board.Column) string {
	title := m.styles.ColumnTitle.Render(col.Title) + " " + m.styles.Badge.Render(fmt.Sprintf("(%d)", col.Count()))
	rows := []string{title, ""}
	if len(col.Tasks) == 0 {
		rows = append(rows, m.styles.Placeholder.Render("Drop tasks here"))
	}
	for ri, t := range col.Tasks {
		if ri > 0 {
			rows = append(rows, "") // cardGap
		}
		rows = append(rows, m.renderCard(t, ci == m.selCol && ri == m.selRow))
	}
	return lipgloss.NewStyle().Width(columnWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderCard(t domain.Task, selected bool) string {
	inner := columnWidth - 4

	title := m.styles.CardTitle.Render(runewidth.Truncate(t.Title, inner, "…"))
	desc := strings.ReplaceAll(strings.TrimSpace(t.Description), "\n", " ")
	body := m.styles.CardBody.Render(runewidth.Truncate(desc, inner, "…"))

	style := m.styles.Card.BorderLeftForeground(StatusColor(t.Status))
	if selected {
		style = style.
			BorderTopForeground(m.styles.SelectedCard).
			BorderRightForeground(m.styles.SelectedCard).
			BorderBottomForeground(m.styles.SelectedCard)
	}
	card := style.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, m.cardMeta(t)))
	if m.Dragging() && m.drag.ActiveID() == t.ID {
		card = m.styles.DraggedCard.Render(card)
	}
	return card
}

// cardMeta renders the footer line: avatar initials, deadline badge and the
// move arrows that apply to the task's column.
func (m Model) cardMeta(t domain.Task) string {
	var parts []string
	if t.Assignee != "" {
		parts = append(parts, m.styles.Avatar.Render(board.Initials(t.Assignee)))
	}
	if label := board.DeadlineLabel(t); label != "" {
		if board.Overdue(t, m.now()) {
			parts = append(parts, m.styles.Overdue.Render("! "+label))
		} else {
			parts = append(parts, m.styles.Deadline.Render(label))
		}
	}
	var arrows []string
	if t.CanMove(domain.Left) {
		arrows = append(arrows, "‹")
	}
	if t.CanMove(domain.Right) {
		arrows = append(arrows, "›")
	}
	if len(arrows) > 0 {
		parts = append(parts, m.styles.MoveArrow.Render(strings.Join(arrows, " ")))
	}
	return strings.Join(parts, "  ")
}
