package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/domain"
	"taskboard/form"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldAssignee
	fieldDeadline
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Assignee", "Deadline (YYYY-MM-DD)"}

const formWidth = 48

// formInputs are the editable widgets behind the task form.
type formInputs struct {
	title       textinput.Model
	description textarea.Model
	assignee    textinput.Model
	deadline    textinput.Model
	focus       int
}

func newFormInputs() formInputs {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200
	title.Width = formWidth

	desc := textarea.New()
	desc.Placeholder = "Details"
	desc.ShowLineNumbers = false
	desc.SetWidth(formWidth)
	desc.SetHeight(3)

	assignee := textinput.New()
	assignee.Placeholder = "Name"
	assignee.CharLimit = 60
	assignee.Width = formWidth

	deadline := textinput.New()
	deadline.Placeholder = form.DeadlineLayout
	deadline.CharLimit = len(form.DeadlineLayout)
	deadline.Width = formWidth

	return formInputs{title: title, description: desc, assignee: assignee, deadline: deadline}
}

// load resets the widgets to f and focuses the title.
func (in *formInputs) load(f domain.Fields) tea.Cmd {
	in.title.SetValue(f.Title)
	in.description.SetValue(f.Description)
	in.assignee.SetValue(f.Assignee)
	in.deadline.SetValue(form.FormatDeadline(f.Deadline))
	in.title.CursorEnd()
	in.assignee.CursorEnd()
	in.deadline.CursorEnd()
	return in.focusField(fieldTitle)
}

func (in *formInputs) focusField(i int) tea.Cmd {
	in.focus = (i + fieldCount) % fieldCount
	in.title.Blur()
	in.description.Blur()
	in.assignee.Blur()
	in.deadline.Blur()
	switch in.focus {
	case fieldDescription:
		return in.description.Focus()
	case fieldAssignee:
		return in.assignee.Focus()
	case fieldDeadline:
		return in.deadline.Focus()
	default:
		return in.title.Focus()
	}
}

func (in *formInputs) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch in.focus {
	case fieldTitle:
		in.title, cmd = in.title.Update(msg)
	case fieldDescription:
		in.description, cmd = in.description.Update(msg)
	case fieldAssignee:
		in.assignee, cmd = in.assignee.Update(msg)
	case fieldDeadline:
		in.deadline, cmd = in.deadline.Update(msg)
	}
	return cmd
}

// apply copies the widget values into f. A malformed deadline leaves f
// untouched and is returned as an error.
func (in *formInputs) apply(f *form.Form) error {
	d, err := form.ParseDeadline(in.deadline.Value(), nil)
	if err != nil {
		return err
	}
	f.SetTitle(in.title.Value())
	f.SetDescription(in.description.Value())
	f.SetAssignee(strings.TrimSpace(in.assignee.Value()))
	f.SetDeadline(d)
	return nil
}

func (in formInputs) view(s Styles, heading, submit, errMsg, help string) string {
	widgets := [fieldCount]string{in.title.View(), in.description.View(), in.assignee.View(), in.deadline.View()}
	rows := []string{s.FormTitle.Render(heading), ""}
	for i, w := range widgets {
		label := s.Label.Render(fieldLabels[i])
		if i == in.focus {
			label = s.Focused.Render("> " + fieldLabels[i])
		}
		rows = append(rows, label, w, "")
	}
	if errMsg != "" {
		rows = append(rows, s.Error.Render(errMsg), "")
	}
	rows = append(rows, s.Label.Render("ctrl+s: "+submit), help)
	return s.Form.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
