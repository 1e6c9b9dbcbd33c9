// Package board projects the task sequence into columns and dispatches
// intents to the store.
package board

import (
	"strings"
	"time"
	"unicode"

	"taskboard/domain"
)

// Column is the ordered view of the tasks sharing one status.
type Column struct {
	Status domain.Status `json:"status"`
	Title  string        `json:"title"`
	Tasks  []domain.Task `json:"tasks"`
}

// Count is the badge value shown next to the column title.
func (c Column) Count() int { return len(c.Tasks) }

// Columns splits tasks into the three board columns, keeping sequence order.
func Columns(tasks []domain.Task) []Column {
	cols := make([]Column, len(domain.Statuses))
	for i, st := range domain.Statuses {
		cols[i] = Column{Status: st, Title: st.Title(), Tasks: []domain.Task{}}
	}
	for _, t := range tasks {
		for i := range cols {
			if cols[i].Status == t.Status {
				cols[i].Tasks = append(cols[i].Tasks, t)
				break
			}
		}
	}
	return cols
}

// Overdue reports whether the deadline of t lies strictly before now.
func Overdue(t domain.Task, now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now)
}

// DeadlineLabel renders the short deadline badge, e.g. "Jan 2".
func DeadlineLabel(t domain.Task) string {
	if t.Deadline == nil {
		return ""
	}
	return t.Deadline.Format("Jan 2")
}

// Initials is the avatar fallback for an assignee: its first two letters,
// upper-cased.
func Initials(assignee string) string {
	r := []rune(strings.TrimSpace(assignee))
	if len(r) > 2 {
		r = r[:2]
	}
	for i := range r {
		r[i] = unicode.ToUpper(r[i])
	}
	return string(r)
}
