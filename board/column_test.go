package board

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"taskboard/domain"
)

func TestColumnsFixedOrderAndFiltering(t *testing.T) {
	tasks := []domain.Task{
		{ID: "a", Status: domain.StatusCompleted},
		{ID: "b", Status: domain.StatusTodo},
		{ID: "c", Status: domain.StatusTodo},
		{ID: "d", Status: domain.StatusInProgress},
	}
	cols := Columns(tasks)
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	wantTitles := []string{"To Do", "In Progress", "Completed"}
	wantIDs := [][]string{{"b", "c"}, {"d"}, {"a"}}
	for i, col := range cols {
		if col.Title != wantTitles[i] {
			t.Fatalf("column %d titled %q, want %q", i, col.Title, wantTitles[i])
		}
		var got []string
		for _, task := range col.Tasks {
			got = append(got, task.ID)
		}
		if diff := cmp.Diff(wantIDs[i], got); diff != "" {
			t.Fatalf("column %s mismatch (-want +got):\n%s", col.Status, diff)
		}
		if col.Count() != len(wantIDs[i]) {
			t.Fatalf("column %s count %d", col.Status, col.Count())
		}
	}
}

func TestColumnsEmptyBoard(t *testing.T) {
	for _, col := range Columns(nil) {
		if col.Count() != 0 || col.Tasks == nil {
			t.Fatalf("expected empty non-nil column, got %#v", col)
		}
	}
}

func TestOverdueIsStrict(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	same := now
	future := now.Add(time.Minute)

	tests := []struct {
		name     string
		deadline *time.Time
		want     bool
	}{
		{"none", nil, false},
		{"past", &past, true},
		{"equal", &same, false},
		{"future", &future, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overdue(domain.Task{Deadline: tt.deadline}, now); got != tt.want {
				t.Fatalf("Overdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"john doe": "JO",
		"z":        "Z",
		"  ana ":   "AN",
		"":         "",
		"élodie":   "ÉL",
	}
	for in, want := range tests {
		if got := Initials(in); got != want {
			t.Fatalf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeadlineLabel(t *testing.T) {
	d := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	if got := DeadlineLabel(domain.Task{Deadline: &d}); got != "Mar 7" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := DeadlineLabel(domain.Task{}); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}
