package tui

import (
	"taskboard/board"
	"taskboard/drag"
)

// Board geometry in terminal cells. View renders with exactly these sizes so
// that hitTest can map pointer coordinates back onto cards and columns.
const (
	columnWidth = 30
	columnGap   = 2
	cardHeight  = 5
	cardGap     = 1

	columnHeaderRow = 3
	boardTop        = 5
)

// columnAt returns the column index under x, or -1 for the gaps and the
// space right of the board.
func columnAt(x int) int {
	if x < 0 {
		return -1
	}
	stride := columnWidth + columnGap
	i := x / stride
	if i >= 3 || x%stride >= columnWidth {
		return -1
	}
	return i
}

// cardAt returns the row of the card slot under y, or -1 when y is above the
// cards or on the gap between two cards.
func cardAt(y int) int {
	if y < boardTop {
		return -1
	}
	slot := cardHeight + cardGap
	if (y-boardTop)%slot >= cardHeight {
		return -1
	}
	return (y - boardTop) / slot
}

// hitTest maps a pointer position to a drop target. Positions inside a column
// but not on a card resolve to the column itself; positions outside every
// column yield nil.
func hitTest(cols []board.Column, x, y int) *drag.Target {
	ci := columnAt(x)
	if ci < 0 || ci >= len(cols) || y < columnHeaderRow {
		return nil
	}
	col := cols[ci]
	if row := cardAt(y); row >= 0 && row < len(col.Tasks) {
		return &drag.Target{TaskID: col.Tasks[row].ID}
	}
	return &drag.Target{Column: col.Status}
}
