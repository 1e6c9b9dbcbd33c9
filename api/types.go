// Package api exposes the board over HTTP: JSON reads, command intake, the
// drag gesture endpoints and a server-sent-events stream of board snapshots.
package api

import (
	"taskboard/board"
	"taskboard/domain"
	"taskboard/drag"
)

// Store is the task store as seen by the handlers.
type Store interface {
	board.Store
	drag.Board
	Tasks() []domain.Task
	Len() int
	Version() uint64
	Subscribe() (<-chan struct{}, func())
}
