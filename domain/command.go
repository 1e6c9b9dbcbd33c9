package domain

import (
	"github.com/bytedance/sonic"
)

// Command types understood by the board dispatcher.
const (
	CommandCreate    = "create"
	CommandUpdate    = "update"
	CommandDelete    = "delete"
	CommandMove      = "move"
	CommandSetStatus = "set-status"
	CommandReorder   = "reorder"
)

// Command represents a requested mutation of the board.
type Command struct {
	// ID carries the idempotency key of the intent.
	ID        string                 `json:"id,omitempty"`
	Type      string                 `json:"type"`
	TaskID    string                 `json:"taskId,omitempty"`
	Data      sonic.NoCopyRawMessage `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp,omitempty"`
}

// StatusData is the payload of a set-status command.
type StatusData struct {
	Status Status `json:"status"`
}

// MoveData is the payload of a move command.
type MoveData struct {
	Direction Direction `json:"direction"`
}

// ReorderData is the payload of a reorder command. Position indexes the
// global task sequence.
type ReorderData struct {
	Position int `json:"position"`
}

// NewCreateCommand builds a create intent for f.
func NewCreateCommand(f Fields) (Command, error) {
	return newCommand(CommandCreate, "", f)
}

// NewUpdateCommand builds an update intent replacing the fields of taskID.
func NewUpdateCommand(taskID string, f Fields) (Command, error) {
	return newCommand(CommandUpdate, taskID, f)
}

// NewDeleteCommand builds a delete intent.
func NewDeleteCommand(taskID string) Command {
	return Command{Type: CommandDelete, TaskID: taskID}
}

// NewMoveCommand builds a one column move intent.
func NewMoveCommand(taskID string, d Direction) (Command, error) {
	return newCommand(CommandMove, taskID, MoveData{Direction: d})
}

// NewSetStatusCommand builds a status reassignment intent.
func NewSetStatusCommand(taskID string, s Status) (Command, error) {
	return newCommand(CommandSetStatus, taskID, StatusData{Status: s})
}

// NewReorderCommand builds an intent moving taskID to position.
func NewReorderCommand(taskID string, position int) (Command, error) {
	return newCommand(CommandReorder, taskID, ReorderData{Position: position})
}

func newCommand(typ, taskID string, data any) (Command, error) {
	payload, err := sonic.Marshal(data)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, TaskID: taskID, Data: sonic.NoCopyRawMessage(payload)}, nil
}
