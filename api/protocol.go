package api

import (
	"taskboard/board"
	"taskboard/domain"
	"taskboard/drag"
)

const (
	postCommandMaxSize = 64 * 1024 // 64 KiB
	dragBodyMaxSize    = 4 * 1024
)

// GET /api/board and SSE frame body
type boardResponse struct {
	Version uint64         `json:"version"`
	Columns []board.Column `json:"columns"`
}

// GET /api/tasks response body
type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// POST /api/commands response body
type postCommandResponse struct {
	IdempotencyKeys []string `json:"idempotencyKeys,omitempty"`
	TaskIDs         []string `json:"taskIds,omitempty"`
	Skipped         []string `json:"skipped,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// POST /api/drag/* response body
type dragResponse struct {
	Phase    string `json:"phase"`
	ActiveID string `json:"activeId,omitempty"`
	Started  bool   `json:"started,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Tasks   int    `json:"tasks"`
	Version uint64 `json:"version"`
}

func newDragResponse(c *drag.Controller) dragResponse {
	return dragResponse{Phase: c.Phase().String(), ActiveID: c.ActiveID()}
}
