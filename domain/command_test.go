package domain

import (
	"testing"

	"github.com/bytedance/sonic"
)

func TestNewMoveCommandPayload(t *testing.T) {
	cmd, err := NewMoveCommand("t1", Right)
	if err != nil {
		t.Fatalf("new move command: %v", err)
	}
	if cmd.Type != CommandMove || cmd.TaskID != "t1" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
	var data MoveData
	if err := sonic.Unmarshal(cmd.Data, &data); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if data.Direction != Right {
		t.Fatalf("expected right, got %q", data.Direction)
	}
}

func TestNewReorderCommandIncludesZeroPosition(t *testing.T) {
	cmd, err := NewReorderCommand("t1", 0)
	if err != nil {
		t.Fatalf("new reorder command: %v", err)
	}
	if string(cmd.Data) != `{"position":0}` {
		t.Fatalf("unexpected payload %s", cmd.Data)
	}
}

func TestDeleteCommandHasNoPayload(t *testing.T) {
	cmd := NewDeleteCommand("t1")
	if cmd.Data != nil {
		t.Fatalf("expected no payload, got %s", cmd.Data)
	}
}
