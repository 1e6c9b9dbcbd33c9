package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"taskboard/domain"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidPayload = errors.New("invalid command payload")
	ErrTitleRequired  = errors.New("title is required")
	ErrMissingTaskID  = errors.New("missing task id")
)

// Store is the set of task store operations intents map onto.
type Store interface {
	Add(ctx context.Context, f domain.Fields) domain.Task
	Update(ctx context.Context, id string, f domain.Fields) bool
	Delete(ctx context.Context, id string) bool
	SetStatus(ctx context.Context, id string, st domain.Status) bool
	Move(ctx context.Context, id string, d domain.Direction) bool
	Reorder(ctx context.Context, id string, position int) bool
}

// Apply validates cmd and routes it to st. It returns the id of the affected
// task, the new id for create commands. Commands naming a task that does not
// exist are accepted and change nothing.
func Apply(ctx context.Context, st Store, cmd domain.Command) (string, error) {
	if cmd.Type != domain.CommandCreate && cmd.TaskID == "" {
		return "", fmt.Errorf("%s: %w", cmd.Type, ErrMissingTaskID)
	}
	switch cmd.Type {
	case domain.CommandCreate:
		f, err := decodeFields(cmd)
		if err != nil {
			return "", err
		}
		return st.Add(ctx, f).ID, nil
	case domain.CommandUpdate:
		f, err := decodeFields(cmd)
		if err != nil {
			return "", err
		}
		st.Update(ctx, cmd.TaskID, f)
	case domain.CommandDelete:
		st.Delete(ctx, cmd.TaskID)
	case domain.CommandMove:
		var data domain.MoveData
		if err := decode(cmd, &data); err != nil {
			return "", err
		}
		d, err := domain.ParseDirection(string(data.Direction))
		if err != nil {
			return "", err
		}
		st.Move(ctx, cmd.TaskID, d)
	case domain.CommandSetStatus:
		// decoded as a plain string so an unknown column surfaces as
		// ErrInvalidStatus rather than a codec error
		var data struct {
			Status string `json:"status"`
		}
		if err := decode(cmd, &data); err != nil {
			return "", err
		}
		status, err := domain.ParseStatus(data.Status)
		if err != nil {
			return "", err
		}
		st.SetStatus(ctx, cmd.TaskID, status)
	case domain.CommandReorder:
		var data domain.ReorderData
		if err := decode(cmd, &data); err != nil {
			return "", err
		}
		st.Reorder(ctx, cmd.TaskID, data.Position)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return cmd.TaskID, nil
}

func decodeFields(cmd domain.Command) (domain.Fields, error) {
	var f domain.Fields
	if err := decode(cmd, &f); err != nil {
		return domain.Fields{}, err
	}
	if strings.TrimSpace(f.Title) == "" {
		return domain.Fields{}, fmt.Errorf("%s: %w", cmd.Type, ErrTitleRequired)
	}
	return f, nil
}

func decode(cmd domain.Command, v any) error {
	if len(cmd.Data) == 0 {
		return fmt.Errorf("%s: %w: empty data", cmd.Type, ErrInvalidPayload)
	}
	if err := sonic.Unmarshal(cmd.Data, v); err != nil {
		return fmt.Errorf("%s: %w: %v", cmd.Type, ErrInvalidPayload, err)
	}
	return nil
}
