package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard/board"
	"taskboard/domain"
	"taskboard/drag"
)

var errEmptyTarget = errors.New("target needs a taskId or a column")

type server struct {
	store   Store
	drag    *drag.Controller
	log     *log.Logger
	deduper Deduper

	// mu serializes every intent, so mutations land in arrival order.
	mu sync.Mutex
}

type Option func(*server)

// WithDeduper replaces the in-memory idempotency key store.
func WithDeduper(d Deduper) Option {
	return func(s *server) { s.deduper = d }
}

// Register wires up all routes on the provided Echo instance.
func Register(e *echo.Echo, store Store, logger *log.Logger, opts ...Option) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &server{store: store, drag: drag.NewController(store, logger), log: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.deduper == nil {
		s.deduper = NewMemoryDeduper(DefaultDedupeTTL)
	}

	e.JSONSerializer = JSONSerializer{}

	g := e.Group("/api", RequestMetrics(logger), GzipRequestMiddleware())
	g.GET("/board", s.getBoard)
	g.GET("/tasks", s.getTasks)
	g.POST("/commands", s.postCommands)
	g.POST("/drag/start", s.dragStart)
	g.POST("/drag/over", s.dragOver)
	g.POST("/drag/drop", s.dragDrop)
	g.POST("/drag/cancel", s.dragCancel)

	e.GET("/stream", s.streamBoard)
	e.GET("/healthz", s.healthz)
}

func (s *server) snapshot() boardResponse {
	return boardResponse{Version: s.store.Version(), Columns: board.Columns(s.store.Tasks())}
}

func (s *server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Tasks: s.store.Len(), Version: s.store.Version()})
}

func (s *server) getBoard(c echo.Context) (err error) {
	metrics := metricsFrom(c)
	resp := s.snapshot()
	n := 0
	for _, col := range resp.Columns {
		n += col.Count()
	}
	metrics.SetTasksReturned(n)

	encodeStart := time.Now()
	err = c.JSON(http.StatusOK, resp)
	metrics.ObserveEncode(time.Since(encodeStart))
	if err != nil {
		metrics.SetErrorStage("encode_response")
	}
	return err
}

func (s *server) getTasks(c echo.Context) (err error) {
	metrics := metricsFrom(c)
	tasks := s.store.Tasks()
	metrics.SetTasksReturned(len(tasks))

	encodeStart := time.Now()
	err = c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	metrics.ObserveEncode(time.Since(encodeStart))
	if err != nil {
		metrics.SetErrorStage("encode_response")
	}
	return err
}

func (s *server) postCommands(c echo.Context) error {
	metrics := metricsFrom(c)
	ctx := c.Request().Context()

	lr := io.LimitReader(c.Request().Body, postCommandMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()

	cmds := make([]domain.Command, 0, 4)
	if err := dec.Decode(&cmds); err != nil {
		metrics.SetErrorStage("decode")
		return c.String(http.StatusBadRequest, "invalid body")
	}
	metrics.SetCommands(len(cmds))
	keys := finalizeCommands(cmds)

	applyStart := time.Now()
	s.mu.Lock()
	resp, err := s.applyCommands(ctx, cmds, keys)
	s.mu.Unlock()
	metrics.ObserveApply(time.Since(applyStart))
	if err != nil {
		metrics.SetErrorStage("apply")
		resp.Error = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// applyCommands applies cmds in order and stops at the first rejected one.
// Commands whose idempotency key was seen before are skipped; their task id
// is reported as given.
func (s *server) applyCommands(ctx context.Context, cmds []domain.Command, keys []string) (postCommandResponse, error) {
	resp := postCommandResponse{TaskIDs: make([]string, 0, len(cmds))}
	for i, cmd := range cmds {
		added, err := s.deduper.Add(ctx, cmd.ID)
		if err != nil {
			return resp, fmt.Errorf("command %d: dedupe: %w", i, err)
		}
		if !added {
			s.log.WithFields(log.Fields{"command": cmd.ID, "type": cmd.Type}).Debug("duplicate command skipped")
			resp.IdempotencyKeys = append(resp.IdempotencyKeys, keys[i])
			resp.TaskIDs = append(resp.TaskIDs, cmd.TaskID)
			resp.Skipped = append(resp.Skipped, keys[i])
			continue
		}
		id, err := board.Apply(ctx, s.store, cmd)
		if err != nil {
			if rerr := s.deduper.Remove(ctx, cmd.ID); rerr != nil {
				s.log.WithError(rerr).WithField("command", cmd.ID).Warn("release idempotency key")
			}
			s.log.WithFields(log.Fields{"command": cmd.ID, "type": cmd.Type, "index": i}).WithError(err).Warn("command rejected")
			return resp, fmt.Errorf("command %d: %w", i, err)
		}
		resp.IdempotencyKeys = append(resp.IdempotencyKeys, keys[i])
		resp.TaskIDs = append(resp.TaskIDs, id)
	}
	return resp, nil
}

// readTarget decodes a drag target. An empty body yields nil.
func readTarget(c echo.Context) (*drag.Target, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, dragBodyMaxSize))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var body struct {
		TaskID string `json:"taskId"`
		Column string `json:"column"`
	}
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	t := &drag.Target{TaskID: body.TaskID}
	if body.Column != "" {
		st, err := domain.ParseStatus(body.Column)
		if err != nil {
			return nil, err
		}
		t.Column = st
	}
	if t.TaskID == "" && t.Column == "" {
		return nil, errEmptyTarget
	}
	return t, nil
}

func (s *server) dragStart(c echo.Context) error {
	metrics := metricsFrom(c)
	target, err := readTarget(c)
	if err != nil || target == nil || target.TaskID == "" {
		metrics.SetErrorStage("decode")
		return c.String(http.StatusBadRequest, "taskId is required")
	}
	s.mu.Lock()
	started := s.drag.Start(c.Request().Context(), target.TaskID)
	resp := newDragResponse(s.drag)
	s.mu.Unlock()
	resp.Started = started
	return c.JSON(http.StatusOK, resp)
}

func (s *server) dragOver(c echo.Context) error {
	metrics := metricsFrom(c)
	target, err := readTarget(c)
	if err != nil || target == nil {
		metrics.SetErrorStage("decode")
		return c.String(http.StatusBadRequest, "invalid target")
	}
	s.mu.Lock()
	s.drag.Over(c.Request().Context(), *target)
	resp := newDragResponse(s.drag)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, resp)
}

func (s *server) dragDrop(c echo.Context) error {
	metrics := metricsFrom(c)
	target, err := readTarget(c)
	if err != nil {
		metrics.SetErrorStage("decode")
		return c.String(http.StatusBadRequest, "invalid target")
	}
	s.mu.Lock()
	out := s.drag.Drop(c.Request().Context(), target)
	resp := newDragResponse(s.drag)
	s.mu.Unlock()
	resp.Outcome = out.String()
	return c.JSON(http.StatusOK, resp)
}

func (s *server) dragCancel(c echo.Context) error {
	s.mu.Lock()
	s.drag.Cancel()
	resp := newDragResponse(s.drag)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, resp)
}

// streamBoard sends the board as an SSE frame on connect and again after
// every committed mutation.
func (s *server) streamBoard(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}
	ctx := c.Request().Context()
	ch, unsubscribe := s.store.Subscribe()
	defer unsubscribe()
	c.Response().WriteHeader(http.StatusOK)
	for {
		data, err := sonic.Marshal(s.snapshot())
		if err != nil {
			s.log.WithError(err).Error("encode board frame")
			return err
		}
		if _, err := c.Response().Write([]byte("data: ")); err != nil {
			return err
		}
		if _, err := c.Response().Write(data); err != nil {
			return err
		}
		if _, err := c.Response().Write([]byte("\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			continue
		}
	}
}
