package storage

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "taskboard/storage"

// mutationOp records one store mutation as a span and a debug log entry.
type mutationOp struct {
	name   string
	start  time.Time
	span   trace.Span
	logger *log.Logger
}

func (s *Store) begin(ctx context.Context, name string) *mutationOp {
	_, span := otel.Tracer(tracerName).Start(ctx, "board."+name, trace.WithSpanKind(trace.SpanKindInternal))
	return &mutationOp{name: name, start: time.Now(), span: span, logger: s.log}
}

func (m *mutationOp) end(id string, changed bool) {
	m.span.SetAttributes(
		attribute.String("board.task_id", id),
		attribute.Bool("board.changed", changed),
	)
	m.span.End()
	if m.logger == nil {
		return
	}
	m.logger.WithFields(log.Fields{
		"op":      m.name,
		"task":    id,
		"changed": changed,
		"took_ms": float64(time.Since(m.start)) / float64(time.Millisecond),
	}).Debug("board.mutation")
}

func (m *mutationOp) missing(id string) {
	m.span.SetAttributes(
		attribute.String("board.task_id", id),
		attribute.Bool("board.task_found", false),
	)
	m.span.End()
	if m.logger == nil {
		return
	}
	m.logger.WithFields(log.Fields{"op": m.name, "task": id}).Debug("board.mutation skipped: task not found")
}
