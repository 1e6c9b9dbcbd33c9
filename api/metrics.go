package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName        = "taskboard/api"
	metricsContextKey = "board.request.metrics"
	requestEventName  = "board.request.metrics"
)

type requestMetrics struct {
	logger         *log.Logger
	span           trace.Span
	route          string
	method         string
	start          time.Time
	applyDuration  time.Duration
	encodeDuration time.Duration
	commands       int
	tasksReturned  int
	errorStage     string
}

func newRequestMetrics(ctx context.Context, logger *log.Logger, method, route string) (*requestMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.request.method", method),
		),
	)
	return &requestMetrics{
		logger: logger,
		span:   span,
		route:  route,
		method: method,
		start:  time.Now(),
	}, spanCtx
}

func (m *requestMetrics) ObserveApply(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.applyDuration = duration
}

func (m *requestMetrics) ObserveEncode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.encodeDuration = duration
}

func (m *requestMetrics) SetCommands(count int) {
	if count < 0 {
		count = 0
	}
	m.commands = count
}

func (m *requestMetrics) SetTasksReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.tasksReturned = count
}

func (m *requestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log ends the request span and writes one structured entry for it.
func (m *requestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	total := time.Since(m.start)
	severity, _ := severityForStatus(status, err)

	attrs := []attribute.KeyValue{
		attribute.String("http.route", m.route),
		attribute.Int("http.response.status_code", status),
		attribute.Float64("board.request.total_ms", durationToMillis(total)),
		attribute.String("severity_text", severity),
	}
	fields := log.Fields{
		"route":    m.route,
		"method":   m.method,
		"status":   status,
		"total_ms": durationToMillis(total),
	}
	if m.applyDuration > 0 {
		fields["apply_ms"] = durationToMillis(m.applyDuration)
		attrs = append(attrs, attribute.Float64("board.request.apply_ms", durationToMillis(m.applyDuration)))
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
		attrs = append(attrs, attribute.Float64("board.request.encode_ms", durationToMillis(m.encodeDuration)))
	}
	if m.commands > 0 {
		fields["commands"] = m.commands
		attrs = append(attrs, attribute.Int("board.request.commands", m.commands))
	}
	if m.tasksReturned > 0 {
		fields["tasks_returned"] = m.tasksReturned
		attrs = append(attrs, attribute.Int("board.request.tasks_returned", m.tasksReturned))
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
		attrs = append(attrs, attribute.String("board.request.error_stage", m.errorStage))
	}
	if err != nil {
		fields["error"] = err.Error()
		attrs = append(attrs, attribute.String("error.message", err.Error()))
	}

	if m.span != nil {
		m.span.AddEvent(requestEventName, trace.WithAttributes(attrs...))
		switch {
		case err != nil:
			m.span.RecordError(err)
			m.span.SetStatus(codes.Error, err.Error())
		case status >= http.StatusInternalServerError:
			m.span.SetStatus(codes.Error, http.StatusText(status))
		}
		m.span.SetAttributes(attribute.Int("http.response.status_code", status))
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	entry := m.logger.WithFields(fields)
	switch severity {
	case "ERROR":
		entry.Error(requestEventName)
	case "WARN":
		entry.Warn(requestEventName)
	default:
		entry.Info(requestEventName)
	}
}

// severityForStatus maps a response to an OpenTelemetry severity text and
// number.
func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
