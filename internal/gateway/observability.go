package gateway

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single gateway round trip.
type CallEvent struct {
	Operation     string
	WorkOrderID   int64
	CorrelationID string
	LatencyMs     int64
	Success       bool
	ErrorCode     string
}

// Observer receives events about gateway calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes gateway call events to the provided writer.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"op", event.Operation,
		"work_order_id", event.WorkOrderID,
		"correlation_id", event.CorrelationID,
		"latency_ms", event.LatencyMs,
		"success", event.Success,
	}
	if event.ErrorCode != "" {
		attrs = append(attrs, "error_code", event.ErrorCode)
		o.logger.Error("gateway_call", attrs...)
		return
	}
	o.logger.Info("gateway_call", attrs...)
}
