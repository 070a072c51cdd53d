package session

import (
	"io"
	"log/slog"
	"time"
)

// CommandEvent records one Execute call.
type CommandEvent struct {
	Command Command
	State   State
	Dirty   bool
	Err     error
}

// OutcomeEvent records one resolved gateway completion.
type OutcomeEvent struct {
	Op      string
	State   State
	Latency time.Duration
	Err     error
}

// Observer receives session telemetry.
type Observer interface {
	Observe(event any)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) Observe(any) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes session events to the provided writer.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) Observe(event any) {
	switch e := event.(type) {
	case CommandEvent:
		attrs := []any{
			"command", commandName(e.Command),
			"state", e.State.String(),
			"dirty", e.Dirty,
		}
		if e.Err != nil {
			attrs = append(attrs, "error", e.Err.Error())
			o.logger.Warn("session_command", attrs...)
			return
		}
		o.logger.Info("session_command", attrs...)
	case OutcomeEvent:
		attrs := []any{
			"op", e.Op,
			"state", e.State.String(),
			"latency_ms", e.Latency.Milliseconds(),
			"success", e.Err == nil,
		}
		if e.Err != nil {
			attrs = append(attrs, "error", e.Err.Error())
			o.logger.Error("session_outcome", attrs...)
			return
		}
		o.logger.Info("session_outcome", attrs...)
	}
}

func commandName(c Command) string {
	switch c.(type) {
	case EnterEdit:
		return "enter_edit"
	case CancelEdit:
		return "cancel_edit"
	case EditField:
		return "edit_field"
	case RenameArea:
		return "rename_area"
	case RequestDelete:
		return "request_delete"
	case ConfirmDelete:
		return "confirm_delete"
	case DismissDelete:
		return "dismiss_delete"
	case MoveArea:
		return "move_area"
	case MoveLineItem:
		return "move_line_item"
	case CommitReorder:
		return "commit_reorder"
	case SaveAll:
		return "save_all"
	case Reload:
		return "reload"
	default:
		return "unknown"
	}
}

func observerOrNoop(observers []Observer) Observer {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopObserver{}
}
