package intake

import (
	"context"
	"log/slog"
	"time"
)

// TurnEvent captures telemetry for one conversational turn.
type TurnEvent struct {
	SessionID string
	Kind      ReplyKind
	Duration  time.Duration
	Mutated   bool
	Err       error
}

// Observer receives turn events.
type Observer interface {
	ObserveTurn(ctx context.Context, event TurnEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveTurn(context.Context, TurnEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes turn events to logger.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) ObserveTurn(ctx context.Context, event TurnEvent) {
	attrs := []any{
		"session_id", event.SessionID,
		"kind", string(event.Kind),
		"duration_ms", event.Duration.Milliseconds(),
		"mutated", event.Mutated,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "intake_turn", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "intake_turn", attrs...)
}

// Observers fans a turn event out to several observers.
type Observers []Observer

func (m Observers) ObserveTurn(ctx context.Context, event TurnEvent) {
	for _, o := range m {
		if o != nil {
			o.ObserveTurn(ctx, event)
		}
	}
}
