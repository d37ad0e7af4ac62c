package llm

import (
	"context"
	"log/slog"
)

// LLMCallEvent describes one finished backend call.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer is notified after every backend call, successful or not.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

// OnCallComplete logs successful calls at info and failed ones at warn.
func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []slog.Attr{
		slog.String("task", string(event.Task)),
		slog.String("model", event.Model),
		slog.Int64("latency_ms", event.LatencyMs),
	}
	if event.Success {
		o.logger.LogAttrs(context.Background(), slog.LevelInfo, "llm call", attrs...)
		return
	}
	attrs = append(attrs, slog.String("error_code", event.ErrorCode))
	o.logger.LogAttrs(context.Background(), slog.LevelWarn, "llm call failed", attrs...)
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}

// NoopObserver discards events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
