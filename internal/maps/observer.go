package maps

import (
	"context"
	"log/slog"
)

// CallEvent records metadata about a single maps-service call.
type CallEvent struct {
	Op        string
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about maps calls for logging and metrics.
type Observer interface {
	OnCallComplete(ctx context.Context, event CallEvent)
}

// SlogObserver logs every call; failures at warn level.
type SlogObserver struct {
	log *slog.Logger
}

// NewSlogObserver creates an Observer that writes to log.
func NewSlogObserver(log *slog.Logger) *SlogObserver {
	return &SlogObserver{log: log}
}

func (o *SlogObserver) OnCallComplete(ctx context.Context, e CallEvent) {
	level := slog.LevelDebug
	if !e.Success {
		level = slog.LevelWarn
	}
	o.log.Log(ctx, level, "maps call",
		"op", e.Op,
		"attempts", e.Attempts,
		"latency_ms", e.LatencyMs,
		"success", e.Success,
		"error_code", e.ErrorCode,
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(context.Context, CallEvent) {}
