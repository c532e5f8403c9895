package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep     EventType = "step"
	EventStuck    EventType = "stuck"
	EventRunStart EventType = "run_start"
	EventRunEnd   EventType = "run_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Table     string    `json:"table"`
}

// StepEvent is emitted for every transition taken.
type StepEvent struct {
	EventBase
	TraceEntry
}

// RunEvent is emitted when a run starts and when it ends.
type RunEvent struct {
	EventBase
	Input   string        `json:"input"`
	Steps   int           `json:"steps"`
	Final   State         `json:"final"`
	Err     error         `json:"-"`
	Elapsed time.Duration `json:"elapsed"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnStuck    func(context.Context, *RunEvent)
	OnRunEnd   func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chainRun(h.OnRunStart, other.OnRunStart),
		OnStep:     chainStep(h.OnStep, other.OnStep),
		OnStuck:    chainRun(h.OnStuck, other.OnStuck),
		OnRunEnd:   chainRun(h.OnRunEnd, other.OnRunEnd),
	}
}

func chainRun(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainStep(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
