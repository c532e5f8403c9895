package runtime

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
)

// Engine drives input lines through a transition table.
// The table is shared read-only, so one Engine may serve concurrent runs
// as long as its tracer and hooks tolerate concurrent calls.
type Engine struct {
	table  *domain.Table
	tracer ports.Tracer
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// NewEngine creates a new engine for table.
func NewEngine(table *domain.Table, opts ...EngineOption) *Engine {
	e := &Engine{
		table:  table,
		tracer: ports.NopTracer{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the table the engine runs.
func (e *Engine) Table() *domain.Table {
	return e.table
}

// Run consumes line symbol by symbol starting from the initial state.
//
// On success it returns the accumulated output and trace. When no transition
// applies it stops and returns the partial result together with a
// *domain.StuckError; the run is never retried.
func (e *Engine) Run(ctx context.Context, line string) (*domain.Result, error) {
	started := time.Now()
	name := e.table.Name()
	e.emitRun(ctx, e.hooks.OnRunStart, domain.EventRunStart, line, nil, nil, started)

	var out strings.Builder
	res := &domain.Result{Final: e.table.Initial()}
	state := e.table.Initial()
	cursor := 0

	for cursor < len(line) {
		t, ok := Match(e.table, state, line[cursor:])
		if !ok {
			res.Output = out.String()
			res.Final = state
			res.Consumed = cursor
			err := &domain.StuckError{State: state, Position: cursor, Remaining: line[cursor:]}
			e.logger.Debug("Run stuck", "table", name, "state", state, "position", cursor)
			e.emitRun(ctx, e.hooks.OnStuck, domain.EventStuck, line, res, err, started)
			e.emitRun(ctx, e.hooks.OnRunEnd, domain.EventRunEnd, line, res, err, started)
			return res, err
		}

		entry := domain.TraceEntry{
			From:     state,
			To:       t.To,
			Input:    t.Input,
			Output:   t.Output,
			Position: cursor,
		}
		e.tracer.Record(state, t.To)
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, Table: name},
				TraceEntry: entry,
			})
		}
		res.Trace = append(res.Trace, entry)
		out.WriteString(t.Output)

		state = t.To
		cursor += len(t.Input)
	}

	res.Output = out.String()
	res.Final = state
	res.Consumed = cursor
	e.logger.Debug("Run complete", "table", name, "steps", len(res.Trace), "final", state)
	e.emitRun(ctx, e.hooks.OnRunEnd, domain.EventRunEnd, line, res, nil, started)
	return res, nil
}

func (e *Engine) emitRun(ctx context.Context, hook func(context.Context, *domain.RunEvent), typ domain.EventType, line string, res *domain.Result, err error, started time.Time) {
	if hook == nil {
		return
	}
	ev := &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, Table: e.table.Name()},
		Input:     line,
		Final:     e.table.Initial(),
		Err:       err,
		Elapsed:   time.Since(started),
	}
	if res != nil {
		ev.Steps = len(res.Trace)
		ev.Final = res.Final
	}
	hook(ctx, ev)
}
