package mealy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/mealy/internal/runtime"
	"github.com/aretw0/mealy/internal/validator"
	"github.com/aretw0/mealy/pkg/adapters/file"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/aretw0/mealy/pkg/tables"
)

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and binds it to a single table.
type Engine struct {
	runtime *runtime.Engine
	table   *domain.Table
	tracer  ports.Tracer
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithTracer sets the sink that receives one record per transition.
func WithTracer(t ports.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates an engine for an already validated table.
func New(table *domain.Table, opts ...Option) (*Engine, error) {
	if table == nil {
		return nil, errors.New("table is required")
	}

	eng := &Engine{table: table, Name: table.Name()}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("table", eng.Name)
	}

	eng.runtime = runtime.NewEngine(table,
		runtime.WithTracer(eng.tracer),
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng, nil
}

// Open loads a table file (.fsm, .yaml, .yml or .json) and creates an engine for it.
func Open(path string, opts ...Option) (*Engine, error) {
	table, err := file.LoadTable(path)
	if err != nil {
		return nil, err
	}
	return New(table, opts...)
}

// Builtin creates an engine for one of the reference tables.
func Builtin(name string, opts ...Option) (*Engine, error) {
	table, ok := tables.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, name)
	}
	return New(table, opts...)
}

// Run consumes one line from the initial state.
// When the machine gets stuck the partial result is returned with a *domain.StuckError.
func (e *Engine) Run(ctx context.Context, line string) (*domain.Result, error) {
	return e.runtime.Run(ctx, line)
}

// Table returns the table the engine runs.
func (e *Engine) Table() *domain.Table {
	return e.table
}

// Inspect returns the table definition, for tooling and introspection.
func (e *Engine) Inspect() domain.Definition {
	return e.table.Definition()
}

// Analyze reports completeness, reachability and shadowing of the table.
func (e *Engine) Analyze() validator.Report {
	return validator.Analyze(e.table)
}
