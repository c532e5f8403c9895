package runner

import (
	"log/slog"

	"github.com/aretw0/mealy/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore persists one domain.RunRecord per line.
func WithStore(store ports.RunStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithIDGenerator replaces the run ID generator (random UUIDs by default).
func WithIDGenerator(next func() string) Option {
	return func(r *Runner) {
		r.NewID = next
	}
}

// WithFailFast stops the loop at the first line that gets stuck.
func WithFailFast(failFast bool) Option {
	return func(r *Runner) {
		r.FailFast = failFast
	}
}
