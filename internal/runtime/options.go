package runtime

import (
	"log/slog"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTracer sets the sink that receives one record per transition.
func WithTracer(t ports.Tracer) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}
