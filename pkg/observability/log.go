package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/mealy/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every event: steps at debug
// level, stuck runs as warnings.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run_start", "table", e.Table, "input", e.Input)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"table", e.Table,
				"from", e.From,
				"to", e.To,
				"input", e.Input,
				"output", e.Output,
				"position", e.Position,
			)
		},
		OnStuck: func(ctx context.Context, e *domain.RunEvent) {
			logger.WarnContext(ctx, "run_stuck", "table", e.Table, "state", e.Final, "err", e.Err)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run_end",
				"table", e.Table,
				"steps", e.Steps,
				"final", e.Final,
				"elapsed", e.Elapsed,
			)
		},
	}
}
