package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/google/uuid"
)

// Machine is what the Runner drives: the root mealy.Engine satisfies it.
type Machine interface {
	Run(ctx context.Context, line string) (*domain.Result, error)
	Table() *domain.Table
}

// Runner handles the line loop using the provided IOHandler.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on the process streams.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store persists each run. If nil, runs are not kept.
	Store ports.RunStore

	// NewID generates run IDs.
	NewID func() string

	// FailFast stops the loop at the first stuck line.
	FailFast bool
}

// Stats summarises a loop.
type Stats struct {
	Lines     int `json:"lines"`
	Succeeded int `json:"succeeded"`
	Stuck     int `json:"stuck"`
	Skipped   int `json:"skipped"`
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil, nil)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.NewID == nil {
		r.NewID = uuid.NewString
	}
	return r
}

// Run reads lines until the handler reports io.EOF or ctx is cancelled.
//
// Every line is run from the initial state. A stuck line is reported and the
// loop moves on, unless FailFast is set, in which case the StuckError is
// returned. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context, m Machine) (Stats, error) {
	var stats Stats
	table := m.Table().Name()

	for {
		if ctx.Err() != nil {
			return stats, nil
		}

		line, err := r.Handler.Input(ctx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			r.Logger.Debug("Input exhausted", "lines", stats.Lines)
			return stats, nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return stats, nil
		case errors.Is(err, domain.ErrLineTooLong):
			r.Logger.Warn("Line too long", "err", err)
			if rerr := r.Handler.Report(ctx, err); rerr != nil {
				return stats, fmt.Errorf("report error: %w", rerr)
			}
			if line == "" {
				stats.Skipped++
				if s, ok := r.Handler.(Skipper); ok {
					if err := s.Skip(ctx); err != nil {
						return stats, fmt.Errorf("output error: %w", err)
					}
				}
				continue
			}
		default:
			return stats, fmt.Errorf("input error: %w", err)
		}

		stats.Lines++
		res, runErr := m.Run(ctx, line)
		rec := domain.NewRunRecord(r.NewID(), table, line, res, runErr)

		if runErr != nil {
			stats.Stuck++
			r.Logger.Debug("Line stuck", "id", rec.ID, "state", rec.State, "position", rec.Position)
		} else {
			stats.Succeeded++
		}

		if r.Store != nil {
			if err := r.Store.Save(ctx, rec); err != nil {
				r.Logger.Error("Failed to save run", "id", rec.ID, "err", err)
			}
		}

		if err := r.Handler.Output(ctx, rec); err != nil {
			return stats, fmt.Errorf("output error: %w", err)
		}

		if runErr != nil && r.FailFast {
			return stats, runErr
		}
	}
}
