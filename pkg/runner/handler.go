package runner

import (
	"context"

	"github.com/aretw0/mealy/pkg/domain"
)

// IOHandler defines the strategy for exchanging lines with the outside world.
// This allows switching between Text (CLI) and JSON (structured) modes.
type IOHandler interface {
	// Input returns the next line to run. io.EOF ends the loop. An error
	// wrapping domain.ErrLineTooLong is reported and, when the line is
	// not empty, the line is still run.
	Input(ctx context.Context) (string, error)

	// Output presents the outcome of one line. rec.Error is set when the
	// machine got stuck; the partial output is still part of rec.Result.
	Output(ctx context.Context, rec *domain.RunRecord) error

	// Report presents a diagnostic that is not tied to a run.
	Report(ctx context.Context, err error) error
}

// Skipper is implemented by handlers that mark a rejected line on their
// output, keeping output lines aligned with input lines.
type Skipper interface {
	Skip(ctx context.Context) error
}
