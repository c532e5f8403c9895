package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/mealy"
	"github.com/aretw0/mealy/internal/presentation/tui"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/aretw0/mealy/pkg/runner"
	"github.com/aretw0/mealy/pkg/trace"
)

// Execute runs the line loop described by opts until input is exhausted or
// ctx is cancelled.
func Execute(ctx context.Context, opts RunOptions) (runner.Stats, error) {
	logger := createLogger(opts.Debug)
	stdin, stdout, stderr := opts.streams()
	opts.Store.FromEnv()

	table, err := resolveTable(opts.TableOptions, logger)
	if err != nil {
		return runner.Stats{}, err
	}

	interactive := opts.Interactive
	if !opts.ForceInteractive {
		interactive = !opts.JSON && isTerminal(stdin)
	}

	engine, err := createEngine(table, createTracer(opts, interactive, stderr), opts.Debug, logger)
	if err != nil {
		return runner.Stats{}, err
	}

	store, closeStore, err := openStore(opts.Store, logger)
	if err != nil {
		return runner.Stats{}, err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close store", "err", err)
		}
	}()

	limit, policy := lineLimit(opts.MaxLine, opts.RejectLong)
	logger.Debug("Line limit", "limit", limit, "policy", policy.String())

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(stdin, stdout, runner.WithJSONLineLimit(limit, policy))
	} else {
		textOpts := []runner.TextHandlerOption{
			runner.WithInteractive(interactive),
			runner.WithLineLimit(limit, policy),
		}
		if interactive {
			textOpts = append(textOpts, runner.WithErrorFormatter(tui.FormatError))
		}
		handler = runner.NewTextHandler(stdin, stdout, stderr, textOpts...)
	}

	if interactive {
		tui.PrintBanner(stdout, mealy.Version)
		printSystemMessage(stdout, "Table '%s' ready at state '%s'.", displayName(table), table.Initial())
	}

	runnerOpts := []runner.Option{
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
		runner.WithFailFast(opts.FailFast),
	}
	if store != nil {
		runnerOpts = append(runnerOpts, runner.WithStore(store))
	}

	stats, err := runner.NewRunner(runnerOpts...).Run(ctx, engine)
	logger.Info("Loop finished",
		"lines", stats.Lines,
		"succeeded", stats.Succeeded,
		"stuck", stats.Stuck,
		"skipped", stats.Skipped,
	)

	if interactive {
		if sc, ok := ctx.(*SignalContext); ok && sc.Signal() != nil {
			fmt.Fprintln(stdout)
			printSystemMessage(stdout, "Interrupted after %d line(s).", stats.Lines)
		}
	}
	return stats, handleExecutionError(err)
}

// createTracer returns the stderr tracer for text mode, or nil when tracing is
// off or carried by the JSON results.
func createTracer(opts RunOptions, interactive bool, stderr io.Writer) ports.Tracer {
	if opts.JSON || opts.NoTrace {
		return nil
	}
	if interactive {
		return trace.Func(func(from, to domain.State) {
			fmt.Fprintln(stderr, tui.FormatTrace(fmt.Sprintf("%s -> %s", from, to)))
		})
	}
	return trace.NewWriter(stderr)
}

func lineLimit(maxLine int, reject bool) (int, runner.LinePolicy) {
	limit := maxLine
	if limit <= 0 {
		limit = runner.MaxLineLength()
	}
	policy := runner.Truncate
	if reject {
		policy = runner.Reject
	}
	return limit, policy
}

func displayName(t *domain.Table) string {
	if t.Name() == "" {
		return "(unnamed)"
	}
	return t.Name()
}
