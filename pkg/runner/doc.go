/*
Package runner implements the line loop around an engine.

It reads one line at a time from a handler, runs it from the initial state,
hands the outcome back to the handler and optionally persists it as a
domain.RunRecord. Each line completes before the next one is read.

# Key Components

  - Runner: the loop itself.
  - LineReader: bounded line reading with a truncate or reject policy.
  - TextHandler: plain output on stdout, diagnostics on stderr, "> " prompt when interactive.
  - JSONHandler: one JSON object in and out per line (NDJSON).

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout, os.Stderr)),
		runner.WithStore(store),
	)

	stats, err := r.Run(ctx, engine)
*/
package runner
