package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/mealy/internal/presentation/graph"
	"github.com/aretw0/mealy/internal/presentation/tui"
	"github.com/aretw0/mealy/internal/validator"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/dsl"
	"github.com/aretw0/mealy/pkg/tables"
)

// ErrIncomplete is returned by Validate in strict mode when analysis finds
// warnings.
var ErrIncomplete = errors.New("table has warnings")

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	TableOptions
	Strict bool
	// Render turns the markdown report into terminal output. Nil prints
	// the plain warnings instead.
	Render tui.Renderer
	Debug  bool
}

// Validate loads the table (which fails on structural errors) and prints the
// completeness analysis.
func Validate(w io.Writer, opts ValidateOptions) error {
	logger := createLogger(opts.Debug)
	table, err := resolveTable(opts.TableOptions, logger)
	if err != nil {
		return err
	}

	report := validator.Analyze(table)
	if opts.Render != nil {
		out, err := opts.Render(report.Markdown())
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		fmt.Fprint(w, out)
	} else {
		fmt.Fprintf(w, "%s: %d states, %d symbols, %d transitions\n",
			displayName(table), len(report.States), len(report.Alphabet), report.Transitions)
		for _, warning := range report.Warnings() {
			fmt.Fprintf(w, "warning: %s\n", warning)
		}
		if report.Clean() {
			fmt.Fprintln(w, "ok")
		}
	}

	if opts.Strict && !report.Clean() {
		return fmt.Errorf("%w: %d warning(s)", ErrIncomplete, len(report.Warnings()))
	}
	return nil
}

// GraphOptions configures the graph command.
type GraphOptions struct {
	TableOptions
	Format string
	// Input, when set, is run and overlaid on the diagram.
	Input string
	Debug bool
}

// Graph writes the table diagram in Mermaid or Graphviz dot syntax.
func Graph(ctx context.Context, w io.Writer, opts GraphOptions) error {
	logger := createLogger(opts.Debug)
	table, err := resolveTable(opts.TableOptions, logger)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if opts.Input != "" {
		engine, err := createEngine(table, nil, opts.Debug, logger)
		if err != nil {
			return err
		}
		res, runErr := engine.Run(ctx, opts.Input)
		var stuck *domain.StuckError
		if runErr != nil && !errors.As(runErr, &stuck) {
			return runErr
		}
		overlay = graph.OverlayFromResult(table, res)
	}

	switch strings.ToLower(opts.Format) {
	case "", "mermaid":
		fmt.Fprint(w, graph.GenerateMermaid(table, overlay))
	case "dot":
		fmt.Fprint(w, graph.GenerateDot(table, overlay))
	default:
		return fmt.Errorf("unknown graph format %q (want mermaid or dot)", opts.Format)
	}
	return nil
}

// ShowOptions configures the tables command.
type ShowOptions struct {
	Dir    string
	Format string
	Debug  bool
}

// ListTables writes the available table names, one per line.
func ListTables(w io.Writer, opts ShowOptions) error {
	loader, err := newLoader(opts.Dir, createLogger(opts.Debug))
	if err != nil {
		return err
	}
	names, err := loader.ListTables()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

// ShowTable writes one table in the line format, YAML or JSON.
func ShowTable(w io.Writer, name string, opts ShowOptions) error {
	loader, err := newLoader(opts.Dir, createLogger(opts.Debug))
	if err != nil {
		return err
	}
	table, err := loader.GetTable(name)
	if err != nil {
		return err
	}

	switch strings.ToLower(opts.Format) {
	case "", "fsm":
		if opts.Dir == "" {
			if src, ok := tables.Source(name); ok {
				fmt.Fprint(w, src)
				return nil
			}
		}
		return dsl.Write(w, table)
	case "yaml", "yml":
		data, err := dsl.MarshalYAML(table)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table.Definition())
	default:
		return fmt.Errorf("unknown table format %q (want fsm, yaml or json)", opts.Format)
	}
}
