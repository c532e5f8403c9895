package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/mealy"
	"github.com/aretw0/mealy/pkg/adapters/file"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/observability"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/aretw0/mealy/pkg/tables"
)

// resolveTable finds the table selected by opts.
//
// Order: an explicit file, then a table of that name in the directory, then a
// builtin table. With a directory and no name, the entry point convention of
// determineEntryPoint applies.
func resolveTable(opts TableOptions, logger *slog.Logger) (*domain.Table, error) {
	if opts.File != "" {
		t, err := file.LoadTable(opts.File)
		if err != nil {
			return nil, fmt.Errorf("error loading table: %w", err)
		}
		return t, nil
	}

	name := opts.Table
	if opts.Dir != "" {
		if name == "" {
			name = determineEntryPoint(opts.Dir)
		}
		if name != "" {
			if path, ok := findTableFile(opts.Dir, name); ok {
				logger.Debug("Loading table file", "path", path)
				t, err := file.LoadTable(path)
				if err != nil {
					return nil, fmt.Errorf("error loading table: %w", err)
				}
				return t, nil
			}
		}
	}

	if name == "" {
		return nil, errors.New("no table selected: use --table or --file")
	}
	t, ok := tables.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (builtin: %v)", domain.ErrTableNotFound, name, tables.Names())
	}
	return t, nil
}

// createEngine initializes an engine with standard CLI conventions.
func createEngine(table *domain.Table, tracer ports.Tracer, debug bool, logger *slog.Logger) (*mealy.Engine, error) {
	engineOpts := []mealy.Option{
		mealy.WithLogger(logger),
	}
	if tracer != nil {
		engineOpts = append(engineOpts, mealy.WithTracer(tracer))
	}
	if debug {
		engineOpts = append(engineOpts, mealy.WithLifecycleHooks(observability.LogHooks(logger)))
	}

	engine, err := mealy.New(table, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// newLoader returns the directory loader when dir is set, the builtins otherwise.
func newLoader(dir string, logger *slog.Logger) (ports.TableLoader, error) {
	if dir == "" {
		return tables.Loader(), nil
	}
	loader, err := file.NewLoader(dir, file.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return loader, nil
}

// determineEntryPoint picks the default table of a directory:
// "main", then a table named like the directory, then the only table present.
func determineEntryPoint(dir string) string {
	candidates := []string{"main", filepath.Base(filepath.Clean(dir))}
	for _, name := range candidates {
		if _, ok := findTableFile(dir, name); ok {
			return name
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var only string
	for _, e := range entries {
		if e.IsDir() || !file.IsTableFile(e.Name()) {
			continue
		}
		if only != "" {
			return ""
		}
		only = file.TableName(e.Name())
	}
	return only
}

// findTableFile checks if a table exists as a file in the directory.
func findTableFile(dir, name string) (string, bool) {
	for _, ext := range file.Extensions {
		path := filepath.Join(dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
