package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	httpAdapter "github.com/aretw0/mealy/pkg/adapters/http"
	"github.com/aretw0/mealy/pkg/adapters/mcp"
	"github.com/aretw0/mealy/pkg/observability"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// NewAPIHandler wires the HTTP API: loader, store, metrics registry and
// lifecycle hooks. With opts.Watch the directory is watched until ctx is done.
// The returned close function releases the store.
func NewAPIHandler(ctx context.Context, opts ServeOptions) (http.Handler, func() error, error) {
	logger := createLogger(opts.Debug)
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	opts.Store.FromEnv()
	if opts.Store.Kind == StoreNone {
		opts.Store.Kind = StoreMemory
	}

	loader, err := newLoader(opts.Dir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading tables: %w", err)
	}
	if opts.Watch {
		if err := startWatch(ctx, loader, opts.Dir, stdout); err != nil {
			return nil, nil, err
		}
	}

	store, closeStore, err := openStore(opts.Store, logger)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(observability.LogHooks(logger))
	}

	serverOpts := []httpAdapter.Option{
		httpAdapter.WithStore(store),
		httpAdapter.WithLifecycleHooks(hooks),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithLogger(logger),
	}
	if opts.MaxLine > 0 {
		serverOpts = append(serverOpts, httpAdapter.WithMaxLine(opts.MaxLine))
	}
	return httpAdapter.NewHandler(loader, serverOpts...), closeStore, nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := createLogger(opts.Debug)
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	handler, closeStore, err := NewAPIHandler(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close store", "err", err)
		}
	}()

	port := opts.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(stdout, "Starting mealy server on %s", srv.Addr)
		if opts.Dir != "" {
			printSystemMessage(stdout, "Serving tables from: %s", opts.Dir)
		}
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		if sc, ok := ctx.(*SignalContext); ok && sc.Signal() != nil {
			printSystemMessage(stdout, "Start shutdown... Signal: %v", sc.Signal())
		}

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(stdout, "Server stopped gracefully")
		return nil
	}
}

// startWatch reloads the served tables on change and reports each reload.
func startWatch(ctx context.Context, loader ports.TableLoader, dir string, stdout io.Writer) error {
	if dir == "" {
		return errors.New("--watch requires --dir")
	}
	watchable, ok := loader.(ports.Watchable)
	if !ok {
		return errors.New("loader does not support watching")
	}
	changes, err := watchable.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	go func() {
		for range changes {
			printSystemMessage(stdout, "Tables reloaded from %s", dir)
		}
	}()
	return nil
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Dir       string
	Transport string
	Port      int
	Debug     bool
	Store     StoreOptions
}

// ServeMCP runs the MCP server on stdio or SSE.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	logger := createLogger(opts.Debug)
	opts.Store.FromEnv()

	loader, err := newLoader(opts.Dir, logger)
	if err != nil {
		return fmt.Errorf("error loading tables: %w", err)
	}
	store, closeStore, err := openStore(opts.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	mcpOpts := []mcp.Option{mcp.WithLogger(logger)}
	if store != nil {
		mcpOpts = append(mcpOpts, mcp.WithStore(store))
	}
	if opts.Debug {
		mcpOpts = append(mcpOpts, mcp.WithLifecycleHooks(observability.LogHooks(logger)))
	}
	srv := mcp.NewServer(loader, mcpOpts...)

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting mealy MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting mealy MCP server (SSE)", "port", opts.Port)
		return srv.ServeSSE(ctx, opts.Port)
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
