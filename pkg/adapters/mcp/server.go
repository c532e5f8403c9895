// Package mcp exposes tables as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/mealy"
	"github.com/aretw0/mealy/internal/presentation/graph"
	"github.com/aretw0/mealy/internal/validator"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/dsl"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/aretw0/mealy/pkg/runner"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TablesURI is the resource listing every table.
const TablesURI = "mealy://tables"

// Server exposes the tables of a loader as MCP tools.
type Server struct {
	loader    ports.TableLoader
	store     ports.RunStore
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	maxLine   int
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithStore persists every run_table call.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLifecycleHooks registers hooks on every engine the server creates.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(loader ports.TableLoader, opts ...Option) *Server {
	s := &Server{
		loader:    loader,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxLine:   runner.MaxLineLength(),
		mcpServer: server.NewMCPServer("mealy-mcp", strings.TrimSpace(mealy.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the protocol over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the names of the transition tables that can be run."),
	), s.handleListTables)

	s.mcpServer.AddTool(mcp.NewTool("describe_table",
		mcp.WithDescription("Describe a transition table: its source, a diagram or a completeness analysis."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Table name")),
		mcp.WithString("format", mcp.Description("One of fsm (default), json, yaml, mermaid, dot or analysis")),
	), s.handleDescribeTable)

	s.mcpServer.AddTool(mcp.NewTool("run_table",
		mcp.WithDescription("Run one input line through a table from its initial state and return the output and the state trace."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Table name")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input line, a concatenation of input symbols")),
		mcp.WithOutputSchema[runner.JSONResult](),
	), mcp.NewStructuredToolHandler(s.handleRunTable))
}

func (s *Server) handleListTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.loader.ListTables()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	table, err := s.loader.GetTable(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch format := request.GetString("format", "fsm"); format {
	case "fsm":
		var sb strings.Builder
		if err := dsl.Write(&sb, table); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	case "json":
		jsonBytes, _ := json.MarshalIndent(table.Definition(), "", "  ")
		return mcp.NewToolResultText(string(jsonBytes)), nil
	case "yaml":
		out, err := dsl.MarshalYAML(table)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	case "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(table, nil)), nil
	case "dot":
		return mcp.NewToolResultText(graph.GenerateDot(table, nil)), nil
	case "analysis":
		return mcp.NewToolResultText(validator.Analyze(table).Markdown()), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) handleRunTable(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runner.JSONResult, error) {
	name, _ := args["name"].(string)
	input, _ := args["input"].(string)

	table, err := s.loader.GetTable(name)
	if err != nil {
		return runner.JSONResult{}, err
	}
	if _, err := runner.LimitLine(input, s.maxLine, runner.Reject); err != nil {
		s.logger.Warn("MCP run_table: input rejected", "err", err, "size", len(input))
		return runner.JSONResult{}, fmt.Errorf("input rejected: %w", err)
	}

	eng, err := mealy.New(table, mealy.WithLifecycleHooks(s.hooks), mealy.WithLogger(s.logger))
	if err != nil {
		return runner.JSONResult{}, err
	}
	res, runErr := eng.Run(ctx, input)
	rec := domain.NewRunRecord(uuid.NewString(), table.Name(), input, res, runErr)

	if s.store != nil {
		if err := s.store.Save(ctx, rec); err != nil {
			s.logger.Error("MCP run_table: failed to save run", "id", rec.ID, "err", err)
		}
	}
	return runner.NewJSONResult(rec), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TablesURI, "Transition tables",
		mcp.WithResourceDescription("Every table served, in the line format"),
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.loader.ListTables()
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		var out []mcp.ResourceContents
		for _, name := range names {
			table, err := s.loader.GetTable(name)
			if err != nil {
				return nil, err
			}
			var sb strings.Builder
			if err := dsl.Write(&sb, table); err != nil {
				return nil, err
			}
			out = append(out, mcp.TextResourceContents{
				URI:      TablesURI + "/" + name,
				MIMEType: "text/plain",
				Text:     sb.String(),
			})
		}
		return out, nil
	})
}
