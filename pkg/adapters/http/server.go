// Package http exposes tables and runs over a JSON HTTP API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/mealy"
	"github.com/aretw0/mealy/internal/presentation/graph"
	"github.com/aretw0/mealy/internal/validator"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/aretw0/mealy/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the tables of a loader.
type Server struct {
	Loader   ports.TableLoader
	Store    ports.RunStore
	Streams  *StreamManager
	Hooks    domain.LifecycleHooks
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	MaxLine  int
	NewID    func() string
}

// Option configures the Server.
type Option func(*Server)

// WithStore persists every run and enables GET /runs.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithLifecycleHooks registers hooks on every engine the server creates.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.Hooks = hooks
	}
}

// WithGatherer serves the metrics of g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMaxLine limits the input of POST /tables/{name}/run, in bytes.
func WithMaxLine(limit int) Option {
	return func(s *Server) {
		s.MaxLine = limit
	}
}

// NewServer creates a Server with defaults for everything not configured.
func NewServer(loader ports.TableLoader, opts ...Option) *Server {
	s := &Server{
		Loader:   loader,
		Streams:  NewStreamManager(),
		Gatherer: prometheus.DefaultGatherer,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxLine:  runner.MaxLineLength(),
		NewID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for loader.
func NewHandler(loader ports.TableLoader, opts ...Option) http.Handler {
	return NewServer(loader, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.ListTables)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetTable)
			r.Get("/graph", s.GetGraph)
			r.Get("/analysis", s.GetAnalysis)
			r.Post("/run", s.RunTable)
		})
	})

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunRequest is the body of POST /tables/{name}/run.
type RunRequest struct {
	Input string `json:"input"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) table(w http.ResponseWriter, r *http.Request) (*domain.Table, bool) {
	name := chi.URLParam(r, "name")
	table, err := s.Loader.GetTable(name)
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			s.writeError(w, http.StatusNotFound, err)
		} else {
			s.Logger.Error("GetTable failed", "table", name, "err", err)
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return table, true
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":      "mealy-http",
		"version":  strings.TrimSpace(mealy.Version),
		"store":    s.Store != nil,
		"max_line": s.MaxLine,
	})
}

// ListTables handles GET /tables.
func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	names, err := s.Loader.ListTables()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetTable handles GET /tables/{name}.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, table.Definition())
}

// GetGraph handles GET /tables/{name}/graph. Query parameters: format
// (mermaid or dot) and input, a sample line whose run is highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}

	var overlay *graph.Overlay
	if input := r.URL.Query().Get("input"); input != "" {
		eng, err := mealy.New(table, mealy.WithLogger(s.Logger))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		res, _ := eng.Run(r.Context(), input)
		overlay = graph.OverlayFromResult(table, res)
	}

	var body string
	switch format := r.URL.Query().Get("format"); format {
	case "", "mermaid":
		body = graph.GenerateMermaid(table, overlay)
	case "dot":
		body = graph.GenerateDot(table, overlay)
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, body)
}

// GetAnalysis handles GET /tables/{name}/analysis.
func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	report := validator.Analyze(table)
	s.writeJSON(w, http.StatusOK, struct {
		validator.Report
		Complete bool     `json:"complete"`
		Warnings []string `json:"warnings"`
	}{report, report.Complete(), report.Warnings()})
}

// RunTable handles POST /tables/{name}/run.
//
// A stuck run answers 422 with the partial result; the run is persisted
// either way when a store is configured.
func (s *Server) RunTable(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}

	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.Logger.Warn("RunTable: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if _, err := runner.LimitLine(body.Input, s.MaxLine, runner.Reject); err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	eng, err := mealy.New(table, mealy.WithLifecycleHooks(s.Hooks), mealy.WithLogger(s.Logger))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	res, runErr := eng.Run(r.Context(), body.Input)
	rec := domain.NewRunRecord(s.NewID(), table.Name(), body.Input, res, runErr)

	if s.Store != nil {
		if err := s.Store.Save(r.Context(), rec); err != nil {
			s.Logger.Error("Failed to save run", "id", rec.ID, "err", err)
		}
	}

	payload, err := json.Marshal(runner.NewJSONResult(rec))
	if err == nil {
		s.Streams.Broadcast(table.Name(), string(payload))
	}

	status := http.StatusOK
	if runErr != nil {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, runner.NewJSONResult(rec))
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeJSON(w, http.StatusOK, []string{})
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.Store == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id))
		return
	}
	rec, err := s.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id))
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}
