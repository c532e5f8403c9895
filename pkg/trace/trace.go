// Package trace provides ports.Tracer implementations.
//
// The trace is a diagnostic channel: it is kept apart from the output
// channel so that program output can be captured or piped on its own.
package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
)

// Writer prints one "<from> -> <to>" line per transition.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a tracer writing to w (typically os.Stderr).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Record implements ports.Tracer.
func (t *Writer) Record(from, to domain.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s -> %s\n", from, to)
}

// Recorder keeps every transition in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []domain.TraceEntry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record implements ports.Tracer.
func (r *Recorder) Record(from, to domain.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, domain.TraceEntry{From: from, To: to})
}

// Entries returns a copy of the recorded transitions.
func (r *Recorder) Entries() []domain.TraceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TraceEntry(nil), r.entries...)
}

// Lines returns the recorded transitions as "<from> -> <to>" strings.
func (r *Recorder) Lines() []string {
	entries := r.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Slog emits one debug record per transition.
type Slog struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlog creates a tracer that logs transitions at debug level.
func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger, level: slog.LevelDebug}
}

// Record implements ports.Tracer.
func (t *Slog) Record(from, to domain.State) {
	t.logger.Log(context.Background(), t.level, "transition", "from", from, "to", to)
}

// Func adapts a function to ports.Tracer.
type Func func(from, to domain.State)

// Record implements ports.Tracer.
func (f Func) Record(from, to domain.State) {
	f(from, to)
}

// Multi fans every record out to all tracers, in order.
func Multi(tracers ...ports.Tracer) ports.Tracer {
	var flat []ports.Tracer
	for _, t := range tracers {
		if t != nil {
			flat = append(flat, t)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return multi(flat)
}

type multi []ports.Tracer

func (m multi) Record(from, to domain.State) {
	for _, t := range m {
		t.Record(from, to)
	}
}
