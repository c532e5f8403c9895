package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/mealy/pkg/domain"
)

// JSONHandler implements IOHandler for JSON-Lines communication.
//
// Each input line is either an object {"input": "..."}, a JSON string, or
// raw text. Each outcome is written as one JSONResult object.
type JSONHandler struct {
	Lines   *LineReader
	Writer  io.Writer
	Encoder *json.Encoder

	limit  int
	policy LinePolicy
}

// JSONHandlerOption defines configuration for JSONHandler.
type JSONHandlerOption func(*JSONHandler)

// WithJSONLineLimit configures the limit applied to decoded inputs.
// The JSON envelope itself is not limited.
func WithJSONLineLimit(limit int, policy LinePolicy) JSONHandlerOption {
	return func(h *JSONHandler) {
		h.limit, h.policy = limit, policy
	}
}

// JSONResult is the wire form of one run.
type JSONResult struct {
	ID       string       `json:"id,omitempty"`
	Output   string       `json:"output"`
	Trace    []string     `json:"trace"`
	Final    domain.State `json:"final"`
	Error    string       `json:"error,omitempty"`
	State    domain.State `json:"state,omitempty"`
	Position *int         `json:"position,omitempty"`
}

// NewJSONResult converts a record into its wire form.
func NewJSONResult(rec *domain.RunRecord) JSONResult {
	out := JSONResult{
		ID:     rec.ID,
		Output: rec.Result.Output,
		Trace:  rec.Result.TraceLines(),
		Final:  rec.Result.Final,
		Error:  rec.Error,
	}
	if out.Trace == nil {
		out.Trace = []string{}
	}
	if rec.Stuck {
		pos := rec.Position
		out.State = rec.State
		out.Position = &pos
	}
	return out
}

type jsonInput struct {
	Input string `json:"input"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer, opts ...JSONHandlerOption) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &JSONHandler{
		Lines:   NewLineReader(r, 0, Truncate),
		Writer:  w,
		Encoder: json.NewEncoder(w),
		limit:   MaxLineLength(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Lines.ReadLine(ctx)
	if err != nil {
		return "", err
	}

	// Only objects and strings are decoded; any other line is the input verbatim.
	var obj jsonInput
	var str string
	doc := []byte(strings.TrimSpace(text))
	switch {
	case bytes.HasPrefix(doc, []byte("{")) && json.Unmarshal(doc, &obj) == nil:
		text = obj.Input
	case bytes.HasPrefix(doc, []byte(`"`)) && json.Unmarshal(doc, &str) == nil:
		text = str
	}
	return LimitLine(text, h.limit, h.policy)
}

func (h *JSONHandler) Output(ctx context.Context, rec *domain.RunRecord) error {
	return h.Encoder.Encode(NewJSONResult(rec))
}

func (h *JSONHandler) Report(ctx context.Context, err error) error {
	return h.Encoder.Encode(map[string]string{"error": err.Error()})
}
