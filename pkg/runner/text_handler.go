package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/mealy/pkg/domain"
)

// Prompt is printed before each line in interactive mode.
const Prompt = "> "

// TextHandler implements the standard text interface: one output line per
// input line on Writer, diagnostics on ErrWriter.
type TextHandler struct {
	Lines       *LineReader
	Writer      io.Writer
	ErrWriter   io.Writer
	Interactive bool
	// FormatError renders diagnostics. Defaults to "error: <msg>".
	FormatError func(error) string
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithInteractive enables the prompt.
func WithInteractive(interactive bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.Interactive = interactive
	}
}

// WithErrorFormatter configures how diagnostics are rendered.
func WithErrorFormatter(format func(error) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.FormatError = format
	}
}

// WithLineLimit configures the line limit and the policy for longer lines.
func WithLineLimit(limit int, policy LinePolicy) TextHandlerOption {
	return func(h *TextHandler) {
		h.Lines.limit = limit
		h.Lines.policy = policy
	}
}

// NewTextHandler creates a handler for standard text IO.
// Nil readers and writers default to the process streams.
func NewTextHandler(r io.Reader, w, errw io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	h := &TextHandler{
		Lines:       NewLineReader(r, MaxLineLength(), Truncate),
		Writer:      w,
		ErrWriter:   errw,
		FormatError: DefaultErrorFormat,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// DefaultErrorFormat renders err as "error: <msg>".
func DefaultErrorFormat(err error) string {
	return "error: " + err.Error()
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	if h.Interactive {
		fmt.Fprint(h.Writer, Prompt)
	}
	return h.Lines.ReadLine(ctx)
}

func (h *TextHandler) Output(ctx context.Context, rec *domain.RunRecord) error {
	if _, err := fmt.Fprintln(h.Writer, rec.Result.Output); err != nil {
		return err
	}
	if rec.Error != "" {
		return h.Report(ctx, errors.New(rec.Error))
	}
	return nil
}

func (h *TextHandler) Report(ctx context.Context, err error) error {
	_, werr := fmt.Fprintln(h.ErrWriter, h.FormatError(err))
	return werr
}

// Skip writes an empty output line in place of a rejected line.
func (h *TextHandler) Skip(ctx context.Context) error {
	_, err := fmt.Fprintln(h.Writer)
	return err
}
