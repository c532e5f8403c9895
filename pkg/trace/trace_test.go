package trace_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/trace"
	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := trace.NewWriter(&buf)
	w.Record("s0", "s1")
	w.Record("s1", "s0")

	assert.Equal(t, "s0 -> s1\ns1 -> s0\n", buf.String())
}

func TestRecorder(t *testing.T) {
	r := trace.NewRecorder()
	r.Record("s0", "s4")
	assert.Equal(t, []string{"s0 -> s4"}, r.Lines())

	r.Reset()
	assert.Empty(t, r.Entries())
}

func TestMulti(t *testing.T) {
	a := trace.NewRecorder()
	var calls []string
	f := trace.Func(func(from, to domain.State) {
		calls = append(calls, string(from)+string(to))
	})

	m := trace.Multi(a, nil, f)
	m.Record("s0", "s1")

	assert.Equal(t, []string{"s0 -> s1"}, a.Lines())
	assert.Equal(t, []string{"s0s1"}, calls)
	assert.Same(t, a, trace.Multi(a))
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	trace.NewSlog(logger).Record("s2", "s3")

	out := buf.String()
	assert.True(t, strings.Contains(out, "from=s2"), out)
	assert.True(t, strings.Contains(out, "to=s3"), out)
}
