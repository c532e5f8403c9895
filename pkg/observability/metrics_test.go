package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/mealy"
	"github.com/aretw0/mealy/pkg/observability"
	"github.com/aretw0/mealy/pkg/tables"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	eng, err := mealy.Builtin(tables.BinaryAdditionName, mealy.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = eng.Run(ctx, "1100")
	_, _ = eng.Run(ctx, "00")
	_, _ = eng.Run(ctx, "2")

	name := tables.BinaryAdditionName
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues(name, observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(name, observability.OutcomeStuck)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues(name, "s0", "s1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues(name, "s1", "s0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues(name, "s0", "s0")))

	assert.Equal(t, 1, testutil.CollectAndCount(m.Steps), "one series per table")

	expected := `
# HELP mealy_runs_total Total number of lines run, by outcome
# TYPE mealy_runs_total counter
mealy_runs_total{outcome="ok",table="binary-addition"} 2
mealy_runs_total{outcome="stuck",table="binary-addition"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mealy_runs_total"))
}

func TestMetrics_Unregistered(t *testing.T) {
	m := observability.NewMetrics(nil)
	assert.NotNil(t, m.Runs)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, err := mealy.Builtin(tables.GumMachineName, mealy.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, err)

	_, _ = eng.Run(context.Background(), "5x")

	out := buf.String()
	assert.Contains(t, out, "msg=run_start")
	assert.Contains(t, out, "msg=step")
	assert.Contains(t, out, "from=s0 to=s1")
	assert.Contains(t, out, "level=WARN msg=run_stuck")
	assert.Contains(t, out, "msg=run_end")
}
