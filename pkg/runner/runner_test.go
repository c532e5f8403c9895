package runner_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/mealy"
	"github.com/aretw0/mealy/pkg/adapters/memory"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/runner"
	"github.com/aretw0/mealy/pkg/tables"
	"github.com/aretw0/mealy/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
}

func TestRunner_TextMode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	eng, err := mealy.Builtin(tables.BinaryAdditionName, mealy.WithTracer(trace.NewWriter(&stderr)))
	require.NoError(t, err)

	store := memory.NewStore()
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("00\n11\n1100\n2\n"), &stdout, &stderr)),
		runner.WithStore(store),
		runner.WithIDGenerator(sequentialIDs()),
	)

	stats, err := r.Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, runner.Stats{Lines: 4, Succeeded: 3, Stuck: 1}, stats)

	assert.Equal(t, "0\n0\n01\n\n", stdout.String())
	assert.Equal(t, strings.Join([]string{
		"s0 -> s0",
		"s0 -> s1",
		"s0 -> s1",
		"s1 -> s0",
		`error: no transition from state "s0" at position 0 (remaining "2")`,
		"",
	}, "\n"), stderr.String())

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1", "run-2", "run-3", "run-4"}, ids)

	rec, err := store.Load(context.Background(), "run-4")
	require.NoError(t, err)
	assert.True(t, rec.Stuck)
	assert.Equal(t, tables.BinaryAdditionName, rec.Table)
	assert.Equal(t, "2", rec.Input)
}

func TestRunner_EachLineStartsFromInitial(t *testing.T) {
	var stdout bytes.Buffer
	eng, err := mealy.Builtin(tables.GumMachineName)
	require.NoError(t, err)

	r := runner.NewRunner(runner.WithInputHandler(
		runner.NewTextHandler(strings.NewReader("25\n5w\n"), &stdout, &bytes.Buffer{}),
	))
	_, err = r.Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, "5\nnn\n", stdout.String())
}

func TestRunner_FailFast(t *testing.T) {
	var stdout bytes.Buffer
	eng, err := mealy.Builtin(tables.BinaryAdditionName)
	require.NoError(t, err)

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("00\n2\n11\n"), &stdout, &bytes.Buffer{})),
		runner.WithFailFast(true),
	)
	stats, err := r.Run(context.Background(), eng)
	assert.ErrorIs(t, err, domain.ErrNoMatch)
	assert.Equal(t, 2, stats.Lines)
	assert.Equal(t, "0\n\n", stdout.String())
}

func TestRunner_LongLines(t *testing.T) {
	long := strings.Repeat("00", 10)
	input := long + "\n11\n"

	t.Run("Truncate", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		eng, _ := mealy.Builtin(tables.BinaryAdditionName)
		r := runner.NewRunner(runner.WithInputHandler(
			runner.NewTextHandler(strings.NewReader(input), &stdout, &stderr, runner.WithLineLimit(4, runner.Truncate)),
		))

		stats, err := r.Run(context.Background(), eng)
		require.NoError(t, err)
		assert.Equal(t, runner.Stats{Lines: 2, Succeeded: 2}, stats)
		assert.Equal(t, "00\n0\n", stdout.String())
		assert.Contains(t, stderr.String(), "line too long")
	})

	t.Run("Reject", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		eng, _ := mealy.Builtin(tables.BinaryAdditionName)
		r := runner.NewRunner(runner.WithInputHandler(
			runner.NewTextHandler(strings.NewReader(input), &stdout, &stderr, runner.WithLineLimit(4, runner.Reject)),
		))

		stats, err := r.Run(context.Background(), eng)
		require.NoError(t, err)
		assert.Equal(t, runner.Stats{Lines: 1, Succeeded: 1, Skipped: 1}, stats)
		// The rejected line still gets its (empty) output line.
		assert.Equal(t, "\n0\n", stdout.String())
	})
}

func TestRunner_JSONMode(t *testing.T) {
	var stdout bytes.Buffer
	eng, err := mealy.Builtin(tables.BinaryAdditionName)
	require.NoError(t, err)

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("{\"input\":\"1100\"}\n\"2\"\n"), &stdout)),
		runner.WithIDGenerator(sequentialIDs()),
	)
	stats, err := r.Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Lines)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":"run-1","output":"01","trace":["s0 -> s1","s1 -> s0"],"final":"s0"}`, lines[0])
	assert.JSONEq(t, `{"id":"run-2","output":"","trace":[],"final":"s0",
		"error":"no transition from state \"s0\" at position 0 (remaining \"2\")","state":"s0","position":0}`, lines[1])
}

func TestRunner_Cancelled(t *testing.T) {
	eng, err := mealy.Builtin(tables.BinaryAdditionName)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(runner.WithInputHandler(
		runner.NewTextHandler(strings.NewReader("00\n"), &bytes.Buffer{}, &bytes.Buffer{}),
	))
	stats, err := r.Run(ctx, eng)
	assert.NoError(t, err)
	assert.Zero(t, stats.Lines)
}
