package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TableLoaderContractTest verifies that an adapter complies with ports.TableLoader.
// want maps every table the loader is expected to serve to its transition count.
func TableLoaderContractTest(t *testing.T, loader ports.TableLoader, want map[string]int) {
	t.Helper()

	t.Run("GetTable_Success", func(t *testing.T) {
		for name, count := range want {
			table, err := loader.GetTable(name)
			require.NoError(t, err, "table %s", name)
			assert.Equal(t, count, table.Len(), "transition count of %s", name)
		}
	})

	t.Run("GetTable_NotFound", func(t *testing.T) {
		_, err := loader.GetTable("non-existent-table")
		assert.ErrorIs(t, err, domain.ErrTableNotFound)
	})

	t.Run("ListTables", func(t *testing.T) {
		names, err := loader.ListTables()
		require.NoError(t, err)
		for name := range want {
			assert.Contains(t, names, name)
		}
		assert.IsNonDecreasing(t, names)
	})
}

// RunStoreContractTest runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContractTest(t *testing.T, store ports.RunStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	res := &domain.Result{
		Output:   "01",
		Final:    "s0",
		Consumed: 4,
		Trace: []domain.TraceEntry{
			{From: "s0", To: "s1", Input: "11", Output: "0"},
			{From: "s1", To: "s0", Input: "00", Output: "1", Position: 2},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := domain.NewRunRecord(runID, "binary-addition", "1100", res, nil)
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "binary-addition", loaded.Table)
		assert.Equal(t, "1100", loaded.Input)
		assert.Equal(t, "01", loaded.Result.Output)
		assert.Equal(t, []string{"s0 -> s1", "s1 -> s0"}, loaded.Result.TraceLines())
		assert.False(t, loaded.Stuck)
	})

	t.Run("Stuck Record", func(t *testing.T) {
		id := runID + "-stuck"
		err := &domain.StuckError{State: "s0", Position: 0, Remaining: "2"}
		rec := domain.NewRunRecord(id, "binary-addition", "2", &domain.Result{Final: "s0"}, err)
		require.NoError(t, store.Save(ctx, rec))
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, loadErr := store.Load(ctx, id)
		require.NoError(t, loadErr)
		assert.True(t, loaded.Stuck)
		assert.Equal(t, domain.State("s0"), loaded.State)
		assert.Equal(t, 0, loaded.Position)
		assert.NotEmpty(t, loaded.Error)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.True(t, errors.Is(err, domain.ErrRunNotFound))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewRunRecord(runID, "t", "", res, nil)))
		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
		assert.NoError(t, store.Delete(ctx, runID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, domain.NewRunRecord(id1, "t", "a", res, nil))
		_ = store.Save(ctx, domain.NewRunRecord(id2, "t", "b", res, nil))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
