package cli

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/mealy/internal/logging"
	"github.com/aretw0/mealy/internal/testutils"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parity = testutils.Parity

func TestDetermineEntryPoint(t *testing.T) {
	// Helper to create a temp dir with specific files
	createDir := func(t *testing.T, files []string) string {
		contents := make(map[string]string, len(files))
		for _, f := range files {
			contents[f] = parity
		}
		return testutils.SetupTableDir(t, contents)
	}

	t.Run("Default to main if exists", func(t *testing.T) {
		dir := createDir(t, []string{"main.fsm", "other.fsm"})
		assert.Equal(t, "main", determineEntryPoint(dir))
	})

	t.Run("Fallback to DirectoryName", func(t *testing.T) {
		tmpRoot := testutils.SetupTableDir(t, map[string]string{
			"parity/parity.yaml": "x",
			"parity/other.fsm":   parity,
		})
		assert.Equal(t, "parity", determineEntryPoint(filepath.Join(tmpRoot, "parity")))
	})

	t.Run("Only table", func(t *testing.T) {
		dir := createDir(t, []string{"lonely.fsm", "README.md"})
		assert.Equal(t, "lonely", determineEntryPoint(dir))
	})

	t.Run("Ambiguous", func(t *testing.T) {
		dir := createDir(t, []string{"a.fsm", "b.fsm"})
		assert.Empty(t, determineEntryPoint(dir))
	})

	t.Run("Missing dir", func(t *testing.T) {
		assert.Empty(t, determineEntryPoint(filepath.Join(t.TempDir(), "nope")))
	})
}

func TestResolveTable(t *testing.T) {
	logger := logging.NewNop()
	dir := testutils.SetupTableDir(t, map[string]string{
		"parity.fsm": parity,
		"broken.fsm": "s0, 1 >\n",
	})

	t.Run("Builtin", func(t *testing.T) {
		table, err := resolveTable(TableOptions{Table: "binary-addition"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "binary-addition", table.Name())
	})

	t.Run("File", func(t *testing.T) {
		table, err := resolveTable(TableOptions{File: filepath.Join(dir, "parity.fsm"), Table: "ignored"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "parity", table.Name())
		assert.Equal(t, domain.State("even"), table.Initial())
	})

	t.Run("Directory wins over builtin", func(t *testing.T) {
		table, err := resolveTable(TableOptions{Table: "parity", Dir: dir}, logger)
		require.NoError(t, err)
		assert.Equal(t, 4, table.Len())
	})

	t.Run("Directory falls back to builtin", func(t *testing.T) {
		table, err := resolveTable(TableOptions{Table: "gum-machine", Dir: dir}, logger)
		require.NoError(t, err)
		assert.Equal(t, 25, table.Len())
	})

	t.Run("Broken file", func(t *testing.T) {
		_, err := resolveTable(TableOptions{Table: "broken", Dir: dir}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error loading table")
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := resolveTable(TableOptions{Table: "nope"}, logger)
		assert.ErrorIs(t, err, domain.ErrTableNotFound)
	})

	t.Run("Nothing selected", func(t *testing.T) {
		_, err := resolveTable(TableOptions{}, logger)
		assert.Error(t, err)
	})
}

func TestNewLoader(t *testing.T) {
	logger := logging.NewNop()

	builtin, err := newLoader("", logger)
	require.NoError(t, err)
	names, err := builtin.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"binary-addition", "gum-machine"}, names)

	dir := testutils.SetupTableDir(t, map[string]string{"parity.fsm": parity})
	fromDir, err := newLoader(dir, logger)
	require.NoError(t, err)
	names, err = fromDir.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"parity"}, names)
}
