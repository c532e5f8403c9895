// Package testutils holds helpers shared by tests across packages.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Parity is a small complete table in the line format: its output tells
// whether the ones seen so far are odd (o) or even (e).
const Parity = "even, 1 > odd, o\neven, 0 > even, e\nodd, 1 > even, e\nodd, 0 > odd, o\n"

// SetupTableDir creates a temporary directory holding files (name to
// content) and returns its absolute path. It fails the test immediately on error.
func SetupTableDir(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		WriteFile(t, absPath, name, content)
	}
	return absPath
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
}
