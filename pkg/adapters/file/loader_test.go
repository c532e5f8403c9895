package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toggleFSM = `# flips on every bit
off, 1 > on, 1
on, 1 > off, 0
`

const toggleYAML = `name: toggle-yaml
initial: off
transitions:
  - from: off
    inputs: ["0", "00"]
    to: off
    output: "0"
  - from: off
    input: "1"
    to: on
    output: "1"
  - from: on
    input: "1"
    to: off
    output: "0"
`

const toggleJSON = `{
  "initial": "a",
  "transitions": [
    {"from": "a", "input": "x", "to": "b", "output": "1"},
    {"from": "b", "input": "x", "to": "a", "output": "2"}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadTable_Formats(t *testing.T) {
	dir := t.TempDir()

	fsm, err := LoadTable(writeFile(t, dir, "toggle.fsm", toggleFSM))
	require.NoError(t, err)
	assert.Equal(t, "toggle", fsm.Name())
	assert.Equal(t, domain.State("off"), fsm.Initial())
	assert.Equal(t, 2, fsm.Len())

	yml, err := LoadTable(writeFile(t, dir, "other.yaml", toggleYAML))
	require.NoError(t, err)
	assert.Equal(t, "toggle-yaml", yml.Name(), "name inside the document wins")
	assert.Equal(t, 4, yml.Len())
	assert.Equal(t, "00", yml.At(1).Input, "numeric-looking symbols stay strings")

	js, err := LoadTable(writeFile(t, dir, "pingpong.json", toggleJSON))
	require.NoError(t, err)
	assert.Equal(t, "pingpong", js.Name())
	assert.Equal(t, domain.State("a"), js.Initial())
}

func TestLoadTable_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTable(writeFile(t, dir, "dup.fsm", "s0, 1 > s0, 1\ns0, 1 > s1, 0\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAmbiguousTransition)
	assert.Contains(t, err.Error(), "dup.fsm")

	_, err = LoadTable(filepath.Join(dir, "missing.fsm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "toggle.fsm", toggleFSM)
	writeFile(t, dir, "yaml.yml", toggleYAML)
	writeFile(t, dir, "README.md", "not a table")

	l, err := NewLoader(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, l.Dir())

	tests.TableLoaderContractTest(t, l, map[string]int{
		"toggle":      2,
		"toggle-yaml": 4,
	})

	names, err := l.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"toggle", "toggle-yaml"}, names)
}

func TestLoader_RejectsInvalidDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.fsm", toggleFSM)
	writeFile(t, dir, "bad.fsm", "s0, 1 > \n")

	_, err := NewLoader(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.fsm")

	_, err = NewLoader(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLoader_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "toggle.fsm", toggleFSM)
	writeFile(t, dir, "toggle.json", toggleJSON)

	_, err := NewLoader(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined twice")
}

func TestLoader_ReloadKeepsLastGoodSet(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "toggle.fsm", toggleFSM)

	l, err := NewLoader(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(p, []byte("broken"), 0o644))
	assert.Error(t, l.Reload())

	table, err := l.GetTable("toggle")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "toggle.fsm", toggleFSM)

	l, err := NewLoader(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := l.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, dir, "extra.fsm", "a, x > a, y\n")

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	table, err := l.GetTable("extra")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
