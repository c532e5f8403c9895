// Package tables ships the reference transition tables.
package tables

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/mealy/pkg/adapters/memory"
	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/dsl"
)

// Names of the builtin tables.
const (
	BinaryAdditionName = "binary-addition"
	GumMachineName     = "gum-machine"
)

//go:embed data/*.fsm
var files embed.FS

var builtin = mustLoadAll()

func mustLoadAll() map[string]*domain.Table {
	entries, err := files.ReadDir("data")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*domain.Table, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		src, err := files.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			panic(err)
		}
		table, err := dsl.Load(name, string(src))
		if err != nil {
			panic(fmt.Sprintf("builtin table %s: %v", name, err))
		}
		out[name] = table
	}
	return out
}

// BinaryAddition returns the serial binary adder: states s0 and s1,
// alphabet 00, 10, 01, 11, initial state s0.
func BinaryAddition() *domain.Table {
	return builtin[BinaryAdditionName]
}

// GumMachine returns the gum machine controller: states s0 to s4,
// alphabet 5, 10, 25, w, b, initial state s0.
func GumMachine() *domain.Table {
	return builtin[GumMachineName]
}

// Get returns a builtin table by name.
func Get(name string) (*domain.Table, bool) {
	t, ok := builtin[name]
	return t, ok
}

// Names returns the builtin table names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Source returns the line-format source of a builtin table.
func Source(name string) (string, bool) {
	src, err := files.ReadFile(path.Join("data", name+".fsm"))
	if err != nil {
		return "", false
	}
	return string(src), true
}

// Loader returns an in-memory loader serving every builtin table.
func Loader() *memory.Loader {
	l := memory.NewLoader()
	for _, t := range builtin {
		l.Add(t)
	}
	return l
}
