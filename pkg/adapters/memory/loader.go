package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/mealy/pkg/domain"
)

// Loader implements ports.TableLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu     sync.RWMutex
	tables map[string]*domain.Table
}

// NewLoader creates a loader serving the given tables under their names.
func NewLoader(tables ...*domain.Table) *Loader {
	l := &Loader{tables: make(map[string]*domain.Table, len(tables))}
	for _, t := range tables {
		l.Add(t)
	}
	return l
}

// NewFromDefinitions validates each definition and serves the resulting tables.
// This handles validation automatically, improving DX for tests.
func NewFromDefinitions(defs ...domain.Definition) (*Loader, error) {
	l := NewLoader()
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("table missing name")
		}
		t, err := domain.NewTable(d)
		if err != nil {
			return nil, fmt.Errorf("invalid table %s: %w", d.Name, err)
		}
		l.Add(t)
	}
	return l, nil
}

// Add registers t under its name, replacing any previous table.
func (l *Loader) Add(t *domain.Table) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tables[t.Name()] = t
}

// GetTable retrieves a table by name.
func (l *Loader) GetTable(name string) (*domain.Table, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, name)
	}
	return t, nil
}

// ListTables returns all available table names.
func (l *Loader) ListTables() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.tables))
	for k := range l.tables {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
