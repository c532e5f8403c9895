package ports

import (
	"context"

	"github.com/aretw0/mealy/pkg/domain"
)

// TableLoader defines how front ends resolve tables by name.
// Returned tables are immutable and may be shared.
type TableLoader interface {
	// GetTable returns the named table or an error wrapping domain.ErrTableNotFound.
	GetTable(name string) (*domain.Table, error)

	// ListTables returns the names of all available tables, sorted.
	ListTables() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying tables change.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
