package ports

import (
	"context"

	"github.com/aretw0/mealy/pkg/domain"
)

// RunStore defines the interface for persisting run records.
type RunStore interface {
	// Save persists the record under rec.ID, replacing any previous one.
	Save(ctx context.Context, rec *domain.RunRecord) error

	// Load retrieves a record. Returns domain.ErrRunNotFound if absent.
	Load(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored records.
	List(ctx context.Context) ([]string, error)
}
