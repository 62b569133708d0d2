package store

import (
	"context"

	"wardwatch-be/models"
)

// WardStore is the persistence façade for wards. Inactive wards are invisible
// to every read; deletion is soft (IsActive flip via Update).
type WardStore interface {
	// Create persists a new active ward, returning ErrDuplicateWard when an
	// active ward with the same number exists.
	Create(ctx context.Context, w models.Ward) (models.Ward, error)

	// Update applies a partial patch to the active ward with the given
	// number, re-validating the patched record.
	Update(ctx context.Context, wardNumber int, patch models.WardPatch) (models.Ward, error)

	Get(ctx context.Context, wardNumber int) (models.Ward, error)

	// List returns all active wards ordered by ward number.
	List(ctx context.Context) ([]models.Ward, error)

	// Count counts every ward, active or not. Used by the startup seeder's
	// existence check.
	Count(ctx context.Context) (int64, error)
}
