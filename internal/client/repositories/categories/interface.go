package categories

import (
	"context"

	"github.com/teaisforme/teataster/internal/client/models"
)

// Repository is the local mirror of the shared tea-category list. Categories
// are owned by the backend; the cache only merges refreshed snapshots and
// never tracks local mutations.
type Repository interface {
	// GetAll returns the cached categories ordered by name.
	GetAll(ctx context.Context) ([]models.TeaCategory, error)

	// Upsert merges an authoritative backend row into the cache.
	Upsert(ctx context.Context, cat *models.TeaCategory) error

	// Trim physically deletes rows whose id is not in idsToKeep.
	Trim(ctx context.Context, idsToKeep []int64) error
}
