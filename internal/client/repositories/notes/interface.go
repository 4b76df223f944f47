package notes

import (
	"context"

	"github.com/teaisforme/teataster/internal/client/models"
)

// Repository is the local cache of tasting notes: a durable per-user mirror
// of the backend's rows with per-row dirty tracking via SyncStatus. All rows
// are scoped to a user id; a row tagged DELETE stays in place (soft delete)
// until a reconciliation physically removes it.
type Repository interface {
	// GetAll returns the user's notes ordered by name. DELETE-tagged rows are
	// excluded unless includeDeleted is set (the sync engine asks for them).
	GetAll(ctx context.Context, userID int64, includeDeleted bool) ([]models.TastingNote, error)

	// Add stores a new note with a provisional id (max id + 1, per table) and
	// tags it INSERT. The assigned id and status are written back to note.
	Add(ctx context.Context, note *models.TastingNote, userID int64) error

	// Update persists field changes. A row with no sync status becomes UPDATE;
	// INSERT and DELETE rows keep their current status.
	Update(ctx context.Context, note *models.TastingNote, userID int64) error

	// MarkForDelete soft-deletes the row by tagging it DELETE.
	MarkForDelete(ctx context.Context, id int64, userID int64) error

	// Upsert inserts or updates a row from an authoritative backend snapshot.
	// The update side only applies when the local row's status is clean, so a
	// locally dirty row is never clobbered by a refresh.
	Upsert(ctx context.Context, note *models.TastingNote, userID int64) error

	// Trim physically deletes the user's rows whose id is not in idsToKeep.
	Trim(ctx context.Context, idsToKeep []int64, userID int64) error

	// Reset clears UPDATE tags and physically removes INSERT/DELETE rows for
	// the user. Called only after those rows have been drained to the backend.
	Reset(ctx context.Context, userID int64) error
}
