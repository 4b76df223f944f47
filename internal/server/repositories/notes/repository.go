package notes

import (
	"context"

	"github.com/teaisforme/teataster/internal/server/models"
)

// Repository stores tasting notes. Every operation is scoped to a user;
// a note id from another user behaves as if it does not exist.
type Repository interface {
	GetAllByUser(ctx context.Context, userID int64) ([]models.TastingNote, error)
	GetByID(ctx context.Context, id int64, userID int64) (*models.TastingNote, error)
	Create(ctx context.Context, note *models.TastingNote) (*models.TastingNote, error)
	Update(ctx context.Context, note *models.TastingNote) (*models.TastingNote, error)
	Delete(ctx context.Context, id int64, userID int64) error
}
