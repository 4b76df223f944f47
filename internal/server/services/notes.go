package services

import (
	"context"
	"fmt"

	"github.com/teaisforme/teataster/internal/server/models"
	"github.com/teaisforme/teataster/internal/server/repositories/categories"
	"github.com/teaisforme/teataster/internal/server/repositories/notes"
)

// NoteService serves tasting notes and the shared category list.
type NoteService struct {
	notes      notes.Repository
	categories categories.Repository
}

func NewNoteService(notesRepo notes.Repository, categoriesRepo categories.Repository) *NoteService {
	return &NoteService{notes: notesRepo, categories: categoriesRepo}
}

func (s *NoteService) Categories(ctx context.Context) ([]models.TeaCategory, error) {
	return s.categories.GetAll(ctx)
}

func (s *NoteService) List(ctx context.Context, userID int64) ([]models.TastingNote, error) {
	return s.notes.GetAllByUser(ctx, userID)
}

func (s *NoteService) Get(ctx context.Context, id int64, userID int64) (*models.TastingNote, error) {
	return s.notes.GetByID(ctx, id, userID)
}

// Save creates the note when its id is zero and updates it otherwise.
func (s *NoteService) Save(ctx context.Context, note *models.TastingNote) (*models.TastingNote, error) {
	if note.Rating < 0 || note.Rating > 5 {
		return nil, fmt.Errorf("rating out of range: %d", note.Rating)
	}
	if note.ID == 0 {
		return s.notes.Create(ctx, note)
	}
	return s.notes.Update(ctx, note)
}

func (s *NoteService) Delete(ctx context.Context, id int64, userID int64) error {
	return s.notes.Delete(ctx, id, userID)
}
