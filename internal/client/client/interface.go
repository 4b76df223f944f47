// Package client implements the gateway the application talks to the backend
// through. All calls require network access; the caller decides when to fall
// back on the local cache.
package client

import (
	"context"

	"github.com/teaisforme/teataster/internal/client/models"
)

// TokenProvider supplies the bearer token for authenticated calls. An empty
// token means the request goes out unauthenticated.
type TokenProvider interface {
	AuthToken(ctx context.Context) (string, error)
}

type Client interface {
	// Ping checks backend reachability. Used by the online status watcher.
	Ping(ctx context.Context) error

	// Register creates an account and returns the initial session.
	Register(ctx context.Context, user *models.User, password string) (*models.Session, error)

	// Login exchanges credentials for a session.
	Login(ctx context.Context, email string, password string) (*models.Session, error)

	// Logout invalidates the current token on the backend.
	Logout(ctx context.Context) error

	// ListTeaCategories returns the shared category list.
	ListTeaCategories(ctx context.Context) ([]models.TeaCategory, error)

	// ListTastingNotes returns the authenticated user's notes.
	ListTastingNotes(ctx context.Context) ([]models.TastingNote, error)

	// SaveTastingNote creates the note when its ID is zero and updates it
	// otherwise. The returned note carries the backend-assigned ID.
	SaveTastingNote(ctx context.Context, note *models.TastingNote) (*models.TastingNote, error)

	// DeleteTastingNote removes the note with the given ID.
	DeleteTastingNote(ctx context.Context, id int64) error

	Close() error
}
