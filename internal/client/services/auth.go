// Package services implements the client's application services on top of the
// gateway, the session store, and the local cache.
package services

import (
	"context"
	"fmt"

	"github.com/teaisforme/teataster/internal/client/client"
	"github.com/teaisforme/teataster/internal/client/models"
	"github.com/teaisforme/teataster/internal/logging"
)

// SessionStore is the slice of the session store the services need.
type SessionStore interface {
	GetSession(ctx context.Context) (*models.Session, error)
	SetSession(ctx context.Context, sess *models.Session) error
	ClearSession(ctx context.Context) error
}

// Syncer runs one reconciliation pass; the synchronizer satisfies it.
type Syncer interface {
	Sync(ctx context.Context) error
}

// AuthService signs users in and out, keeping the session store in step with
// the backend.
type AuthService struct {
	api      client.Client
	sessions SessionStore
	sync     Syncer
	log      logging.Logger
}

func NewAuthService(api client.Client, sessions SessionStore, sync Syncer, log logging.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, sync: sync, log: log}
}

func (s *AuthService) Register(ctx context.Context, user *models.User, password string) (*models.Session, error) {
	session, err := s.api.Register(ctx, user, password)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.log.Info(ctx, "registered", "user", session.User.Email)
	return session, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (*models.Session, error) {
	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.log.Info(ctx, "logged in", "user", session.User.Email)

	// reconcile the local cache right away; a failed pass does not fail the
	// login, the pending rows are retried on the next sync
	if err := s.sync.Sync(ctx); err != nil {
		s.log.Warn(ctx, "post-login sync failed", "error", err)
	}
	return session, nil
}

// Logout always tears down the local session. The backend call is best effort:
// an unreachable server must not trap the user in a logged-in state.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn(ctx, "remote logout failed", "error", err)
	}
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}
