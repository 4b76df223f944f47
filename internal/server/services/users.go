// Package services implements the server's application services over the
// repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teaisforme/teataster/internal/common"
	"github.com/teaisforme/teataster/internal/server/auth"
	"github.com/teaisforme/teataster/internal/server/models"
	"github.com/teaisforme/teataster/internal/server/repositories/users"
)

// UserService registers accounts and exchanges credentials for tokens.
type UserService struct {
	users         users.Repository
	secretKey     []byte
	tokenValidity time.Duration
}

func NewUserService(repo users.Repository, secretKey string, tokenValidity time.Duration) *UserService {
	return &UserService{users: repo, secretKey: []byte(secretKey), tokenValidity: tokenValidity}
}

func (s *UserService) Register(ctx context.Context, user *models.User, password string) (*models.User, string, error) {
	_, err := s.users.GetByEmail(ctx, user.Email)
	if err == nil {
		return nil, "", fmt.Errorf("%w: email already registered", common.ErrorUnauthorized)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	user.PasswordHash = auth.HashPassword(password)
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(created.ID, s.secretKey, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return created, token, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email string, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.secretKey, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// VerifyToken resolves a bearer token to a user id.
func (s *UserService) VerifyToken(tokenString string) (int64, error) {
	return auth.GetUserIDFromToken(tokenString, s.secretKey)
}
