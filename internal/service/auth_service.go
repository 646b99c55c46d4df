package service

import (
	"context"
	"errors"
	"fmt"

	us "user_service"
	"user_service/internal/repository"
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
)

// AuthService handles login and token checks.
type AuthService struct {
	users  repository.Users
	tokens *TokenManager
}

func NewAuthService(users repository.Users, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login looks the user up by exact email, checks the password and issues a
// token for them.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *us.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrUserNotFound
	}

	if !VerifyPassword(u.PasswordHash, password) {
		return "", nil, ErrInvalidPassword
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token for user %d: %w", u.ID, err)
	}
	return token, u, nil
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	return s.tokens.Parse(accessToken)
}
