package service

import (
	"context"

	us "user_service"
	"user_service/internal/repository"
)

// Authorization covers login and bearer token verification.
type Authorization interface {
	Login(ctx context.Context, email, password string) (string, *us.User, error)
	ParseToken(accessToken string) (int, error)
}

// Users is CRUD over accounts with the business rules applied.
type Users interface {
	List(ctx context.Context) ([]us.User, error)
	Get(ctx context.Context, id int) (*us.User, error)
	Create(ctx context.Context, name, email, password string) (*us.User, error)
	Update(ctx context.Context, id int, upd us.UserUpdate) (*us.User, error)
	Delete(ctx context.Context, callerID, id int) (*us.User, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Users
}

// NewService wires the repository layer into concrete services. tokens
// carries the signing secret; it is read-only after construction.
func NewService(repos *repository.Repository, tokens *TokenManager) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, tokens),
		Users:         NewUserService(repos.Users),
	}
}
