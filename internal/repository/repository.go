package repository

import (
	"context"
	"database/sql"
	"errors"

	us "user_service"
)

// ErrDuplicateEmail is returned when an insert or update hits the unique email index.
var ErrDuplicateEmail = errors.New("email already exists")

// Users is single-record CRUD over the users table. Lookups that find
// nothing return (nil, nil).
type Users interface {
	Create(ctx context.Context, name, email, passwordHash string) (*us.User, error)
	GetByID(ctx context.Context, id int) (*us.User, error)
	GetByEmail(ctx context.Context, email string) (*us.User, error)
	List(ctx context.Context) ([]us.User, error)
	Update(ctx context.Context, u us.User) (*us.User, error)
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users Users
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
	}
}
