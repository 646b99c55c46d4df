package service

import (
	"context"
	"errors"
	"fmt"

	us "user_service"
	"user_service/internal/repository"
)

var (
	ErrSelfDelete = errors.New("users cannot delete themselves")
	ErrEmailTaken = errors.New("email already in use")
)

type UserService struct {
	users repository.Users
}

func NewUserService(users repository.Users) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]us.User, error) {
	return s.users.List(ctx)
}

// Get returns ErrUserNotFound when id has no record.
func (s *UserService) Get(ctx context.Context, id int) (*us.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Create hashes password and stores a new user.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*us.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	return u, nil
}

// Update applies only the fields set in upd. A new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id int, upd us.UserUpdate) (*us.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Email != nil {
		next.Email = *upd.Email
	}
	if upd.Password != nil {
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		next.PasswordHash = hash
	}

	saved, err := s.users.Update(ctx, next)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if saved == nil {
		// removed between the read and the write
		return nil, ErrUserNotFound
	}
	return saved, nil
}

// Delete removes id on behalf of callerID. Existence is checked before the
// self-delete rule.
func (s *UserService) Delete(ctx context.Context, callerID, id int) (*us.User, error) {
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.ID == callerID {
		return nil, ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, err
	}
	return target, nil
}

func translateRepoErr(err error) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %v", ErrEmailTaken, err)
	}
	return err
}
