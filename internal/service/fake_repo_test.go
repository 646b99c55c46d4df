package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	us "user_service"
	"user_service/internal/repository"
)

// memUsers is an in-memory repository.Users for service tests.
type memUsers struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]us.User

	err         error // returned by every call when set
	deleteCalls []int
}

var _ repository.Users = (*memUsers)(nil)

func newMemUsers(seed ...us.User) *memUsers {
	m := &memUsers{nextID: 1, rows: map[int]us.User{}}
	for _, u := range seed {
		m.rows[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *memUsers) emailTaken(email string, except int) bool {
	for id, u := range m.rows {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *memUsers) Create(_ context.Context, name, email, hash string) (*us.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.emailTaken(email, 0) {
		return nil, repository.ErrDuplicateEmail
	}
	u := us.User{ID: m.nextID, Name: name, Email: email, PasswordHash: hash}
	m.nextID++
	m.rows[u.ID] = u
	return &u, nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (*us.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*us.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) List(_ context.Context) ([]us.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]us.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u us.User) (*us.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.rows[u.ID]; !ok {
		return nil, nil
	}
	if m.emailTaken(u.Email, u.ID) {
		return nil, repository.ErrDuplicateEmail
	}
	m.rows[u.ID] = u
	return &u, nil
}

func (m *memUsers) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.deleteCalls = append(m.deleteCalls, id)
	delete(m.rows, id)
	return nil
}

var errDBDown = errors.New("db down")
