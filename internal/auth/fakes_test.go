package auth

import (
	"context"
	"slices"
	"sync"

	"github.com/5w1tchy/locallibrary/internal/models"
)

// memUsers is an in-memory UserStore.
type memUsers struct {
	mu    sync.Mutex
	users map[int64]models.User
	perms map[int64][]string
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{users: map[int64]models.User{}, perms: map[int64][]string{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) Permissions(_ context.Context, id int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.perms[id]), nil
}

func (m *memUsers) CreateUser(_ context.Context, username, hash string, superuser bool) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: int64(len(m.users) + 1), Username: username, PasswordHash: hash, IsSuperuser: superuser, TokenVersion: 1}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *memUsers) GrantPermission(_ context.Context, id int64, codename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.perms[id], codename) {
		m.perms[id] = append(m.perms[id], codename)
	}
	return nil
}

func (m *memUsers) RevokeSessions(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.TokenVersion++
	m.users[id] = u
	return nil
}
