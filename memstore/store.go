package memstore

import (
	"context"
	"sync"

	credguard "github.com/credguard/credguard"
	"github.com/google/uuid"
)

// Store implements credguard.CredentialStore over a mutex-guarded map.
// Lookups return copies, so a caller's mutations are invisible until
// Save; Save replaces the whole record atomically.
type Store struct {
	mu    sync.Mutex
	users map[string]credguard.User
}

// New returns an empty Store.
func New() *Store {
	return &Store{users: make(map[string]credguard.User)}
}

// FindByUsername implements credguard.CredentialStore.
func (s *Store) FindByUsername(_ context.Context, username string) (*credguard.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, credguard.ErrUserNotFound
}

// FindByEmail implements credguard.CredentialStore.
func (s *Store) FindByEmail(_ context.Context, email string) (*credguard.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, credguard.ErrUserNotFound
}

// FindByID implements credguard.CredentialStore.
func (s *Store) FindByID(_ context.Context, id string) (*credguard.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, credguard.ErrUserNotFound
	}
	copied := u
	return &copied, nil
}

// Save creates or replaces the record. New users (empty ID) get a uuid.
// Uniqueness of username and email across other records fails with
// credguard.ErrDuplicateUser, matching a database unique constraint.
func (s *Store) Save(_ context.Context, user *credguard.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return credguard.ErrDuplicateUser
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = *user
	return nil
}
