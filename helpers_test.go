package credguard

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeStore is the in-package CredentialStore used by service tests.
// The memstore package provides the same thing publicly; the tests keep
// their own copy to stay independent of it.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]User
	byID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]User)}
}

func (s *fakeStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := u
	return &copied, nil
}

func (s *fakeStore) Save(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicateUser
		}
	}
	if user.ID == "" {
		s.byID++
		user.ID = "u" + strconv.Itoa(s.byID)
	}
	s.users[user.ID] = *user
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	// Cheapest parameters the hasher accepts, to keep tests fast.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.SessionToken.Secret = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func newTestService(t *testing.T, cfg Config) (*Service, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	svc, err := New().WithConfig(cfg).WithStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return svc, store
}

func registerUser(t *testing.T, svc *Service, username, email, password string) *User {
	t.Helper()

	user, err := svc.Register(context.Background(), username, email, password)
	if err != nil {
		t.Fatalf("Register %s failed: %v", username, err)
	}
	return user
}

func enrollAndActivate(t *testing.T, svc *Service, userID string) string {
	t.Helper()

	secret, err := svc.EnableMFA(context.Background(), userID)
	if err != nil {
		t.Fatalf("EnableMFA failed: %v", err)
	}
	code := codeForOffset(t, secret, svc.config.TOTP, svc.now(), 0)
	if err := svc.ActivateMFA(context.Background(), userID, code); err != nil {
		t.Fatalf("ActivateMFA failed: %v", err)
	}
	return secret
}

func atTime(svc *Service, at time.Time) {
	svc.now = func() time.Time { return at }
}
