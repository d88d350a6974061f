package credguard

import (
	"context"
	"sync"
	"time"
)

// recoveryRecord is what a recovery token redeems into.
type recoveryRecord struct {
	UserID    string
	ExpiresAt int64 // unix seconds
}

// recoveryTokenStore owns the token map exclusively. Get is a
// non-destructive validity lookup; Claim atomically removes the record
// and is the one-time-use commit point — under concurrent redemption of
// the same token exactly one Claim succeeds.
type recoveryTokenStore interface {
	Save(ctx context.Context, token string, record recoveryRecord, ttl time.Duration) error
	Get(ctx context.Context, token string) (*recoveryRecord, error)
	Claim(ctx context.Context, token string) (*recoveryRecord, error)
}

// memoryRecoveryStore keeps tokens in a mutex-guarded map. Expiry is
// lazy: expired records are dropped when touched, and Save sweeps the
// whole map so abandoned tokens cannot accumulate unbounded.
type memoryRecoveryStore struct {
	mu     sync.Mutex
	tokens map[string]recoveryRecord
	now    func() time.Time
}

func newMemoryRecoveryStore() *memoryRecoveryStore {
	return &memoryRecoveryStore{
		tokens: make(map[string]recoveryRecord),
		now:    time.Now,
	}
}

func (s *memoryRecoveryStore) Save(_ context.Context, token string, record recoveryRecord, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowUnix := s.now().Unix()
	for existing, rec := range s.tokens {
		if nowUnix >= rec.ExpiresAt {
			delete(s.tokens, existing)
		}
	}

	s.tokens[token] = record
	return nil
}

func (s *memoryRecoveryStore) Get(_ context.Context, token string) (*recoveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[token]
	if !ok {
		return nil, ErrInvalidOrExpiredToken
	}
	if s.now().Unix() >= record.ExpiresAt {
		delete(s.tokens, token)
		return nil, ErrInvalidOrExpiredToken
	}
	return &record, nil
}

func (s *memoryRecoveryStore) Claim(_ context.Context, token string) (*recoveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[token]
	if !ok {
		return nil, ErrInvalidOrExpiredToken
	}
	delete(s.tokens, token)
	if s.now().Unix() >= record.ExpiresAt {
		return nil, ErrInvalidOrExpiredToken
	}
	return &record, nil
}
