package credguard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestIssueRecoveryTokenUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, testConfig())

	token, err := svc.IssueRecoveryToken(context.Background(), "bob@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if token != "" {
		t.Fatal("no token may be created for an unknown email")
	}

	mem := svc.recovery.(*memoryRecoveryStore)
	mem.mu.Lock()
	defer mem.mu.Unlock()
	if len(mem.tokens) != 0 {
		t.Fatal("token map must stay empty")
	}
}

func TestResetPasswordRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")

	token, err := svc.IssueRecoveryToken(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("IssueRecoveryToken failed: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass", ""); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "correct-horse-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password must no longer authenticate")
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "brand-new-pass"); err != nil {
		t.Fatalf("new password must authenticate: %v", err)
	}
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")

	token, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")
	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass", ""); err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), token, "another-pass-9", ""); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("second redemption: expected ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")

	token, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")

	// Advance the store's clock past the 1 hour TTL.
	mem := svc.recovery.(*memoryRecoveryStore)
	mem.now = func() time.Time { return time.Now().Add(time.Hour + time.Minute) }

	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass", ""); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "correct-horse-1"); err != nil {
		t.Fatal("expired redemption must not have touched the password")
	}
}

func TestIssueTwiceYieldsDistinctTokens(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")

	first, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")
	second, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")
	if first == second {
		t.Fatal("expected distinct tokens")
	}

	// Both redeem independently.
	if err := svc.ResetPassword(context.Background(), first, "brand-new-pass", ""); err != nil {
		t.Fatalf("first token failed: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), second, "other-new-pass", ""); err != nil {
		t.Fatalf("second token failed: %v", err)
	}
}

func TestResetPasswordMFAGate(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	u := registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")
	secret := enrollAndActivate(t, svc, u.ID)

	token, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")

	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass", ""); !errors.Is(err, ErrMFACodeRequired) {
		t.Fatalf("expected ErrMFACodeRequired, got %v", err)
	}
	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass", "000000"); !errors.Is(err, ErrInvalidMFACode) {
		t.Fatalf("expected ErrInvalidMFACode, got %v", err)
	}

	// Both failures leave the token redeemable.
	code := codeForOffset(t, secret, svc.config.TOTP, svc.now(), 0)
	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass", code); err != nil {
		t.Fatalf("reset with valid code failed: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "brand-new-pass"); err != nil {
		t.Fatalf("new password must authenticate: %v", err)
	}
}

func TestResetPasswordUserDeletedAfterIssue(t *testing.T) {
	svc, store := newTestService(t, testConfig())
	u := registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")

	token, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")
	delete(store.users, u.ID)

	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass", ""); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResetPasswordConcurrentRedemption(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")

	token, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.ResetPassword(context.Background(), token, "brand-new-pass", "")
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInvalidOrExpiredToken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful redemption, got %d", successes)
	}
}

func TestRecoveryMetrics(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	registerUser(t, svc, "alice", "alice@example.com", "correct-horse-1")

	token, _ := svc.IssueRecoveryToken(context.Background(), "alice@example.com")
	_ = svc.ResetPassword(context.Background(), token, "brand-new-pass", "")
	_ = svc.ResetPassword(context.Background(), "no-such-token", "brand-new-pass", "")

	snap := svc.MetricsSnapshot()
	if snap.Counters[MetricRecoveryIssued] != 1 {
		t.Fatalf("expected 1 issued, got %d", snap.Counters[MetricRecoveryIssued])
	}
	if snap.Counters[MetricRecoveryConsumed] != 1 {
		t.Fatalf("expected 1 consumed, got %d", snap.Counters[MetricRecoveryConsumed])
	}
	if snap.Counters[MetricRecoveryRejected] != 1 {
		t.Fatalf("expected 1 rejected, got %d", snap.Counters[MetricRecoveryRejected])
	}
}
