package credguard

import (
	"context"
	"time"

	"github.com/credguard/credguard/internal/rate"
	"github.com/credguard/credguard/jwt"
)

// Service orchestrates the credential store, the password hasher, the
// TOTP manager, the recovery-token store and the rate limiter. Build it
// through [Builder.Build]; afterwards it is immutable and safe for
// concurrent use.
type Service struct {
	config   Config
	store    CredentialStore
	hasher   PasswordHasher
	totp     *totpManager
	recovery recoveryTokenStore
	limiter  rate.Limiter
	tokens   *jwt.Manager
	metrics  *Metrics

	now func() time.Time
}

// MetricsSnapshot returns a copy of the current counters.
func (s *Service) MetricsSnapshot() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return s.metrics.Snapshot()
}

// RateLimiter exposes the configured limiter, for wiring into the
// middleware package or the caller's own gates. Nil when rate limiting
// is disabled.
func (s *Service) RateLimiter() rate.Limiter {
	if s == nil {
		return nil
	}
	return s.limiter
}

// Allow runs the rate-limit gate for clientID directly. Returns false
// when the client exhausted its window; true (without error) when rate
// limiting is disabled.
func (s *Service) Allow(ctx context.Context, clientID string) (bool, error) {
	if s == nil {
		return false, ErrServiceNotReady
	}
	if s.limiter == nil || clientID == "" {
		return true, nil
	}
	allowed, err := s.limiter.Allow(ctx, clientID)
	if err != nil {
		return false, err
	}
	if !allowed {
		s.metricInc(MetricRateLimited)
	}
	return allowed, nil
}

func (s *Service) metricInc(id MetricID) {
	if s == nil {
		return
	}
	s.metrics.Inc(id)
}

// enforceRateLimit rejects before business logic when the context
// carries a client identifier that is over budget.
func (s *Service) enforceRateLimit(ctx context.Context) error {
	allowed, err := s.Allow(ctx, ClientIDFromContext(ctx))
	if err != nil {
		return err
	}
	if !allowed {
		return ErrRateLimitExceeded
	}
	return nil
}
