package credguard

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// IssueRecoveryToken generates a single-use password-reset token for
// the account behind email, valid for the configured TTL. Unknown
// emails return [ErrUserNotFound] with no token stored; callers facing
// untrusted clients should respond generically rather than relay it.
func (s *Service) IssueRecoveryToken(ctx context.Context, email string) (string, error) {
	if s == nil || s.store == nil || s.recovery == nil {
		return "", ErrServiceNotReady
	}
	if err := s.enforceRateLimit(ctx); err != nil {
		return "", err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	ttl := s.config.Recovery.TokenTTL
	record := recoveryRecord{
		UserID:    user.ID,
		ExpiresAt: s.now().Add(ttl).Unix(),
	}
	if err := s.recovery.Save(ctx, token, record, ttl); err != nil {
		return "", err
	}

	s.metricInc(MetricRecoveryIssued)
	return token, nil
}

// ResetPassword redeems a recovery token. Checks run in a fixed order
// and later steps assume earlier ones passed: token validity, then user
// existence, then the MFA gate for MFA-enabled accounts, then the
// password mutation. Any failure leaves both the token and the user
// untouched — a reset attempt that stumbles on the MFA code can be
// retried with the same token.
//
// The token is claimed atomically between the MFA gate and the
// password write, so of any concurrent redemptions of one token exactly
// one reaches the mutation; the rest fail with
// [ErrInvalidOrExpiredToken].
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, mfaCode string) error {
	if s == nil || s.store == nil || s.hasher == nil || s.recovery == nil {
		return ErrServiceNotReady
	}

	record, err := s.recovery.Get(ctx, token)
	if err != nil {
		s.metricInc(MetricRecoveryRejected)
		return err
	}

	user, err := s.store.FindByID(ctx, record.UserID)
	if err != nil {
		s.metricInc(MetricRecoveryRejected)
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.MFAEnabled {
		if mfaCode == "" {
			s.metricInc(MetricRecoveryRejected)
			return ErrMFACodeRequired
		}
		ok, err := s.VerifyCode(ctx, user, mfaCode)
		if err != nil {
			return err
		}
		if !ok {
			s.metricInc(MetricRecoveryRejected)
			return ErrInvalidMFACode
		}
	}

	if _, err := s.recovery.Claim(ctx, token); err != nil {
		s.metricInc(MetricRecoveryRejected)
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.store.Save(ctx, user); err != nil {
		return err
	}

	s.metricInc(MetricRecoveryConsumed)
	return nil
}
