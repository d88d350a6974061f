package credguard

import (
	"context"
	"errors"
)

// Authenticate checks username and password and returns the matching
// user. It has no side effects on success: the caller inspects
// User.MFAEnabled to decide between finalizing a session and issuing an
// MFA challenge (or uses [Service.Login], which does that).
//
// Unknown usernames and wrong passwords both fail with
// [ErrInvalidCredentials]; nothing in the error distinguishes them.
func (s *Service) Authenticate(ctx context.Context, username, plaintext string) (*User, error) {
	if s == nil || s.store == nil || s.hasher == nil {
		return nil, ErrServiceNotReady
	}
	if err := s.enforceRateLimit(ctx); err != nil {
		return nil, err
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metricInc(MetricLoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(plaintext, user.PasswordHash)
	if err != nil || !ok {
		s.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and decides the next state. For MFA-enabled users
// it returns MFARequired without a session token — the password alone
// does not finalize anything. Otherwise it mints a session token when
// token issuance is configured.
func (s *Service) Login(ctx context.Context, username, plaintext string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, plaintext)
	if err != nil {
		return nil, err
	}

	if user.MFAEnabled {
		s.metricInc(MetricLoginMFARequired)
		return &LoginResult{User: user, MFARequired: true}, nil
	}

	result := &LoginResult{User: user}
	if s.tokens != nil {
		token, err := s.tokens.Issue(user.Username)
		if err != nil {
			return nil, err
		}
		result.SessionToken = token
	}

	s.metricInc(MetricLoginSuccess)
	return result, nil
}

// LoginWithCode is the passwordless path: an MFA-enabled user signs in
// with a current TOTP code instead of a password. Users without active
// MFA must use the password flow and get [ErrMFANotEnrolled].
func (s *Service) LoginWithCode(ctx context.Context, username, code string) (*LoginResult, error) {
	if s == nil || s.store == nil || s.totp == nil {
		return nil, ErrServiceNotReady
	}
	if err := s.enforceRateLimit(ctx); err != nil {
		return nil, err
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metricInc(MetricLoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.MFAEnabled {
		return nil, ErrMFANotEnrolled
	}

	ok, err := s.VerifyCode(ctx, user, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.metricInc(MetricLoginFailure)
		return nil, ErrInvalidMFACode
	}

	result := &LoginResult{User: user}
	if s.tokens != nil {
		token, err := s.tokens.Issue(user.Username)
		if err != nil {
			return nil, err
		}
		result.SessionToken = token
	}

	s.metricInc(MetricLoginSuccess)
	return result, nil
}
