package credguard

import "context"

// EnableMFA provisions a TOTP secret for the user and persists it
// without activating MFA — activation happens in [Service.ActivateMFA]
// once the user proves their authenticator works.
//
// Re-enrollment policy: when a secret already exists (active or not) it
// is preserved and returned unchanged, so calling EnableMFA twice never
// invalidates an in-flight authenticator setup. A fresh secret is only
// generated after [Service.DisableMFA] cleared the old one.
func (s *Service) EnableMFA(ctx context.Context, userID string) (string, error) {
	if s == nil || s.store == nil || s.totp == nil {
		return "", ErrServiceNotReady
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.MFASecret != "" {
		return user.MFASecret, nil
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		return "", err
	}

	user.MFASecret = secret
	if err := s.store.Save(ctx, user); err != nil {
		return "", err
	}
	return secret, nil
}

// VerifyCode checks a TOTP code against the user's secret, accepting
// one step of clock skew on either side. A user without a secret fails
// closed: the answer is false, never an error that leaks state.
func (s *Service) VerifyCode(_ context.Context, user *User, code string) (bool, error) {
	if s == nil || s.totp == nil {
		return false, ErrServiceNotReady
	}
	if user == nil || user.MFASecret == "" {
		return false, nil
	}

	ok, err := s.totp.VerifyCode(user.MFASecret, code, s.now())
	if err != nil {
		return false, err
	}
	if ok {
		s.metricInc(MetricMFASuccess)
	} else {
		s.metricInc(MetricMFAFailure)
	}
	return ok, nil
}

// ActivateMFA commits the SecretGenerated -> Active transition: it
// verifies the code against the provisioned secret and only then
// persists MFAEnabled. Verification never flips the flag on its own.
func (s *Service) ActivateMFA(ctx context.Context, userID, code string) error {
	if s == nil || s.store == nil {
		return ErrServiceNotReady
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFASecret == "" {
		return ErrMFANotEnrolled
	}

	ok, err := s.VerifyCode(ctx, user, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidMFACode
	}

	if user.MFAEnabled {
		return nil
	}
	user.MFAEnabled = true
	return s.store.Save(ctx, user)
}

// DisableMFA clears both the enabled flag and the secret in one write,
// keeping the invariant that an enabled user always has a secret.
// Enabling MFA again afterwards generates a fresh secret.
func (s *Service) DisableMFA(ctx context.Context, userID string) error {
	if s == nil || s.store == nil {
		return ErrServiceNotReady
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAEnabled && user.MFASecret == "" {
		return nil
	}

	user.MFAEnabled = false
	user.MFASecret = ""
	return s.store.Save(ctx, user)
}

// ProvisioningURI renders the otpauth:// URI for the user's provisioned
// secret, labelled with their email, ready for client-side QR
// rendering. Fails with [ErrMFANotEnrolled] before enrollment begins.
func (s *Service) ProvisioningURI(user *User) (string, error) {
	if s == nil || s.totp == nil {
		return "", ErrServiceNotReady
	}
	if user == nil || user.MFASecret == "" {
		return "", ErrMFANotEnrolled
	}
	return s.totp.ProvisionURI(user.MFASecret, user.Email), nil
}
