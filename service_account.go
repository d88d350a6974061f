package credguard

import (
	"context"
	"errors"
	"strings"
)

// Register creates a new account with a hashed password. Uniqueness of
// username and email is enforced by the CredentialStore's Save, which
// reports [ErrDuplicateUser]; Register additionally pre-checks both so
// the common case fails before hashing work is done.
func (s *Service) Register(ctx context.Context, username, email, plaintext string) (*User, error) {
	if s == nil || s.store == nil || s.hasher == nil {
		return nil, ErrServiceNotReady
	}

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, errors.New("username and email are required")
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of update to the user. A new
// password is hashed before it touches the store; username and email
// changes go through the same uniqueness enforcement as Register via
// Save.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	if s == nil || s.store == nil || s.hasher == nil {
		return nil, ErrServiceNotReady
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil && *update.Username != "" {
		user.Username = strings.TrimSpace(*update.Username)
	}
	if update.Email != nil && *update.Email != "" {
		user.Email = strings.TrimSpace(*update.Email)
	}
	if update.NewPassword != nil && *update.NewPassword != "" {
		hash, err := s.hasher.Hash(*update.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
