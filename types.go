package credguard

import "context"

// User is the account record exchanged with the [CredentialStore].
//
// The MFA invariant holds at all times: MFAEnabled is true only while
// MFASecret is non-empty. A user with a secret but MFAEnabled=false is
// mid-enrollment — the secret was provisioned but never confirmed.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	MFAEnabled   bool
	MFASecret    string // base32, empty until enrollment begins
}

// CredentialStore is the persistence interface callers must implement
// to integrate credguard with their user database. Each method is
// atomic at the single-record level; Save must return
// [ErrDuplicateUser] on a username or email uniqueness violation and is
// expected to serialize concurrent writes to the same record.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// PasswordHasher is the one-way credential hashing primitive. Hash must
// salt, Verify must compare in constant time. The password subpackage
// provides an Argon2id implementation.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (bool, error)
}

// LoginResult is returned by [Service.Login]. When MFARequired is set
// the password checked out but the caller must collect a TOTP code and
// finish via [Service.LoginWithCode] (or its own challenge flow) before
// treating the user as authenticated; SessionToken is empty until then.
type LoginResult struct {
	User         *User
	MFARequired  bool
	SessionToken string
}

// ProfileUpdate carries the optional field changes for
// [Service.UpdateProfile]. Nil fields are left untouched.
type ProfileUpdate struct {
	Username    *string
	Email       *string
	NewPassword *string
}
