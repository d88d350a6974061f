package credguard

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown usernames and
	// wrong passwords, deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a referenced user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already registered")
	// ErrRateLimitExceeded is returned before any business logic runs when
	// the caller's client identifier exhausted its request window.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrMFANotEnrolled is returned by operations that need a provisioned
	// TOTP secret when the user has none.
	ErrMFANotEnrolled = errors.New("mfa not enrolled")
	// ErrMFACodeRequired is returned when an MFA-enabled user attempts a
	// guarded operation without supplying a code.
	ErrMFACodeRequired = errors.New("mfa code required")
	// ErrInvalidMFACode is returned when TOTP verification fails.
	ErrInvalidMFACode = errors.New("invalid mfa code")
	// ErrInvalidOrExpiredToken covers unknown, expired, and already
	// consumed recovery tokens alike.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired recovery token")
	// ErrServiceNotReady is returned when a Service method is called on a
	// nil or incompletely built receiver.
	ErrServiceNotReady = errors.New("service not initialized")
	// ErrStoreUnavailable wraps infrastructure failures from a backing
	// store (Redis, CredentialStore I/O).
	ErrStoreUnavailable = errors.New("backing store unavailable")
)
