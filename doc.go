// Package credguard is a credential and session-trust core: password
// authentication, optional TOTP multi-factor enrollment, single-use
// recovery tokens for password resets, and fixed-window rate limiting
// for the endpoints that guard all of the above.
//
// The package is designed to be embedded in a concurrent server. A
// [Service] built through [Builder.Build] is safe for use from multiple
// goroutines; all mutable state it owns (recovery tokens, rate windows)
// is either mutex-guarded in process memory or delegated to Redis.
//
// # Architecture boundaries
//
// credguard is the decision core only. User persistence is behind the
// [CredentialStore] interface, password hashing behind [PasswordHasher]
// (a ready Argon2id implementation lives in the password subpackage),
// and everything HTTP-shaped stays outside — the middleware subpackage
// offers a thin rate-limit guard, but routing, rendering, QR images and
// session cookies belong to the integrator.
//
// # What this package must NOT do
//
//   - Log or persist plaintext passwords or TOTP secrets in any form
//     other than what the CredentialStore is handed.
//   - Reveal through its error values whether a login failure was an
//     unknown username or a wrong password.
//   - Leave stored state partially mutated when an operation fails.
package credguard
