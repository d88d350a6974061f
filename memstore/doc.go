// Package memstore is an in-memory CredentialStore for tests, examples
// and development servers. It enforces the same uniqueness and
// per-record atomicity contract a database-backed store must provide.
package memstore
