// Package password provides the Argon2id credential hasher used as
// credguard's default PasswordHasher. Hashes are self-describing PHC
// strings, so parameters can be raised later without invalidating
// existing credentials.
package password
