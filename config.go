package credguard

import (
	"errors"
	"time"
)

// Config carries every tunable for a [Service]. Zero values are filled
// in from [DefaultConfig] by the builder; validation happens once at
// [Builder.Build] and the config is immutable afterwards.
type Config struct {
	TOTP         TOTPConfig
	Password     PasswordConfig
	Recovery     RecoveryConfig
	RateLimit    RateLimitConfig
	SessionToken SessionTokenConfig
	Metrics      MetricsConfig
}

/*
====================================
TOTP CONFIG
====================================
*/

// TOTPConfig controls secret generation and code verification.
//
// Skew is the number of 30-second steps accepted on either side of the
// current one. It defaults to 1 and must stay >= 1: rejecting valid
// codes because of client clock drift is a usability defect, not a
// hardening measure.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int // seconds per step
	Skew      int
	Algorithm string // SHA1 (default), SHA256, SHA512
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds the Argon2id parameters for the built-in hasher.
// Ignored when the builder is given a custom [PasswordHasher].
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
RECOVERY CONFIG
====================================
*/

// RecoveryConfig controls recovery-token issuance.
type RecoveryConfig struct {
	TokenTTL time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig shapes the fixed-window counter guarding login and
// recovery endpoints. A client gets Limit requests per Window; the
// window resets when it elapses. Disabled when Limit <= 0.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

/*
====================================
SESSION TOKEN CONFIG
====================================
*/

// SessionTokenConfig configures the HS256 token minted on full login
// success. Token issuance is skipped entirely when Secret is empty —
// integrators running their own session layer leave it unset.
type SessionTokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig enables the in-process atomic counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: 6-digit SHA1 TOTP
// with 30s period and ±1 step skew, Argon2id at 64 MB / t=3 / p=2,
// 1-hour recovery tokens, and 5 requests per 60s window.
func DefaultConfig() Config {
	return Config{
		TOTP: TOTPConfig{
			Issuer:    "credguard",
			Digits:    6,
			Period:    30,
			Skew:      1,
			Algorithm: "SHA1",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Recovery: RecoveryConfig{
			TokenTTL: time.Hour,
		},
		RateLimit: RateLimitConfig{
			Limit:  5,
			Window: 60 * time.Second,
		},
		SessionToken: SessionTokenConfig{
			TTL:    time.Hour,
			Issuer: "credguard",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func validateConfig(cfg Config) error {
	if cfg.TOTP.Digits < 6 || cfg.TOTP.Digits > 10 {
		return errors.New("totp digits must be between 6 and 10")
	}
	if cfg.TOTP.Period <= 0 {
		return errors.New("totp period must be positive")
	}
	if cfg.TOTP.Skew < 1 {
		return errors.New("totp skew must be at least 1 step")
	}
	switch cfg.TOTP.Algorithm {
	case "", "SHA1", "SHA256", "SHA512":
	default:
		return errors.New("unsupported totp algorithm")
	}
	if cfg.Recovery.TokenTTL <= 0 {
		return errors.New("recovery token ttl must be positive")
	}
	if cfg.RateLimit.Limit > 0 && cfg.RateLimit.Window <= 0 {
		return errors.New("rate limit window must be positive")
	}
	if len(cfg.SessionToken.Secret) > 0 {
		if len(cfg.SessionToken.Secret) < 32 {
			return errors.New("session token secret must be at least 32 bytes")
		}
		if cfg.SessionToken.TTL <= 0 {
			return errors.New("session token ttl must be positive")
		}
	}
	return nil
}
