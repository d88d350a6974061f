package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every verification failure: bad signature,
// wrong algorithm, expired, malformed, wrong issuer.
var ErrTokenInvalid = errors.New("invalid session token")

// Config configures a [Manager]. Secret must be at least 32 bytes; TTL
// must be positive.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// Manager issues and verifies session tokens. Immutable after
// construction and safe for concurrent use.
type Manager struct {
	config Config
}

// SessionClaims is the claim set carried by issued tokens.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("session token secret must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session token ttl must be positive")
	}
	return &Manager{config: cfg}, nil
}

// Issue signs a token for username expiring after the configured TTL.
func (m *Manager) Issue(username string) (string, error) {
	if m == nil {
		return "", errors.New("jwt manager not initialized")
	}

	now := time.Now()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.Secret)
}

// Verify parses and validates a token, enforcing the HS256 method and
// the configured issuer, and returns its claims.
func (m *Manager) Verify(tokenString string) (*SessionClaims, error) {
	if m == nil {
		return nil, errors.New("jwt manager not initialized")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrTokenInvalid
			}
			return m.config.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
