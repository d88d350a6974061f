package credguard

import (
	"errors"
	"time"

	"github.com/credguard/credguard/internal/rate"
	"github.com/credguard/credguard/jwt"
	"github.com/credguard/credguard/password"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Service]. Configure it fluently, then call
// [Builder.Build] exactly once; the builder performs no I/O until then.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store  CredentialStore
	hasher PasswordHasher

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the user repository. Required.
func (b *Builder) WithStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithHasher overrides the built-in Argon2id hasher.
func (b *Builder) WithHasher(hasher PasswordHasher) *Builder {
	b.hasher = hasher
	return b
}

// WithRedis moves the recovery-token store and the rate limiter onto
// Redis so multiple instances share one token space and one set of
// rate windows. Without it both stay in process memory.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the Service.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("credential store is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		argon, err := password.NewArgon2(password.Config{
			Memory:      b.config.Password.Memory,
			Time:        b.config.Password.Time,
			Parallelism: b.config.Password.Parallelism,
			SaltLength:  b.config.Password.SaltLength,
			KeyLength:   b.config.Password.KeyLength,
		})
		if err != nil {
			return nil, err
		}
		hasher = argon
	}

	svc := &Service{
		config:  b.config,
		store:   b.store,
		hasher:  hasher,
		totp:    newTOTPManager(b.config.TOTP),
		metrics: NewMetrics(b.config.Metrics),
		now:     time.Now,
	}

	if b.redis != nil {
		svc.recovery = newRedisRecoveryStore(b.redis)
	} else {
		svc.recovery = newMemoryRecoveryStore()
	}

	if b.config.RateLimit.Limit > 0 {
		limiterCfg := rate.Config{
			Limit:  b.config.RateLimit.Limit,
			Window: b.config.RateLimit.Window,
		}
		if b.redis != nil {
			svc.limiter = rate.NewRedisLimiter(b.redis, limiterCfg)
		} else {
			svc.limiter = rate.NewMemoryLimiter(limiterCfg)
		}
	}

	if len(b.config.SessionToken.Secret) > 0 {
		manager, err := jwt.NewManager(jwt.Config{
			Secret: b.config.SessionToken.Secret,
			TTL:    b.config.SessionToken.TTL,
			Issuer: b.config.SessionToken.Issuer,
		})
		if err != nil {
			return nil, err
		}
		svc.tokens = manager
	}

	b.built = true
	return svc, nil
}
