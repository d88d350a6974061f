package rate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rlw"

// RedisLimiter shares fixed windows across instances: INCR opens or
// extends the counter, and the first increment of a window arms an
// EXPIRE matching the window length, so the key itself is the window.
type RedisLimiter struct {
	redis  redis.UniversalClient
	config Config
}

// NewRedisLimiter creates a Redis-backed [Limiter].
func NewRedisLimiter(client redis.UniversalClient, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		redis:  client,
		config: cfg,
	}
}

// Allow implements [Limiter].
func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (bool, error) {
	key := redisKeyPrefix + ":" + clientID

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count <= int64(l.config.Limit), nil
}
