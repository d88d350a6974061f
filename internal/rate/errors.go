package rate

import "errors"

// ErrRedisUnavailable wraps transport failures from the Redis backend.
// The in-process backend never returns it.
var ErrRedisUnavailable = errors.New("rate limiter redis unavailable")
