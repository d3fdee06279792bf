// Package rate enforces the per-client-address login budget with Redis
// counters. It is independent of operator identity: it defends against
// credential stuffing spread across many accounts from a single address,
// which the per-operator lockout guard cannot see.
package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "aauth:rl:"

// Config holds rate limiter tuning parameters.
type Config struct {
	// MaxAttempts is the request budget per window.
	MaxAttempts int
	// Window is the fixed counting window; it also bounds the retry-after
	// hint returned on rejection.
	Window time.Duration
}

// Limiter counts login requests per client address in fixed windows.
// Counters live in Redis so multiple service instances share one view.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a Limiter backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{redis: redisClient, config: cfg}
}

func key(addr string) string {
	return keyPrefix + addr
}

// Check reports whether the address is within budget. When the budget is
// exhausted it returns ErrLimited together with the time remaining until
// the window resets. Check does not consume budget.
func (l *Limiter) Check(ctx context.Context, addr string) (time.Duration, error) {
	if addr == "" {
		return 0, nil
	}

	count, err := l.redis.Get(ctx, key(addr)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if count < int64(l.config.MaxAttempts) {
		return 0, nil
	}

	retryAfter, err := l.redis.PTTL(ctx, key(addr)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if retryAfter < 0 {
		retryAfter = l.config.Window
	}
	return retryAfter, ErrLimited
}

// Record consumes one unit of the address's budget. The window TTL is set
// when the counter is created, so budget expires as a block.
func (l *Limiter) Record(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}

	count, err := l.redis.Incr(ctx, key(addr)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key(addr), l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}
	return nil
}

// Reset clears the address's counter, typically after a successful login.
func (l *Limiter) Reset(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	if err := l.redis.Del(ctx, key(addr)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}
