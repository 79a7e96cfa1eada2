package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter kept in redis, shared by every process
// pointing at the same instance.
type Limiter struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

// NewLimiter allows max calls per window. A max of zero or less disables the limiter.
func NewLimiter(client *redis.Client, prefix string, max int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: prefix,
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.max > 0 && l.client != nil
}

// Allow consumes one call from the current window and reports whether it was within quota.
func (l *Limiter) Allow(ctx context.Context) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}

	key := l.key(l.now())

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiration on first call of the window
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}

	return count <= l.max, nil
}

func (l *Limiter) key(t time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", l.prefix, t.UnixNano()/int64(l.window))
}
