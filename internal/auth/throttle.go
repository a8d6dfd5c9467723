package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "passgate:login_attempts:"

// LoginThrottle counts failed login attempts per email in Redis. Redis
// outages fail open: an unavailable counter must not lock everyone out.
type LoginThrottle struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *slog.Logger
}

// NewLoginThrottle constructs a throttle. A nil client or non-positive max
// disables throttling.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration, logger *slog.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, max: max, window: window, logger: logger}
}

// Blocked reports whether the email exceeded its failure budget.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) bool {
	if t == nil || t.client == nil || t.max <= 0 {
		return false
	}
	count, err := t.client.Get(ctx, t.key(email)).Int()
	if err != nil {
		if err != redis.Nil && t.logger != nil {
			t.logger.Warn("login throttle read", slog.Any("error", err))
		}
		return false
	}
	return count >= t.max
}

// RecordFailure increments the failure counter and refreshes its window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	if t == nil || t.client == nil || t.max <= 0 {
		return
	}
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, t.key(email))
	pipe.Expire(ctx, t.key(email), t.window)
	if _, err := pipe.Exec(ctx); err != nil && t.logger != nil {
		t.logger.Warn("login throttle record", slog.Any("error", err))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil || t.client == nil {
		return
	}
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil && t.logger != nil {
		t.logger.Warn("login throttle reset", slog.Any("error", err))
	}
}

func (t *LoginThrottle) key(email string) string {
	return throttleKeyPrefix + strings.ToLower(email)
}
