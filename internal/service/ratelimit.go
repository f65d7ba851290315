package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"kampusconnect.id/forum/pkg/apperror"
)

// CheckAndSetRateLimit reserves a per-user slot for action. It returns false
// when the user acted within the window. Without Redis there is no shared
// state to throttle on, so everything is allowed.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:user:%s:%s", userID, action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// GetRateLimitTTL reports how long until the user may repeat the action.
func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID, action)
	return rdb.TTL(ctx, key).Result()
}

// rateLimitedError builds the 429 error, carrying the remaining window so the
// handler can emit a Retry-After header. Falls back to the full window when
// the TTL cannot be read.
func rateLimitedError(ctx context.Context, rdb *redis.Client, userID, action string, window time.Duration) error {
	ttl, err := GetRateLimitTTL(ctx, rdb, userID, action)
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return &apperror.RateLimitError{RetryAfter: ttl}
}
