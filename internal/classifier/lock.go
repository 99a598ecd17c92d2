package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker guards pass-level exclusivity. Exactly one classification pass may
// run at a time across all instances.
type Locker interface {
	// Acquire attempts to take the named lock for the given TTL. It returns
	// false without error when another holder already owns the lock.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops the named lock. Releasing an expired or foreign lock is
	// not an error.
	Release(ctx context.Context, key string) error
}

// RedisLocker implements pass exclusivity with a Redis SET NX key.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a Redis-backed locker.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}
