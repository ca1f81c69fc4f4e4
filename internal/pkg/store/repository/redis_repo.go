package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepLockKey = "coopcredit:delinquency:sweep:lock"

// RedisStoreAdapter wraps the redis client behind the store interface used
// by services.
type RedisStoreAdapter struct {
	client *redis.Client
}

func NewRedisStoreAdapter(client *redis.Client) *RedisStoreAdapter {
	return &RedisStoreAdapter{client: client}
}

// AcquireSweepLock takes the advisory sweep lock. The late-fee idempotency
// guard is a read-before-write check against Mongo, so concurrent sweep
// invocations must be excluded here.
func (a *RedisStoreAdapter) AcquireSweepLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	return a.client.SetNX(ctx, sweepLockKey, owner, ttl).Result()
}

// ReleaseSweepLock drops the lock only when still held by the given owner.
func (a *RedisStoreAdapter) ReleaseSweepLock(ctx context.Context, owner string) error {
	val, err := a.client.Get(ctx, sweepLockKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if val != owner {
		return nil
	}
	return a.client.Del(ctx, sweepLockKey).Err()
}
