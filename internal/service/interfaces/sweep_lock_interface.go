package interfaces

import (
	"context"
	"time"
)

// SweepLockInterface is the advisory lock excluding concurrent sweep runs.
type SweepLockInterface interface {
	AcquireSweepLock(ctx context.Context, owner string, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context, owner string) error
}
