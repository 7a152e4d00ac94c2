package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates session access across replicas, so two
// front-door instances can never drive the same conversation at once.
type DistributedLocker interface {
	// Lock acquires a distributed lock for the given key (the session ID).
	// It blocks until acquired or the context is canceled. The returned
	// UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
