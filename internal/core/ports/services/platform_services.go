package services

import (
	"context"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
)

// Clock is the runtime clock. Now must be monotonic per block.
type Clock interface {
	Now() time.Time
}

// EventPublisher emits auction lifecycle events for indexers and audit logs.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AuctionEvent) error
}

// LockManager hands out exclusive, expiring locks.
type LockManager interface {
	// Acquire obtains the lock for key or returns domain.ErrLockHeld. The returned
	// unlock function is safe to call more than once.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}
