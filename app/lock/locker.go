// Package lock provides distributed locking over Redis or MySQL. The
// dispatcher locks each (sender, target) pair for the duration of its
// check-send-record window; the sent_logs unique key remains the final
// authority.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrAlreadyHeld = errors.New("lock already held by this process")
var ErrNotAcquired = errors.New("lock not acquired")

// Locker abstracts distributed locking implementations.
type Locker interface {
	// Acquire attempts to lock a key for the given TTL without waiting.
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	// Release frees the lock for the given key.
	Release(ctx context.Context, key string) error
}

// PairKey names the lock guarding one (sender, target) send.
func PairKey(senderEmail, targetEmail string) string {
	return fmt.Sprintf("autoapply:pair:%s:%s", senderEmail, targetEmail)
}
