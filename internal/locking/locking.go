// Package locking provides per-chalet mutual exclusion for reservation
// admission. Admissions for the same chalet are serialized; admissions for
// different chalets never share a lock.
package locking

import "context"

// Unlock releases a lock obtained from a Locker. It is safe to call exactly once.
type Unlock func()

type Locker interface {
	// Lock blocks until the caller holds exclusive admission rights for key.
	Lock(ctx context.Context, key int64) (Unlock, error)
}
