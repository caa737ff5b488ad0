package locking

import (
	"context"
	"sync"
)

// KeyedMutex keeps one lock per key inside the process. Locks are created on
// first use and never removed, so a key always maps to the same lock. Each
// lock is a one-slot channel so that waiters can give up when ctx is done.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]chan struct{}
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int64]chan struct{})}
}

func (k *KeyedMutex) Lock(ctx context.Context, key int64) (Unlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slot := k.slotFor(key)
	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() { once.Do(func() { <-slot }) }, nil
}

func (k *KeyedMutex) slotFor(key int64) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	slot, ok := k.locks[key]
	if !ok {
		slot = make(chan struct{}, 1)
		k.locks[key] = slot
	}
	return slot
}

// Len reports how many keys have a lock.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
