package core

import (
	"fmt"
	"strings"
	"sync"
)

// KeyLocker serializes work on the same asset. Keys are joined into one
// identity ("image/upload/cats/tom"), so uploads targeting different public
// ids never wait on each other.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*assetLock
}

type assetLock struct {
	mu      sync.Mutex
	waiters int
}

// NewKeyLocker creates an empty locker.
func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: make(map[string]*assetLock)}
}

// Lock blocks until the identity built from keys is free and returns the
// release function. Entries are dropped once nobody holds or waits on them.
func (kl *KeyLocker) Lock(keys ...any) func() {
	key := lockKey(keys)

	kl.mu.Lock()
	l, ok := kl.locks[key]
	if !ok {
		l = &assetLock{}
		kl.locks[key] = l
	}
	l.waiters++
	kl.mu.Unlock()

	l.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			kl.mu.Lock()
			l.waiters--
			if l.waiters == 0 {
				delete(kl.locks, key)
			}
			kl.mu.Unlock()
		})
	}
}

// held returns the number of identities currently locked or awaited.
func (kl *KeyLocker) held() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.locks)
}

func lockKey(keys []any) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strings.Trim(fmt.Sprint(k), "/"))
	}
	return strings.Join(parts, "/")
}
