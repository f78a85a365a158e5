package core

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyLocker_SameAssetIsSerialized(t *testing.T) {
	kl := NewKeyLocker()
	var active, maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer kl.Lock(ResourceTypeImage, "cats/tom")()
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("expected at most one holder at a time, got %d", maxActive)
	}
	if held := kl.held(); held != 0 {
		t.Errorf("expected locks to be released, %d still held", held)
	}
}

func TestKeyLocker_DifferentAssetsDoNotBlock(t *testing.T) {
	kl := NewKeyLocker()
	unlock := kl.Lock(ResourceTypeImage, "cats/tom")
	defer unlock()

	done := make(chan struct{})
	go func() {
		kl.Lock(ResourceTypeImage, "cats/felix")()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different public id blocked")
	}
}

func TestKeyLocker_ReleaseIsIdempotent(t *testing.T) {
	kl := NewKeyLocker()
	unlock := kl.Lock("video", "clip")
	unlock()
	unlock()

	if held := kl.held(); held != 0 {
		t.Errorf("held = %d, want 0", held)
	}
	// The identity can be taken again.
	kl.Lock("video", "clip")()
}

func TestLockKey(t *testing.T) {
	tests := []struct {
		keys []any
		want string
	}{
		{[]any{ResourceTypeImage, "cats/tom"}, "image/cats/tom"},
		{[]any{"raw", "/docs/", 3}, "raw/docs/3"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := lockKey(tt.keys); got != tt.want {
			t.Errorf("lockKey(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}
