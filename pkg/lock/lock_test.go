package lock

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMutualExclusion(t *testing.T) {
	r := NewRegistry()

	var acquired int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryAcquire("generate", "u1:wellness", time.Minute) {
				atomic.AddInt32(&acquired, 1)
			}
		}()
	}
	wg.Wait()

	if acquired != 1 {
		t.Fatalf("expected exactly one winner, got %d", acquired)
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	r := NewRegistry()

	if !r.TryAcquire("generate", "u1", time.Minute) {
		t.Fatal("first acquire should succeed")
	}
	if r.TryAcquire("generate", "u1", time.Minute) {
		t.Fatal("second acquire should fail while held")
	}
	r.Release("generate", "u1")
	if !r.TryAcquire("generate", "u1", time.Minute) {
		t.Fatal("acquire after release should succeed")
	}
}

func TestStaleTakeover(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	if !r.TryAcquire("generate", "u1", 30*time.Second) {
		t.Fatal("first acquire should succeed")
	}
	if !r.IsLocked("generate", "u1") {
		t.Fatal("lock should be live")
	}

	// The holder never releases; once the timeout elapses the lock is dead.
	now = now.Add(30 * time.Second)
	if r.IsLocked("generate", "u1") {
		t.Fatal("stale lock should not count as held")
	}
	if !r.TryAcquire("generate", "u1", 30*time.Second) {
		t.Fatal("stale lock should be silently replaced")
	}
}

func TestDistinctKeysDoNotContend(t *testing.T) {
	r := NewRegistry()
	if !r.TryAcquire("generate", "u1", time.Minute) {
		t.Fatal("acquire u1")
	}
	if !r.TryAcquire("generate", "u2", time.Minute) {
		t.Fatal("u2 must not contend with u1")
	}
	if !r.TryAcquire("refresh", "u1", time.Minute) {
		t.Fatal("different operation must not contend")
	}
}

func TestWithLock(t *testing.T) {
	r := NewRegistry()

	err := r.WithLock("generate", "u1", time.Minute, func() error {
		if got := r.WithLock("generate", "u1", time.Minute, func() error { return nil }); !errors.Is(got, ErrAlreadyInProgress) {
			t.Fatalf("nested acquire should report contention, got %v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lock must be free again even when fn fails.
	wantErr := errors.New("boom")
	if err := r.WithLock("generate", "u1", time.Minute, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if r.IsLocked("generate", "u1") {
		t.Fatal("lock should be released after error")
	}
}

func TestWithLockReleasesOnPanic(t *testing.T) {
	r := NewRegistry()

	func() {
		defer func() { _ = recover() }()
		_ = r.WithLock("generate", "u1", time.Minute, func() error {
			panic("boom")
		})
	}()

	if r.IsLocked("generate", "u1") {
		t.Fatal("lock should be released after panic")
	}
}

func TestSweep(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	r.TryAcquire("generate", "old", time.Second)
	r.TryAcquire("generate", "new", time.Hour)

	now = now.Add(time.Minute)
	r.Sweep()

	r.mu.Lock()
	n := len(r.locks)
	r.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected one live entry after sweep, have %d", n)
	}
}
