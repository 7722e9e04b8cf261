// Package lock implements keyed mutual exclusion for logical operations, so
// two callers never generate or persist the same entity at the same time.
package lock

import (
	"errors"
	"sync"
	"time"
)

// ErrAlreadyInProgress is returned by WithLock when another caller holds the
// lock for the same operation and entity.
var ErrAlreadyInProgress = errors.New("operation already in progress")

type lockEntry struct {
	acquiredAt time.Time
	timeout    time.Duration
}

func (e lockEntry) stale(now time.Time) bool {
	return now.Sub(e.acquiredAt) >= e.timeout
}

// Registry is an in-process named-lock table. A lock older than its own
// timeout is treated as not held and silently replaced on the next
// TryAcquire, so a crashed holder can never wedge an entity forever.
type Registry struct {
	mu    sync.Mutex
	locks map[string]lockEntry
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		locks: make(map[string]lockEntry),
		now:   time.Now,
	}
}

func key(operation, entity string) string {
	return operation + ":" + entity
}

// TryAcquire attempts to take the lock without blocking. It reports false if
// a live holder exists.
func (r *Registry) TryAcquire(operation, entity string, timeout time.Duration) bool {
	now := r.now()
	k := key(operation, entity)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.locks[k]; ok && !e.stale(now) {
		return false
	}
	r.locks[k] = lockEntry{acquiredAt: now, timeout: timeout}
	return true
}

func (r *Registry) Release(operation, entity string) {
	r.mu.Lock()
	delete(r.locks, key(operation, entity))
	r.mu.Unlock()
}

// IsLocked reports whether a live (non-stale) holder exists.
func (r *Registry) IsLocked(operation, entity string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.locks[key(operation, entity)]
	return ok && !e.stale(r.now())
}

// WithLock runs fn while holding the lock, releasing it on every path
// including panics. Contention surfaces as ErrAlreadyInProgress.
func (r *Registry) WithLock(operation, entity string, timeout time.Duration, fn func() error) error {
	if !r.TryAcquire(operation, entity, timeout) {
		return ErrAlreadyInProgress
	}
	defer r.Release(operation, entity)
	return fn()
}

// Sweep drops stale entries. Purely memory hygiene; TryAcquire already
// ignores stale locks.
func (r *Registry) Sweep() {
	now := r.now()
	r.mu.Lock()
	for k, e := range r.locks {
		if e.stale(now) {
			delete(r.locks, k)
		}
	}
	r.mu.Unlock()
}
