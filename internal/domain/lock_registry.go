package domain

import "sync"

// LockRegistry hands out one mutex per section id.  The retry protocol in
// the service layer re-reads a fresh Section value on every attempt, so
// per-instance locks can't serialize two attempts against the same
// persisted section within one process; the registry gives them a shared
// lock keyed by identity instead.  Locks are never evicted: the set of
// sections is small and bounded by administrative setup.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLockRegistry returns an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

// ForSection returns the mutex for the given section id, creating it on
// first use.
func (r *LockRegistry) ForSection(sectionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[sectionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sectionID] = l
	}
	return l
}
