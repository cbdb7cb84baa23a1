package service

import "sync"

// resourceMutex serializes mutating operations per resource within this
// process. The Mongo advisory lock covers other instances; this one
// avoids burning advisory-lock round trips on local contention.
type resourceMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceMutex() *resourceMutex {
	return &resourceMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the resource's mutex is held and returns the
// unlock function.
func (r *resourceMutex) Lock(resourceID string) func() {
	r.mu.Lock()
	lock, ok := r.locks[resourceID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[resourceID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
