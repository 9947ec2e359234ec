package runner

import "sync"

// LockRegistry hands out one mutex per symbol. Handles are created lazily and
// never removed; the symbol universe is finite. The registry mutex guards only
// the lazy creation, not the acquire/release hot path.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

func (r *LockRegistry) handle(symbol string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		r.locks[symbol] = l
	}
	return l
}

// TryAcquire takes the symbol's lock without blocking. A false return means
// another worker holds it and this dispatch must be abandoned, not queued.
func (r *LockRegistry) TryAcquire(symbol string) bool {
	return r.handle(symbol).TryLock()
}

// Release frees the symbol's lock. Must only be called by the holder.
func (r *LockRegistry) Release(symbol string) {
	r.handle(symbol).Unlock()
}
