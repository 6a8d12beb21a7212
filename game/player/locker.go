package player

import "sync"

// Locker serializes state mutation per player. Two concurrent action
// resolutions for the same username must not interleave; different
// players mutate in parallel.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for username, creating it on first use.
// Entries are never evicted; the per-player footprint is one mutex.
func (l *Locker) Lock(username string) {
	l.mu.Lock()
	m, ok := l.locks[username]
	if !ok {
		m = &sync.Mutex{}
		l.locks[username] = m
	}
	l.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for username.
func (l *Locker) Unlock(username string) {
	l.mu.Lock()
	m := l.locks[username]
	l.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
