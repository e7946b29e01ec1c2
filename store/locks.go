package store

import "sync"

// UserLocks hands out one mutex per username. The store itself has no
// transactions, so every read-modify-write of a user record must hold
// that user's lock or two concurrent order operations can clobber each
// other's snapshot.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the user's mutex and returns the unlock function.
//
//	defer locks.Lock(username)()
func (l *UserLocks) Lock(username string) func() {
	l.mu.Lock()
	m, ok := l.locks[username]
	if !ok {
		m = &sync.Mutex{}
		l.locks[username] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
