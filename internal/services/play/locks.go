package play

import (
	"sync"

	"github.com/mcoot/musicbingo/internal/model"
)

// sessionLocks serialises read-modify-write cycles per session. Entries are
// reference counted and dropped once no caller holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[model.SessionID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[model.SessionID]*sessionLock)}
}

// lock blocks until the caller owns the session and returns the release func
func (l *sessionLocks) lock(id model.SessionID) func() {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// len reports how many sessions currently have a lock entry
func (l *sessionLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
