package service

import (
	"sync"
	"time"
)

// groupLocker serializes capacity-affecting operations per group id.
// Each group gets a one-slot semaphore; operations on different groups
// never block each other. Entries are refcounted and removed once the
// last holder releases, so the map does not grow with dead groups.
type groupLocker struct {
	mu    sync.Mutex
	locks map[uint]*groupLockEntry
}

type groupLockEntry struct {
	sem  chan struct{}
	refs int
}

func newGroupLocker() *groupLocker {
	return &groupLocker{locks: make(map[uint]*groupLockEntry)}
}

// Acquire blocks until the group's critical section is free or the
// timeout expires. It returns false on timeout.
func (l *groupLocker) Acquire(groupID uint, timeout time.Duration) bool {
	l.mu.Lock()
	entry, ok := l.locks[groupID]
	if !ok {
		entry = &groupLockEntry{sem: make(chan struct{}, 1)}
		l.locks[groupID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return true
	case <-time.After(timeout):
		l.release(groupID, entry, false)
		return false
	}
}

func (l *groupLocker) Release(groupID uint) {
	l.mu.Lock()
	entry, ok := l.locks[groupID]
	l.mu.Unlock()
	if !ok {
		return
	}
	l.release(groupID, entry, true)
}

func (l *groupLocker) release(groupID uint, entry *groupLockEntry, held bool) {
	if held {
		<-entry.sem
	}
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, groupID)
	}
	l.mu.Unlock()
}
