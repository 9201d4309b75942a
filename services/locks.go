package services

import (
	"sync"

	"github.com/google/uuid"
)

// competitionLocks serializes work per competition id inside this process.
// The row lock taken by the repository covers other processes.
type competitionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newCompetitionLocks() *competitionLocks {
	return &competitionLocks{locks: make(map[uuid.UUID]*lockEntry)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *competitionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
