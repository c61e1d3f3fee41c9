package services

import "sync"

// admissionLocks serializes summary recomputes per admission id so two
// concurrent payment writes cannot interleave their read-sum-write cycles.
type admissionLocks struct {
	mu    sync.Mutex
	locks map[int]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAdmissionLocks() *admissionLocks {
	return &admissionLocks{locks: make(map[int]*lockEntry)}
}

// Lock acquires the per-admission mutex and returns its unlock func.
// Entries are reference-counted and removed when unused, so the map does
// not grow with the admission table.
func (l *admissionLocks) Lock(admissionID int) func() {
	l.mu.Lock()
	e, ok := l.locks[admissionID]
	if !ok {
		e = &lockEntry{}
		l.locks[admissionID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, admissionID)
		}
		l.mu.Unlock()
	}
}
