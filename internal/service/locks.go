package service

import "sync"

// PeriodLocker serializes mutations per period so a checklist recompute
// always observes the post-write state. The period is the unit of contention;
// operations on different periods do not block each other. One instance is
// shared by the period and document services.
type PeriodLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPeriodLocker creates an empty locker.
func NewPeriodLocker() *PeriodLocker {
	return &PeriodLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given period and returns its release func.
func (l *PeriodLocker) Lock(periodID string) func() {
	l.mu.Lock()
	m, ok := l.locks[periodID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[periodID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
