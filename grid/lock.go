package grid

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// timedLock is a mutex whose acquisition can give up after a bound
type timedLock struct {
	sem *semaphore.Weighted
}

func newTimedLock() timedLock {
	return timedLock{sem: semaphore.NewWeighted(1)}
}

// acquire waits at most timeout; a non-positive timeout only tries once
func (l timedLock) acquire(timeout time.Duration) bool {
	if l.sem.TryAcquire(1) {
		return true
	}
	if timeout <= 0 {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return l.sem.Acquire(ctx, 1) == nil
}

// lock blocks until the lock is held
func (l timedLock) lock() {
	// Background context never expires, Acquire cannot fail
	_ = l.sem.Acquire(context.Background(), 1)
}

func (l timedLock) unlock() {
	l.sem.Release(1)
}
