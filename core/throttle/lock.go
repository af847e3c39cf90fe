package throttle

import (
	"sync"
	"time"
)

// Lock is the in-progress flag allowing one resolution at a time.
// Attempts while it is held are rejected, never queued.
type Lock struct {
	mu    sync.Mutex
	held  bool
	timer *time.Timer
}

// TryAcquire takes the lock if it is free
func (l *Lock) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return false
	}
	l.held = true
	return true
}

// Release frees the lock immediately
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.held = false
}

// ReleaseAfter frees the lock once delay has passed, absorbing duplicate
// triggers that arrive right after a resolution finished.
func (l *Lock) ReleaseAfter(delay time.Duration) {
	if delay <= 0 {
		l.Release()
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(delay, l.Release)
}

// Held reports whether a resolution is in progress
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}
