// Package lockutil provides bounded-wait mutexes: the Go analogue of
// std::timed_mutex's try_lock_for, which the original clang_complete C++
// implementation (_examples/original_source/complete/complete.cpp) uses
// to guarantee the editor is never blocked longer than a caller-supplied
// timeout.
package lockutil

import "time"

// TimedMutex is a mutex that can be acquired with a bounded wait. A
// negative timeout blocks indefinitely; a zero timeout never blocks.
type TimedMutex struct {
	sem chan struct{}
}

// NewTimedMutex returns an unlocked TimedMutex.
func NewTimedMutex() *TimedMutex {
	return &TimedMutex{sem: make(chan struct{}, 1)}
}

// Lock blocks until the mutex is acquired.
func (m *TimedMutex) Lock() {
	m.sem <- struct{}{}
}

// Unlock releases the mutex. Unlocking an unlocked TimedMutex panics,
// same as sync.Mutex.
func (m *TimedMutex) Unlock() {
	select {
	case <-m.sem:
	default:
		panic("lockutil: unlock of unlocked TimedMutex")
	}
}

// TryLockTimeout attempts to acquire the mutex within d. d < 0 waits
// forever; d == 0 never blocks. It reports whether the lock was
// acquired.
func (m *TimedMutex) TryLockTimeout(d time.Duration) bool {
	if d < 0 {
		m.Lock()
		return true
	}
	if d == 0 {
		select {
		case m.sem <- struct{}{}:
			return true
		default:
			return false
		}
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case m.sem <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}
