package lockutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimedMutex_LockUnlock(t *testing.T) {
	m := NewTimedMutex()

	m.Lock()
	m.Unlock()

	m.Lock()
	m.Unlock()
}

func TestTimedMutex_UnlockWithoutLockPanics(t *testing.T) {
	m := NewTimedMutex()

	assert.Panics(t, func() {
		m.Unlock()
	})
}

func TestTimedMutex_TryLockTimeoutZeroNonBlocking(t *testing.T) {
	m := NewTimedMutex()
	m.Lock()

	acquired := m.TryLockTimeout(0)

	assert.False(t, acquired)
}

func TestTimedMutex_TryLockTimeoutSucceedsWhenFree(t *testing.T) {
	m := NewTimedMutex()

	acquired := m.TryLockTimeout(0)
	require.True(t, acquired)

	m.Unlock()
}

func TestTimedMutex_TryLockTimeoutWaitsThenFails(t *testing.T) {
	m := NewTimedMutex()
	m.Lock()

	start := time.Now()
	acquired := m.TryLockTimeout(20 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, acquired)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestTimedMutex_TryLockTimeoutNegativeBlocksUntilFree(t *testing.T) {
	m := NewTimedMutex()
	m.Lock()

	released := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Unlock()
		close(released)
	}()

	acquired := m.TryLockTimeout(-1)

	assert.True(t, acquired)
	<-released
}

func TestTimedMutex_SerializesConcurrentAccess(t *testing.T) {
	m := NewTimedMutex()
	counter := 0

	const goroutines = 50
	done := make(chan struct{})

	for i := 0; i < goroutines; i++ {
		go func() {
			m.Lock()
			counter++
			m.Unlock()
			done <- struct{}{}
		}()
	}

	for i := 0; i < goroutines; i++ {
		<-done
	}

	assert.Equal(t, goroutines, counter)
}
