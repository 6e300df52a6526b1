// Package query implements C3: a per-TU single-inflight completion
// slot, coalescing keystroke-driven completion requests so at most one
// background libclang call runs per translation unit at a time
// (spec.md §4.3).
package query

import (
	"time"
	"weak"

	"github.com/clangcore/corecc/internal/lockutil"
	"github.com/clangcore/corecc/internal/parser"
	"github.com/clangcore/corecc/internal/shaper"
	"github.com/clangcore/corecc/internal/unit"
)

type state int

const (
	stateIdle state = iota
	stateInflight
	stateDelivered
)

// slotAcquireTimeout bounds how long Query waits for the slot's own
// mutex before giving up and returning empty, protecting the editor
// loop from ever blocking on slot contention (spec.md §4.3).
const slotAcquireTimeout = 20 * time.Millisecond

// sentinel line/col used once a delivered result turns out empty, so
// the next identical request is forced to start a fresh query rather
// than replay the same empty cache (spec.md §4.3's Delivered→Idle rule).
const sentinelLine, sentinelCol = ^uint(0), ^uint(0)

// Slot is the async completion state machine for one translation unit.
// The zero value is not usable; construct with NewSlot.
type Slot struct {
	mu *lockutil.TimedMutex

	state     state
	line, col uint
	done      chan struct{}
	records   []shaper.Record
}

// NewSlot returns an idle slot with no cached result.
func NewSlot() *Slot {
	return &Slot{
		mu:   lockutil.NewTimedMutex(),
		line: sentinelLine,
		col:  sentinelCol,
	}
}

// Query asks for completions at (line, col), coalescing with any
// in-flight request at the same position and reusing the cached result
// when the position has not changed since it was last delivered. It
// never blocks longer than timeout waiting for an in-flight result, and
// makes only a short bounded attempt to acquire the slot itself — on
// contention, or on timeout, it returns nil rather than block the
// caller (spec.md §4.3).
//
// tu is held only as a weak reference by the background task: if the
// translation unit is evicted while a query is in flight, the task
// observes a nil upgrade and the slot simply delivers no results.
func (s *Slot) Query(tu *unit.TranslationUnit, line, col uint, prefix string, buf *parser.Buffer, timeout time.Duration) []shaper.Record {
	if !s.mu.TryLockTimeout(slotAcquireTimeout) {
		return nil
	}

	s.drainIfReady()

	switch s.state {
	case stateIdle:
		if line == s.line && col == s.col {
			records := s.records
			s.mu.Unlock()
			return shaper.FilterPrefix(records, prefix, true)
		}
		s.start(tu, line, col, buf)

	case stateInflight:
		if line != s.line || col != s.col {
			s.mu.Unlock()
			return nil
		}
	}

	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(timeout):
		return nil
	}

	if !s.mu.TryLockTimeout(slotAcquireTimeout) {
		return nil
	}
	defer s.mu.Unlock()

	s.drainIfReady()

	if s.state != stateIdle {
		return nil
	}

	return shaper.FilterPrefix(s.records, prefix, true)
}

// start transitions Idle/Delivered → Inflight, spawning a background
// task that upgrades a weak reference to tu and runs completion against
// it, matching complete.cpp's async_translation_unit::async_complete_at
// detaching a future per new (line, col).
func (s *Slot) start(tu *unit.TranslationUnit, line, col uint, buf *parser.Buffer) {
	weakTU := weak.Make(tu)
	done := make(chan struct{})

	s.state = stateInflight
	s.line, s.col = line, col
	s.done = done
	s.records = nil

	go func() {
		defer close(done)

		target := weakTU.Value()
		if target == nil {
			return
		}

		records := target.CompleteAt(line, col, "", buf)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.done == done {
			s.records = records
			s.state = stateDelivered
		}
	}()
}

// drainIfReady moves a Delivered slot to Idle, caching its result for
// reuse by an identical subsequent request, and resetting the cached
// position to a sentinel when the delivered result was empty so the
// next identical call is forced to requery (spec.md §4.3). Must be
// called with s.mu held.
func (s *Slot) drainIfReady() {
	if s.state != stateDelivered {
		return
	}

	select {
	case <-s.done:
	default:
		return
	}

	s.state = stateIdle
	if len(s.records) == 0 {
		s.line, s.col = sentinelLine, sentinelCol
	}
}
