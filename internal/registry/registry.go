// Package registry implements C5: the process-wide map from canonical
// filename to a shared translation unit, guarding the map itself with a
// bounded-wait mutex (spec.md §4.5).
package registry

import (
	"time"

	"github.com/clangcore/corecc/internal/corerr"
	"github.com/clangcore/corecc/internal/lockutil"
	"github.com/clangcore/corecc/internal/parser"
	"github.com/clangcore/corecc/internal/query"
	"github.com/clangcore/corecc/internal/unit"
)

// entry pairs one translation unit with its async completion slot: the
// two always share the same lifetime, so the registry is the one place
// both are constructed and torn down together.
type entry struct {
	tu   *unit.TranslationUnit
	slot *query.Slot
}

// Registry owns every open translation unit, keyed by canonical
// filename, mirroring complete.cpp's global tus map.
type Registry struct {
	mu      *lockutil.TimedMutex
	entries map[string]*entry
	options unit.Options
}

// New returns an empty registry. opts is applied to every TU it
// constructs.
func New(opts unit.Options) *Registry {
	return &Registry{
		mu:      lockutil.NewTimedMutex(),
		entries: make(map[string]*entry),
		options: opts,
	}
}

// GetTU acquires the registry lock with a bounded wait (unbounded when
// timeout < 0) and returns the unit for filename, constructing it
// synchronously with args on first reference. On lock timeout it
// returns corerr.LockTimeout and a nil unit (spec.md §4.5).
func (r *Registry) GetTU(filename string, args []string, timeout time.Duration) (*unit.TranslationUnit, error) {
	e, err := r.getEntry(filename, args, timeout)
	if err != nil {
		return nil, err
	}

	return e.tu, nil
}

// GetSlot behaves like GetTU but also returns the async completion slot
// paired with the unit, for the ABI bridge's completion path (C3).
func (r *Registry) GetSlot(filename string, args []string, timeout time.Duration) (*unit.TranslationUnit, *query.Slot, error) {
	e, err := r.getEntry(filename, args, timeout)
	if err != nil {
		return nil, nil, err
	}

	return e.tu, e.slot, nil
}

func (r *Registry) getEntry(filename string, args []string, timeout time.Duration) (*entry, error) {
	if !r.mu.TryLockTimeout(timeout) {
		return nil, corerr.LockTimeout
	}
	defer r.mu.Unlock()

	if e, ok := r.entries[filename]; ok {
		return e, nil
	}

	tu, err := unit.New(filename, args, r.options)
	if err != nil {
		return nil, err
	}

	e := &entry{tu: tu, slot: query.NewSlot()}
	r.entries[filename] = e

	return e, nil
}

// Evict schedules filename's unit for teardown on a background task so
// the caller is never blocked behind TU disposal (spec.md §4.5). It is
// a no-op if filename is not open.
func (r *Registry) Evict(filename string) {
	r.mu.Lock()
	e, ok := r.entries[filename]
	if ok {
		delete(r.entries, filename)
	}
	r.mu.Unlock()

	if ok {
		go e.tu.Close()
	}
}

// EvictAll synchronously tears down every open unit, clears the map,
// and refreshes the shared libclang index so its cached preambles are
// released (spec.md §4.5). Unlike Evict, this blocks until every unit
// is disposed: RefreshShared requires no TU bound to the old index
// still be live.
func (r *Registry) EvictAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.tu.Close()
	}

	parser.RefreshShared()
}
