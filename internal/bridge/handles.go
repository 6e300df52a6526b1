package bridge

import (
	"unsafe"

	"github.com/sasha-s/go-deadlock"
)

// Handle is an opaque id exported across the ABI boundary. 0 denotes
// "no string" / "empty list" (spec.md §6.1).
type Handle uint32

// table is an owning map from Handle to a payload value, guarded by a
// plain (never bounded-wait) lock — handle bookkeeping has no timeout
// contract anywhere in spec.md §4.6. Handles are allocated
// deterministically from a per-table generation counter seeded on, and
// advanced by, the payload type's size, so an id is never reused while
// its value is still alive (spec.md §4.6).
type table[T any] struct {
	mu         deadlock.Mutex
	items      map[Handle]T
	generation Handle
}

func newTable[T any]() *table[T] {
	var zero T

	size := Handle(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}

	return &table[T]{
		items:      make(map[Handle]T),
		generation: size,
	}
}

// put stores v and returns its freshly allocated, never-zero handle.
func (t *table[T]) put(v T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.generation
	if id == 0 {
		id = 1
	}

	var zero T
	step := Handle(unsafe.Sizeof(zero))
	if step == 0 {
		step = 1
	}

	t.items[id] = v
	t.generation = id + step

	return id
}

// get reads h's value. ok is false for handle 0 or an unknown/freed id.
func (t *table[T]) get(h Handle) (T, bool) {
	var zero T
	if h == 0 {
		return zero, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.items[h]
	return v, ok
}

// free releases h. Freeing an unknown or already-freed handle is a
// no-op (spec.md §4.6).
func (t *table[T]) free(h Handle) {
	if h == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.items, h)
}
