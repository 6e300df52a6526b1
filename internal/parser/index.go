package parser

/*
#include <clang-c/Index.h>
*/
import "C"

import "github.com/sasha-s/go-deadlock"

// Index wraps libclang's CXIndex: a process-wide, lazily-initialized
// holder shared by every translation unit. It caches preambles and
// related state across reparses; only RefreshShared replaces it,
// which corecc uses on bulk eviction to release those cached preambles
// (spec.md §4.1, §4.5).
type Index struct {
	handle C.CXIndex
}

var (
	sharedMu    deadlock.Mutex
	sharedIndex *Index
)

func newIndex() *Index {
	// excludeDeclarationsFromPCH=1, displayDiagnostics=1, matching
	// complete.cpp's clang_createIndex(1, 1).
	return &Index{handle: C.clang_createIndex(1, 1)}
}

// Shared returns the process-wide libclang index, creating it on first
// use.
func Shared() *Index {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedIndex == nil {
		sharedIndex = newIndex()
	}
	return sharedIndex
}

// RefreshShared disposes the current shared index and replaces it with a
// fresh one. Callers must ensure every translation unit bound to the old
// index has already been disposed (internal/registry.EvictAll guarantees
// this by tearing down all units before calling RefreshShared).
func RefreshShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedIndex != nil {
		C.clang_disposeIndex(sharedIndex.handle)
	}
	sharedIndex = newIndex()
}
