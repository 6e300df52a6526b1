package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/sasha-s/go-deadlock"

	"github.com/clangcore/corecc/internal/bridge"
)

// The exported string_value/string_list_at functions must keep
// returning the same, valid C pointer for a given handle until the
// matching free function runs (spec.md §6.1's handle lifetime rule) —
// callers are not expected to free what these return themselves. cgo
// values can't live inside internal/bridge's plain-Go handle tables, so
// this cache holds the C-side materialization, keyed by the same
// handle the Go tables already track.
var (
	cstringsMu deadlock.Mutex
	cstrings   = make(map[bridge.Handle]*C.char)
	clists     = make(map[bridge.Handle][]*C.char)
)

func cachedCString(h bridge.Handle) *C.char {
	cstringsMu.Lock()
	defer cstringsMu.Unlock()

	if cs, ok := cstrings[h]; ok {
		return cs
	}

	s, ok := b.StringValue(h)
	if !ok {
		return nil
	}

	cs := C.CString(s)
	cstrings[h] = cs

	return cs
}

func freeCachedCString(h bridge.Handle) {
	cstringsMu.Lock()
	cs, ok := cstrings[h]
	delete(cstrings, h)
	cstringsMu.Unlock()

	if ok {
		C.free(unsafe.Pointer(cs))
	}
}

func cachedCStringListEntry(h bridge.Handle, i int) *C.char {
	cstringsMu.Lock()
	defer cstringsMu.Unlock()

	list, ok := clists[h]
	if !ok {
		n := b.StringListLen(h)
		list = make([]*C.char, n)
		clists[h] = list
	}

	if i < 0 || i >= len(list) {
		return nil
	}

	if list[i] == nil {
		s, ok := b.StringListAt(h, i)
		if !ok {
			return nil
		}
		list[i] = C.CString(s)
	}

	return list[i]
}

func freeCachedCStringList(h bridge.Handle) {
	cstringsMu.Lock()
	list, ok := clists[h]
	delete(clists, h)
	cstringsMu.Unlock()

	if !ok {
		return
	}

	for _, cs := range list {
		if cs != nil {
			C.free(unsafe.Pointer(cs))
		}
	}
}
