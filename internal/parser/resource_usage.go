package parser

/*
#include <clang-c/Index.h>
*/
import "C"

import "unsafe"

// ResourceUsageEntry is one category/bytes row from libclang's
// CXTUResourceUsage, exposed so a long-lived translation-unit cache can
// observe its own memory footprint (SPEC_FULL.md §4.1 expansion).
type ResourceUsageEntry struct {
	Category string
	Bytes    uint64
}

// ResourceUsage takes a scoped snapshot of t's resource usage and
// disposes the underlying libclang structure before returning, matching
// the C1 façade's "scoped value, released on every exit path" rule.
func (t *TU) ResourceUsage() []ResourceUsageEntry {
	usage := C.clang_getCXTUResourceUsage(t.handle)
	defer C.clang_disposeCXTUResourceUsage(usage)

	n := int(usage.numEntries)
	entries := make([]ResourceUsageEntry, 0, n)

	cEntries := (*[1 << 16]C.CXTUResourceUsageEntry)(
		unsafe.Pointer(usage.entries),
	)[:n:n]

	for _, e := range cEntries {
		entries = append(entries, ResourceUsageEntry{
			Category: toGoString(C.clang_getTUResourceUsageName(e.kind)),
			Bytes:    uint64(e.amount),
		})
	}

	return entries
}
