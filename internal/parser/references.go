package parser

/*
#include <clang-c/Index.h>

extern enum CXVisitorResult corecc_visit_trampoline(void *context, CXCursor cursor, CXSourceRange range);

static CXCursorAndRangeVisitor corecc_make_visitor(void *context) {
	CXCursorAndRangeVisitor visitor;
	visitor.context = context;
	visitor.visit = corecc_visit_trampoline;
	return visitor;
}
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// FindReferences invokes visit for every reference to c in path,
// including every cursor overloaded with c when c is an
// overloaded-declaration cursor (spec.md §4.1's find_references
// contract). visit returning false stops the search early.
//
// The caller-supplied closure is carried across the cgo boundary as a
// type-erased pointer (a runtime/cgo.Handle), per spec.md §9's design
// note, and is deleted before FindReferences returns — it must not
// outlive this call.
func (c Cursor) FindReferences(path string, visit func(Cursor) bool) {
	h := cgo.NewHandle(visit)
	defer h.Delete()

	withCString(path, func(cpath *C.char) {
		file := C.clang_getFile(c.tu.handle, cpath)
		visitor := C.corecc_make_visitor(unsafe.Pointer(uintptr(h)))
		C.clang_findReferencesInFile(c.handle, file, visitor)
	})
}

//export corecc_visit_trampoline
func corecc_visit_trampoline(context unsafe.Pointer, cursor C.CXCursor, _ C.CXSourceRange) C.enum_CXVisitorResult {
	h := cgo.Handle(uintptr(context))

	visit, ok := h.Value().(func(Cursor) bool)
	if !ok || !visit(Cursor{handle: cursor}) {
		return C.CXVisit_Break
	}

	return C.CXVisit_Continue
}
