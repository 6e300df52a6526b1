package parser

/*
#include <clang-c/Index.h>
*/
import "C"

import "fmt"

// Cursor is a lightweight view over a libclang CXCursor, used only
// transiently to produce location strings, type names, or reference
// sets. Per spec.md §3, it must never be stored beyond the call that
// acquired it — it borrows its translation unit's lifetime.
type Cursor struct {
	handle C.CXCursor
	tu     *TU
}

// IsNull reports whether the cursor refers to nothing.
func (c Cursor) IsNull() bool {
	return C.clang_Cursor_isNull(c.handle) != 0
}

// Kind returns the libclang cursor kind, e.g. to detect an inclusion
// directive in definition_at (spec.md §4.2).
func (c Cursor) Kind() C.enum_CXCursorKind {
	return C.clang_getCursorKind(c.handle)
}

// IsInclusionDirective reports whether this cursor is a #include.
func (c Cursor) IsInclusionDirective() bool {
	return c.Kind() == C.CXCursor_InclusionDirective
}

// Referenced returns the cursor this one refers to (e.g. a use resolving
// to its declaration), or a null cursor if there is none.
func (c Cursor) Referenced() Cursor {
	return Cursor{handle: C.clang_getCursorReferenced(c.handle), tu: c.tu}
}

// DisplayName returns the cursor's libclang display name.
func (c Cursor) DisplayName() string {
	return toGoString(C.clang_getCursorDisplayName(c.handle))
}

// TypeSpelling returns the canonical spelling of the cursor's type,
// backing internal/unit.TranslationUnit.TypeAt.
func (c Cursor) TypeSpelling() string {
	t := C.clang_getCursorType(c.handle)
	canonical := C.clang_getCanonicalType(t)
	return toGoString(C.clang_getTypeSpelling(canonical))
}

// LocationPath returns "path:line:col" for the cursor's spelling
// location.
func (c Cursor) LocationPath() string {
	loc := C.clang_getCursorLocation(c.handle)

	var file C.CXFile
	var line, col, offset C.uint
	C.clang_getSpellingLocation(loc, &file, &line, &col, &offset)

	path := toGoString(C.clang_getFileName(file))

	return fmt.Sprintf("%s:%d:%d", path, uint32(line), uint32(col))
}

// IncludedFile returns the path of the file this cursor includes,
// assuming Kind() == InclusionDirective.
func (c Cursor) IncludedFile() string {
	file := C.clang_getIncludedFile(c.handle)
	return toGoString(C.clang_getFileName(file))
}

// OverloadedDecls expands an overloaded-declaration cursor into its
// individual candidate cursors; it returns nil for a normal cursor.
// Used by find_uses (spec.md §4.2) to resolve every overload's
// references, matching libclang's clang_getNumOverloadedDecls /
// clang_getOverloadedDecl.
func (c Cursor) OverloadedDecls() []Cursor {
	n := int(C.clang_getNumOverloadedDecls(c.handle))
	if n == 0 {
		return nil
	}

	decls := make([]Cursor, n)
	for i := 0; i < n; i++ {
		decls[i] = Cursor{handle: C.clang_getOverloadedDecl(c.handle, C.uint(i)), tu: c.tu}
	}

	return decls
}
