package parser

/*
#include <clang-c/Index.h>
*/
import "C"

import (
	"unsafe"

	"github.com/clangcore/corecc/internal/corerr"
)

// Buffer is an in-memory replacement for a path's on-disk contents,
// corresponding to libclang's CXUnsavedFile (spec.md §4.1's "optional
// (path, buffer, length)").
type Buffer struct {
	Path string
	Data []byte
}

// reparseOptions is the fixed option set spec.md §4.1 assigns to
// reparse: detailed preprocessing record, brief comments, incomplete,
// precompiled preamble, cache completion results.
const reparseOptions = C.CXTranslationUnit_DetailedPreprocessingRecord |
	C.CXTranslationUnit_Incomplete |
	C.CXTranslationUnit_PrecompiledPreamble |
	C.CXTranslationUnit_CacheCompletionResults |
	C.CXTranslationUnit_IncludeBriefCommentsInCodeCompletion

// TU wraps one libclang CXTranslationUnit: parsed state plus preamble.
// It is not safe for concurrent use — internal/unit serializes all calls
// onto a single goroutine-safe mutex.
type TU struct {
	handle   C.CXTranslationUnit
	filename string
}

// Parse creates a translation unit for filename with the given compile
// arguments, against the shared index. It fails with *corerr.ParseError
// when libclang returns a null unit (missing file, fatal driver error),
// per spec.md §4.1.
func Parse(idx *Index, filename string, args []string) (*TU, error) {
	var handle C.CXTranslationUnit

	withCString(filename, func(cfilename *C.char) {
		cargs, freeArgs := cStringArray(args)
		defer freeArgs()

		handle = C.clang_parseTranslationUnit(
			idx.handle,
			cfilename,
			cargs, C.int(len(args)),
			nil, 0,
			C.clang_defaultEditingTranslationUnitOptions(),
		)
	})

	if handle == nil {
		return nil, &corerr.ParseError{Filename: filename}
	}

	return &TU{handle: handle, filename: filename}, nil
}

// Dispose releases the underlying CXTranslationUnit. Safe to call more
// than once.
func (t *TU) Dispose() {
	if t.handle != nil {
		C.clang_disposeTranslationUnit(t.handle)
		t.handle = nil
	}
}

func unsavedFiles(buf *Buffer) (*C.struct_CXUnsavedFile, C.uint, func()) {
	if buf == nil {
		return nil, 0, func() {}
	}

	cpath := C.CString(buf.Path)
	var cdata *C.char
	if len(buf.Data) > 0 {
		cdata = (*C.char)(C.CBytes(buf.Data))
	} else {
		cdata = C.CString("")
	}

	unsaved := &C.struct_CXUnsavedFile{
		Filename: cpath,
		Contents: cdata,
		Length:   C.ulong(len(buf.Data)),
	}

	free := func() {
		C.free(unsafe.Pointer(cpath))
		C.free(unsafe.Pointer(cdata))
	}

	return unsaved, 1, free
}

// Reparse replaces the in-memory buffer for buf.Path with its bytes, or
// uses the on-disk contents when buf is nil, and blocks until libclang
// finishes re-parsing.
func (t *TU) Reparse(buf *Buffer) {
	unsaved, n, free := unsavedFiles(buf)
	defer free()

	C.clang_reparseTranslationUnit(t.handle, n, unsaved, C.uint(reparseOptions))
}

// CursorAt resolves the cursor at (path, line, col). When path is empty,
// the translation unit's own filename is used.
func (t *TU) CursorAt(path string, line, col uint) Cursor {
	if path == "" {
		path = t.filename
	}

	var cursor C.CXCursor
	withCString(path, func(cpath *C.char) {
		file := C.clang_getFile(t.handle, cpath)
		loc := C.clang_getLocation(t.handle, file, C.uint(line), C.uint(col))
		cursor = C.clang_getCursor(t.handle, loc)
	})

	return Cursor{handle: cursor, tu: t}
}

// Filename returns the canonical filename this unit was parsed for.
func (t *TU) Filename() string { return t.filename }
