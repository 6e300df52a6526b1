package parser

/*
#include <clang-c/Index.h>
#include <stdlib.h>
*/
import "C"

import "unsafe"

// toGoString materializes a CXString into a Go string and immediately
// disposes the CXString, matching complete.cpp's to_std_string: no
// borrowed libclang pointer is ever held past this call.
func toGoString(s C.CXString) string {
	defer C.clang_disposeString(s)
	cstr := C.clang_getCString(s)
	if cstr == nil {
		return ""
	}
	return C.GoString(cstr)
}

// cStringArray converts a Go string slice into a C-heap array of
// char*, and returns a matching free function that must run once the
// array is no longer needed.
func cStringArray(args []string) (**C.char, func()) {
	if len(args) == 0 {
		return nil, func() {}
	}

	ptrs := C.malloc(C.size_t(len(args)) * C.size_t(unsafe.Sizeof(uintptr(0))))
	arr := (*[1 << 20]*C.char)(ptrs)[:len(args):len(args)]

	for i, a := range args {
		arr[i] = C.CString(a)
	}

	free := func() {
		for i := range arr {
			C.free(unsafe.Pointer(arr[i]))
		}
		C.free(ptrs)
	}

	return (**C.char)(ptrs), free
}

// withCString runs fn with a C-heap copy of s, freeing it afterward.
func withCString(s string, fn func(*C.char)) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	fn(cs)
}
