// Command corebridge is the C ABI deliverable described in spec.md
// §6.1: built with `go build -buildmode=c-shared`, it exports a flat
// extern-C surface backed by internal/bridge, so any host process (an
// editor plugin, a test harness) can link corebridge.so/.h directly
// instead of speaking a wire protocol.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"log"
	"os"
	"time"
	"unsafe"

	"github.com/clangcore/corecc/internal/bridge"
	"github.com/clangcore/corecc/internal/parser"
	"github.com/clangcore/corecc/internal/unit"
)

var (
	logger = log.New(os.Stderr, "corebridge: ", log.LstdFlags)
	b      = bridge.New(unit.Options{ReparseOnEmpty: reparseOnEmptyFromEnv()})
)

func reparseOnEmptyFromEnv() bool {
	return os.Getenv("CORECC_REPARSE_ON_EMPTY") != ""
}

func goStringArgv(argv **C.char, argc C.int) []string {
	if argc == 0 {
		return nil
	}

	out := make([]string, int(argc))
	slice := unsafe.Slice(argv, int(argc))
	for i, cs := range slice {
		out[i] = C.GoString(cs)
	}

	return out
}

func goBuffer(path string, buf *C.char, length C.int) *parser.Buffer {
	if buf == nil {
		return nil
	}

	return &parser.Buffer{
		Path: path,
		Data: C.GoBytes(unsafe.Pointer(buf), length),
	}
}

//export get_completions
func get_completions(file *C.char, argv **C.char, argc C.int, line, col C.uint, prefix *C.char, timeoutMs C.int, buf *C.char, length C.int) C.uint {
	f := C.GoString(file)
	h := b.GetCompletions(f, goStringArgv(argv, argc), uint(line), uint(col), C.GoString(prefix),
		time.Duration(int(timeoutMs))*time.Millisecond, goBuffer(f, buf, length))
	return C.uint(h)
}

//export find_uses
func find_uses(file *C.char, argv **C.char, argc C.int, line, col C.uint, searchPath *C.char) C.uint {
	h := b.FindUses(C.GoString(file), goStringArgv(argv, argc), uint(line), uint(col), C.GoString(searchPath))
	return C.uint(h)
}

//export get_diagnostics
func get_diagnostics(file *C.char, argv **C.char, argc C.int) C.uint {
	h := b.GetDiagnostics(C.GoString(file), goStringArgv(argv, argc))
	return C.uint(h)
}

//export get_definition
func get_definition(file *C.char, argv **C.char, argc C.int, line, col C.uint) C.uint {
	h := b.GetDefinition(C.GoString(file), goStringArgv(argv, argc), uint(line), uint(col))
	return C.uint(h)
}

//export get_type
func get_type(file *C.char, argv **C.char, argc C.int, line, col C.uint) C.uint {
	h := b.GetType(C.GoString(file), goStringArgv(argv, argc), uint(line), uint(col))
	return C.uint(h)
}

//export get_memory_usage
func get_memory_usage(file *C.char, argv **C.char, argc C.int) C.uint {
	h := b.GetMemoryUsage(C.GoString(file), goStringArgv(argv, argc))
	return C.uint(h)
}

//export reparse
func reparse(file *C.char, argv **C.char, argc C.int, buf *C.char, length C.int) {
	f := C.GoString(file)
	b.Reparse(f, goStringArgv(argv, argc), goBuffer(f, buf, length))
}

//export free_tu
func free_tu(file *C.char) {
	b.FreeTU(C.GoString(file))
}

//export free_all
func free_all() {
	b.FreeAll()
}

//export string_value
func string_value(h C.uint) *C.char {
	return cachedCString(bridge.Handle(h))
}

//export string_free
func string_free(h C.uint) {
	freeCachedCString(bridge.Handle(h))
	b.StringFree(bridge.Handle(h))
}

//export string_list_len
func string_list_len(h C.uint) C.int {
	return C.int(b.StringListLen(bridge.Handle(h)))
}

//export string_list_at
func string_list_at(h C.uint, i C.int) *C.char {
	return cachedCStringListEntry(bridge.Handle(h), int(i))
}

//export string_list_free
func string_list_free(h C.uint) {
	freeCachedCStringList(bridge.Handle(h))
	b.StringListFree(bridge.Handle(h))
}

func main() {
	logger.Println("corebridge loaded")
}
