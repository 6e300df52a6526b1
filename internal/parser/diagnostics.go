package parser

/*
#include <clang-c/Index.h>
*/
import "C"

// Diagnostics returns every diagnostic on t whose severity is above
// "ignored", formatted with libclang's default display options,
// matching complete.cpp's get_diagnostics.
func (t *TU) Diagnostics() []string {
	n := int(C.clang_getNumDiagnostics(t.handle))
	result := make([]string, 0, n)

	for i := 0; i < n; i++ {
		diag := C.clang_getDiagnostic(t.handle, C.uint(i))
		if diag == nil {
			continue
		}

		if C.clang_getDiagnosticSeverity(diag) != C.CXDiagnostic_Ignored {
			opts := C.clang_defaultDiagnosticDisplayOptions()
			result = append(result, toGoString(C.clang_formatDiagnostic(diag, opts)))
		}

		C.clang_disposeDiagnostic(diag)
	}

	return result
}
