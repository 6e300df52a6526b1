// Package parser is the C1 façade: typed, scoped wrappers around libclang
// (clang-c/Index.h), the native C/C++ parsing library corecc sits in
// front of. Every libclang object obtained here (index, translation
// unit, completion-result set, cursor, diagnostic, resource-usage
// snapshot) is released on every exit path, and every CXString is
// materialized into a Go string and disposed immediately so no borrowed
// C pointer escapes this package.
//
// This package is the cgo boundary: internal/unit makes every parse,
// completion, diagnostics and cursor call, internal/registry calls
// RefreshShared, and other packages use only the Buffer type. None of
// them reaches into libclang directly.
package parser
