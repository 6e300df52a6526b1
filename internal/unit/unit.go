// Package unit implements C2, the translation-unit object: one per
// canonical filename, owning one parsed libclang translation unit and
// serializing every call onto it (spec.md §3, §4.2).
package unit

import (
	"sort"
	"time"

	"github.com/clangcore/corecc/internal/corerr"
	"github.com/clangcore/corecc/internal/lockutil"
	"github.com/clangcore/corecc/internal/parser"
	"github.com/clangcore/corecc/internal/shaper"
)

// Options configures behavior spec.md §9 leaves as an open question.
type Options struct {
	// ReparseOnEmpty triggers a reparse from CompleteAt when the shaped
	// result set is empty, on the theory that a stale preamble caused
	// the miss. One historical clang_complete version did this
	// unconditionally; a later one removed it. Default false.
	ReparseOnEmpty bool
}

// TranslationUnit owns one parsed source file: compile arguments
// (immutable after creation), the opaque libclang state, and a
// serializing mutex. At most one libclang call executes at a time;
// Close waits for the mutex so no in-flight call is cut off (spec.md
// §3's TU invariants).
type TranslationUnit struct {
	filename string
	args     []string
	options  Options

	mu *lockutil.TimedMutex
	tu *parser.TU
}

// New parses filename with args against the shared libclang index and
// kicks off an asynchronous initial reparse so the preamble is warm
// before the first real request arrives, matching complete.cpp's
// constructor (spec.md §3's TU lifecycle). It fails with
// *corerr.ParseError when libclang returns a null unit.
func New(filename string, args []string, opts Options) (*TranslationUnit, error) {
	tu, err := parser.Parse(parser.Shared(), filename, args)
	if err != nil {
		return nil, err
	}

	t := &TranslationUnit{
		filename: filename,
		args:     args,
		options:  opts,
		mu:       lockutil.NewTimedMutex(),
		tu:       tu,
	}

	go func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.tu.Reparse(nil)
	}()

	return t, nil
}

// Filename returns the canonical filename this unit was created for.
func (t *TranslationUnit) Filename() string { return t.filename }

// Close waits for the serializing mutex and disposes the underlying
// libclang translation unit. Safe to call once; callers must not use t
// afterward.
func (t *TranslationUnit) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tu.Dispose()
}

// Reparse replaces the in-memory buffer with buf's bytes (or uses the
// on-disk contents when buf is nil) and blocks until libclang finishes.
func (t *TranslationUnit) Reparse(buf *parser.Buffer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tu.Reparse(buf)
}

// CompleteAt runs completion at (line, col), shapes the raw chunks
// (internal/shaper), filters by case-sensitive display prefix, and
// returns the result ordered by (priority, display) — spec.md §4.2.
// When Options.ReparseOnEmpty is set and the shaped list is empty, a
// reparse is triggered before returning so the next attempt sees a
// refreshed preamble.
func (t *TranslationUnit) CompleteAt(line, col uint, prefix string, buf *parser.Buffer) []shaper.Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	raws := t.tu.Complete(line, col, buf)
	records := shaper.ShapeAll(raws)
	records = shaper.FilterPrefix(records, prefix, false)

	if len(records) == 0 && t.options.ReparseOnEmpty {
		t.tu.Reparse(buf)
	}

	return records
}

// Diagnostics acquires the unit lock with a bounded wait when timeout is
// non-negative; on timeout it returns corerr.LockTimeout and an empty
// sequence. A negative timeout waits unboundedly. Only diagnostics whose
// severity is above "ignored" are returned, already formatted by
// libclang (spec.md §4.2).
func (t *TranslationUnit) Diagnostics(timeout time.Duration) ([]string, error) {
	if !t.mu.TryLockTimeout(timeout) {
		return nil, corerr.LockTimeout
	}
	defer t.mu.Unlock()

	return t.tu.Diagnostics(), nil
}

// DefinitionAt resolves the cursor at (line, col): if it has a non-null
// referenced cursor, its "path:line:col" is returned; else, if the
// cursor is an inclusion directive, the included file's path is
// returned; else the empty string (spec.md §4.2).
func (t *TranslationUnit) DefinitionAt(line, col uint) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	cursor := t.tu.CursorAt("", line, col)

	if ref := cursor.Referenced(); !ref.IsNull() {
		return ref.LocationPath()
	}

	if cursor.IsInclusionDirective() {
		return cursor.IncludedFile()
	}

	return ""
}

// TypeAt returns the canonical type spelling of the cursor at (line,
// col).
func (t *TranslationUnit) TypeAt(line, col uint) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tu.CursorAt("", line, col).TypeSpelling()
}

// FindUses resolves the cursor at (line, col), expands it into itself
// plus every overloaded declaration, and for each overload collects
// references in path (defaulting to this unit's own filename) into a
// sorted, deduplicated set of "path:line:col" strings (spec.md §4.2).
func (t *TranslationUnit) FindUses(line, col uint, path string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if path == "" {
		path = t.filename
	}

	cursor := t.tu.CursorAt("", line, col)
	candidates := append([]parser.Cursor{cursor}, cursor.OverloadedDecls()...)

	seen := make(map[string]struct{})

	for _, c := range candidates {
		c.FindReferences(path, func(ref parser.Cursor) bool {
			seen[ref.LocationPath()] = struct{}{}
			return true
		})
	}

	uses := make([]string, 0, len(seen))
	for u := range seen {
		uses = append(uses, u)
	}
	sort.Strings(uses)

	return uses
}

// ResourceUsage takes a scoped snapshot of libclang's per-category
// memory usage for this unit (SPEC_FULL.md §4.1 expansion).
func (t *TranslationUnit) ResourceUsage() []parser.ResourceUsageEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tu.ResourceUsage()
}
