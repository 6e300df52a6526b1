// Package bridge implements C6's Go-level orchestration: registry
// lookups, TU dispatch, and the owning handle tables the C ABI surface
// (cmd/corebridge) hands opaque ids into and out of (spec.md §4.6,
// §6.1).
package bridge

import (
	"strconv"
	"time"

	"github.com/clangcore/corecc/internal/parser"
	"github.com/clangcore/corecc/internal/registry"
	"github.com/clangcore/corecc/internal/unit"
)

// Default registry-lock timeouts per spec.md §4.6: completion and
// diagnostics are bounded to 200ms; every other entry point waits
// unboundedly for the registry.
const (
	defaultBoundedTimeout = 200 * time.Millisecond
	unbounded             = -1 * time.Millisecond
)

// Bridge holds one process-wide registry plus the string and
// string-list handle tables every ABI entry point draws from.
type Bridge struct {
	registry *registry.Registry
	strings  *table[string]
	lists    *table[[]string]
}

// New returns a bridge whose translation units use opts (e.g. whether
// a reparse-on-empty-completion retry is enabled).
func New(opts unit.Options) *Bridge {
	return &Bridge{
		registry: registry.New(opts),
		strings:  newTable[string](),
		lists:    newTable[[]string](),
	}
}

// GetCompletions runs shaped, prefix-filtered, sorted completion at
// (line, col) through the TU's async query slot, coalescing with any
// other in-flight request at the same position, and returns a
// string-list handle of "<display>\n<replacement>" entries (spec.md
// §6.1). timeout bounds how long it waits for an in-flight or freshly
// started background completion.
func (b *Bridge) GetCompletions(file string, args []string, line, col uint, prefix string, timeout time.Duration, buf *parser.Buffer) Handle {
	tu, slot, err := b.registry.GetSlot(file, args, defaultBoundedTimeout)
	if err != nil || tu == nil {
		return 0
	}

	records := slot.Query(tu, line, col, prefix, buf, timeout)
	if len(records) == 0 {
		return 0
	}

	entries := make([]string, len(records))
	for i, r := range records {
		entries[i] = r.Display + "\n" + r.Replacement
	}

	return b.lists.put(entries)
}

// FindUses returns a string-list handle of "path:line:col" references
// to the symbol at (line, col), restricted to searchPath (spec.md
// §6.1).
func (b *Bridge) FindUses(file string, args []string, line, col uint, searchPath string) Handle {
	tu, err := b.registry.GetTU(file, args, unbounded)
	if err != nil || tu == nil {
		return 0
	}

	uses := tu.FindUses(line, col, searchPath)
	if len(uses) == 0 {
		return 0
	}

	return b.lists.put(uses)
}

// GetDiagnostics reparses file, then returns a string-list handle of
// its formatted, non-ignored diagnostics (spec.md §6.1).
func (b *Bridge) GetDiagnostics(file string, args []string) Handle {
	tu, err := b.registry.GetTU(file, args, defaultBoundedTimeout)
	if err != nil || tu == nil {
		return 0
	}

	tu.Reparse(nil)

	diags, err := tu.Diagnostics(defaultBoundedTimeout)
	if err != nil || len(diags) == 0 {
		return 0
	}

	return b.lists.put(diags)
}

// GetDefinition returns a string handle for the definition (or included
// file) location of the symbol at (line, col), or 0 if there is none
// (spec.md §6.1).
func (b *Bridge) GetDefinition(file string, args []string, line, col uint) Handle {
	tu, err := b.registry.GetTU(file, args, unbounded)
	if err != nil || tu == nil {
		return 0
	}

	def := tu.DefinitionAt(line, col)
	if def == "" {
		return 0
	}

	return b.strings.put(def)
}

// GetType returns a string handle for the canonical type spelling of
// the symbol at (line, col) (spec.md §6.1).
func (b *Bridge) GetType(file string, args []string, line, col uint) Handle {
	tu, err := b.registry.GetTU(file, args, unbounded)
	if err != nil || tu == nil {
		return 0
	}

	t := tu.TypeAt(line, col)
	if t == "" {
		return 0
	}

	return b.strings.put(t)
}

// GetMemoryUsage returns a string-list handle of "category: bytes"
// entries from libclang's per-category resource-usage snapshot for
// file (SPEC_FULL.md §4.1 expansion — not part of spec.md's original
// ABI table, added alongside it as get_memory_usage).
func (b *Bridge) GetMemoryUsage(file string, args []string) Handle {
	tu, err := b.registry.GetTU(file, args, unbounded)
	if err != nil || tu == nil {
		return 0
	}

	usage := tu.ResourceUsage()
	if len(usage) == 0 {
		return 0
	}

	entries := make([]string, len(usage))
	for i, u := range usage {
		entries[i] = u.Category + ": " + strconv.FormatUint(u.Bytes, 10)
	}

	return b.lists.put(entries)
}

// Reparse forces file to reparse against buf's in-memory contents
// (spec.md §6.1).
func (b *Bridge) Reparse(file string, args []string, buf *parser.Buffer) {
	tu, err := b.registry.GetTU(file, args, unbounded)
	if err != nil || tu == nil {
		return
	}

	tu.Reparse(buf)
}

// FreeTU schedules file's translation unit for background eviction
// (spec.md §6.1).
func (b *Bridge) FreeTU(file string) {
	b.registry.Evict(file)
}

// FreeAll evicts every open translation unit and refreshes the shared
// libclang index (spec.md §6.1).
func (b *Bridge) FreeAll() {
	b.registry.EvictAll()
}

// StringValue reads h's value. ok is false for an unknown or freed
// handle.
func (b *Bridge) StringValue(h Handle) (string, bool) {
	return b.strings.get(h)
}

// StringFree releases a string handle. A no-op for an unknown id
// (spec.md §4.6).
func (b *Bridge) StringFree(h Handle) {
	b.strings.free(h)
}

// StringListLen returns the number of entries in h's list, or 0 for an
// unknown handle.
func (b *Bridge) StringListLen(h Handle) int {
	list, ok := b.lists.get(h)
	if !ok {
		return 0
	}
	return len(list)
}

// StringListAt returns the entry at index i in h's list. ok is false
// for an unknown handle or an out-of-range index.
func (b *Bridge) StringListAt(h Handle, i int) (string, bool) {
	list, ok := b.lists.get(h)
	if !ok || i < 0 || i >= len(list) {
		return "", false
	}
	return list[i], true
}

// StringListFree releases a string-list handle. A no-op for an unknown
// id (spec.md §4.6).
func (b *Bridge) StringListFree(h Handle) {
	b.lists.free(h)
}
