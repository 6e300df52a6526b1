// Package shaper implements C4, the completion shaper: it turns raw
// parser-library completion chunks into (priority, display, replacement)
// triples ready for the editor, per spec.md §4.4.
package shaper

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Record is a shaped suggestion: an integer priority (lower is better),
// a display string (typed text plus an informative/result-type suffix
// after a tab), and a replacement string (typed text with numbered
// snippet placeholders).
type Record struct {
	Priority    int
	Display     string
	Replacement string
}

// demotedPriority is the value operator/~ completions saturate to.
// spec.md §9 explicitly leaves the exact integer unspecified (only the
// saturation semantics are promised), so math.MaxInt32 is an
// implementation choice, not a portability contract.
const demotedPriority = math.MaxInt32

// Shape converts one raw completion record into a Record, or reports ok
// == false when the record is dropped (unavailable, or an empty display
// or replacement after shaping), per spec.md §4.4.
func Shape(raw RawCompletion) (Record, bool) {
	if !raw.Available {
		return Record{}, false
	}

	var display, replacement, description strings.Builder
	placeholder := 1

	for _, c := range raw.Chunks {
		switch c.Kind {
		case ChunkPunctuation, ChunkWhitespace, ChunkCurrentParameter, ChunkColon, ChunkComma:
			display.WriteString(c.Text)
			replacement.WriteString(c.Text)

		case ChunkTypedText:
			display.WriteString(c.Text)
			replacement.WriteString(c.Text)

			if raw.Kind == RecordKindConstructor {
				fmt.Fprintf(&replacement, " ${%d:v}", placeholder)
				placeholder++
			}

		case ChunkPlaceholder:
			display.WriteString(c.Text)
			fmt.Fprintf(&replacement, "${%d:%s}", placeholder, c.Text)
			placeholder++

		case ChunkResultType, ChunkGenericText, ChunkInformative, ChunkEquals:
			description.WriteString(c.Text)
			description.WriteString(" ")

		case ChunkOptional, ChunkSemicolon:
			// dropped entirely, per spec.md §4.4's shaping table.
		}
	}

	shapedDisplay := display.String() + "\t" + description.String()
	shapedReplacement := replacement.String()

	if shapedDisplay == "\t" || shapedReplacement == "" {
		return Record{}, false
	}

	priority := raw.Priority
	if strings.HasPrefix(shapedDisplay, "operator") || strings.HasPrefix(shapedDisplay, "~") {
		priority = demotedPriority
	}

	return Record{Priority: priority, Display: shapedDisplay, Replacement: shapedReplacement}, true
}

// ShapeAll shapes every raw record, dropping unavailable or empty ones,
// and sorts the survivors ascending by (priority, display) — spec.md
// §3's ordering rule for completion records.
func ShapeAll(raws []RawCompletion) []Record {
	records := make([]Record, 0, len(raws))

	for _, raw := range raws {
		if rec, ok := Shape(raw); ok {
			records = append(records, rec)
		}
	}

	SortRecords(records)

	return records
}

// SortRecords orders records ascending by priority, tie-broken by
// display string.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Priority != records[j].Priority {
			return records[i].Priority < records[j].Priority
		}
		return records[i].Display < records[j].Display
	})
}

// FilterPrefix keeps only records whose display starts with prefix. When
// caseInsensitive is false this is spec.md §4.2's internal,
// case-sensitive complete_at filter; when true it is spec.md §6.1's
// ABI-boundary, case-insensitive get_completions filter. Both filters
// exist at their respective layers, per spec.md §9's open-question
// resolution.
func FilterPrefix(records []Record, prefix string, caseInsensitive bool) []Record {
	if prefix == "" {
		return records
	}

	out := make([]Record, 0, len(records))

	for _, r := range records {
		if hasPrefix(r.Display, prefix, caseInsensitive) {
			out = append(out, r)
		}
	}

	return out
}

func hasPrefix(s, prefix string, caseInsensitive bool) bool {
	if !caseInsensitive {
		return strings.HasPrefix(s, prefix)
	}
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}
