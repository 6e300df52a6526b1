package shaper

// ChunkKind buckets libclang's CXCompletionChunkKind values into the
// categories spec.md §4.4's shaping table distinguishes. Several
// distinct libclang kinds collapse onto one bucket (e.g. every bracket
// and parenthesis kind is Punctuation) because the table treats them
// identically.
type ChunkKind int

const (
	ChunkPunctuation ChunkKind = iota
	ChunkWhitespace
	ChunkCurrentParameter
	ChunkColon
	ChunkComma
	ChunkTypedText
	ChunkPlaceholder
	ChunkResultType
	ChunkGenericText
	ChunkInformative
	ChunkEquals
	ChunkOptional
	ChunkSemicolon
)

// Chunk is one labeled fragment of a single completion suggestion.
type Chunk struct {
	Kind ChunkKind
	Text string
}

// RecordKind distinguishes the one record kind §4.4's rules care about
// (constructor, which gets an extra " ${N:v}" placeholder on its typed
// text) from everything else.
type RecordKind int

const (
	RecordKindOther RecordKind = iota
	RecordKindConstructor
)

// RawCompletion is one unshaped completion record as produced by the
// parser-library façade: a kind, a priority, and an ordered sequence of
// typed chunks (spec.md §4.4).
type RawCompletion struct {
	Available bool
	Kind      RecordKind
	Priority  int
	Chunks    []Chunk
}
