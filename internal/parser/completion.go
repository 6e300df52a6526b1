package parser

/*
#include <clang-c/Index.h>
*/
import "C"

import (
	"unsafe"

	"github.com/clangcore/corecc/internal/shaper"
)

// completeOptions is the fixed option set spec.md §4.1 assigns to
// complete: include macros, include code patterns, include brief
// comments.
const completeOptions = C.CXCodeComplete_IncludeMacros |
	C.CXCodeComplete_IncludeCodePatterns |
	C.CXCodeComplete_IncludeBriefComments

// Complete runs code completion at (line, col), optionally against an
// in-memory buffer, and returns every raw completion record — shaping
// happens one layer up, in internal/shaper. A nil result set (libclang
// returned nothing) yields an empty, non-error slice, per spec.md §4.2's
// "no results, never fatal" failure policy.
func (t *TU) Complete(line, col uint, buf *Buffer) []shaper.RawCompletion {
	unsaved, n, free := unsavedFiles(buf)
	defer free()

	var results *C.CXCodeCompleteResults

	withCString(t.filename, func(cfilename *C.char) {
		results = C.clang_codeCompleteAt(
			t.handle, cfilename,
			C.uint(line), C.uint(col),
			unsaved, n,
			C.uint(completeOptions),
		)
	})

	if results == nil {
		return nil
	}
	defer C.clang_disposeCodeCompleteResults(results)

	count := int(results.NumResults)
	raws := make([]shaper.RawCompletion, 0, count)

	cResults := (*[1 << 24]C.CXCompletionResult)(
		unsafe.Pointer(results.Results),
	)[:count:count]

	for i := 0; i < count; i++ {
		raws = append(raws, convertCompletion(cResults[i]))
	}

	return raws
}

func convertCompletion(res C.CXCompletionResult) shaper.RawCompletion {
	cs := res.CompletionString

	raw := shaper.RawCompletion{
		Available: C.clang_getCompletionAvailability(cs) == C.CXAvailability_Available,
		Priority:  int(C.clang_getCompletionPriority(cs)),
	}

	if res.CursorKind == C.CXCursor_Constructor {
		raw.Kind = shaper.RecordKindConstructor
	}

	if !raw.Available {
		return raw
	}

	n := int(C.clang_getNumCompletionChunks(cs))
	raw.Chunks = make([]shaper.Chunk, 0, n)

	for i := 0; i < n; i++ {
		kind := C.clang_getCompletionChunkKind(cs, C.uint(i))
		if kind == C.CXCompletionChunk_Optional {
			continue
		}

		text := toGoString(C.clang_getCompletionChunkText(cs, C.uint(i)))
		raw.Chunks = append(raw.Chunks, shaper.Chunk{Kind: toChunkKind(kind), Text: text})
	}

	return raw
}

func toChunkKind(k C.enum_CXCompletionChunkKind) shaper.ChunkKind {
	switch k {
	case C.CXCompletionChunk_LeftParen, C.CXCompletionChunk_RightParen,
		C.CXCompletionChunk_LeftBracket, C.CXCompletionChunk_RightBracket,
		C.CXCompletionChunk_LeftBrace, C.CXCompletionChunk_RightBrace,
		C.CXCompletionChunk_LeftAngle, C.CXCompletionChunk_RightAngle:
		return shaper.ChunkPunctuation
	case C.CXCompletionChunk_HorizontalSpace, C.CXCompletionChunk_VerticalSpace:
		return shaper.ChunkWhitespace
	case C.CXCompletionChunk_CurrentParameter:
		return shaper.ChunkCurrentParameter
	case C.CXCompletionChunk_Colon:
		return shaper.ChunkColon
	case C.CXCompletionChunk_Comma:
		return shaper.ChunkComma
	case C.CXCompletionChunk_TypedText:
		return shaper.ChunkTypedText
	case C.CXCompletionChunk_Placeholder:
		return shaper.ChunkPlaceholder
	case C.CXCompletionChunk_ResultType:
		return shaper.ChunkResultType
	case C.CXCompletionChunk_Informative:
		return shaper.ChunkInformative
	case C.CXCompletionChunk_Equal:
		return shaper.ChunkEquals
	case C.CXCompletionChunk_SemiColon:
		return shaper.ChunkSemicolon
	default: // CXCompletionChunk_Text and anything unanticipated
		return shaper.ChunkGenericText
	}
}
