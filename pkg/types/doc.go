// Package types provides shared type definitions for gosemchunk.
//
// These types form the boundary between the splitting core and its callers:
// the token counter it consumes, the chunks it produces and the errors it
// reports.
//
// # Token Counters
//
// Any deterministic text-to-count function can drive the chunker:
//
//	words := types.TokenCounterFunc(func(s string) int {
//	    return len(strings.Fields(s))
//	})
//
// Counters are assumed monotonic under concatenation. A counter that breaks
// that assumption never makes the chunker loop, but chunks may come out
// smaller than they could be.
//
// # Chunks
//
// A Chunk carries its text and byte offsets into the original input, so
// that original[c.Start:c.End] == c.Text:
//
//	for _, c := range chunks {
//	    if err := c.Validate(original); err != nil {
//	        log.Printf("bad chunk: %v", err)
//	    }
//	}
//
// Chunks flagged Oversized hold a unit that could not be divided any further
// and still exceeds the budget. Callers that need a strict upper bound should
// check the flag.
//
// # Separator Classes
//
// SeparatorClass ranks split points from most to least significant: newline
// runs, tab runs, whitespace runs, sentence terminators, clause separators,
// sentence interrupters, word joiners and finally plain character cuts.
//
// # Errors
//
// Configuration problems wrap ErrInvalidConfiguration:
//
//	if errors.Is(err, types.ErrInvalidConfiguration) {
//	    // fix the chunk size or overlap
//	}
package types
