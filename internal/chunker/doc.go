// Package chunker splits text into semantically meaningful chunks of at most
// a given number of tokens.
//
// Text is divided recursively at the most significant separator present,
// in this order of precedence:
//   - runs of newlines and carriage returns
//   - runs of tabs
//   - runs of any other whitespace
//   - sentence terminators: . ? ! *
//   - clause separators: ; , ( ) [ ] and quotes
//   - interrupters: : — …
//   - word joiners: / \ – & -
//   - between characters, as a last resort
//
// For the three whitespace classes the longest run is chosen. Once every
// fragment fits the budget, adjacent fragments are merged back into chunks
// that are as large as the budget allows. Whitespace between chunks is
// dropped. Punctuation separators are appended to the preceding chunk while
// it still fits; any left over are packed into chunks of their own.
//
// # Basic Usage
//
//	c, err := chunker.New(types.TokenCounterFunc(countWords), 512)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, chunk := range c.Chunk(text) {
//	    fmt.Printf("%d-%d: %s\n", chunk.Start, chunk.End, chunk.Text)
//	}
//
// # Overlap
//
// WithOverlap makes consecutive chunks share content, given as a ratio of
// the chunk size or as a token count:
//
//	c, err := chunker.New(counter, 512, chunker.WithOverlap(types.OverlapRatio(0.25)))
//
// # Oversized Chunks
//
// A single character that still exceeds the budget is emitted on its own
// with Oversized set. Every other chunk counts at most ChunkSize tokens.
//
// Offsets are byte offsets into the original string.
package chunker
