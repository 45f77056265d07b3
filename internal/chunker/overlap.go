package chunker

import "github.com/dshills/gosemchunk/pkg/types"

// overlapWindows rebuilds overlapping chunks from a finer chunking.
//
// The text is chunked at reduced = min(overlap, size-overlap) tokens, then
// windows of size/reduced consecutive fine chunks are emitted, advancing
// (size-overlap)/reduced fine chunks at a time until the last fine chunk
// has been covered.
func (c *Chunker) overlapWindows(text string) []types.Chunk {
	ov := c.overlap.TokensFor(c.chunkSize)
	reduced := min(ov, c.chunkSize-ov)
	if reduced < 1 {
		return c.chunk(text, c.chunkSize)
	}

	fine := c.chunk(text, reduced)
	if len(fine) == 0 {
		return nil
	}

	window := c.chunkSize / reduced
	stride := max(1, (c.chunkSize-ov)/reduced)

	var out []types.Chunk
	for k := 0; k < len(fine); k += stride {
		end := min(k+window, len(fine))
		start, stop := fine[k].Start, fine[end-1].End
		chunk := types.Chunk{
			Text:  text[start:stop],
			Start: start,
			End:   stop,
		}
		for _, f := range fine[k:end] {
			chunk.Oversized = chunk.Oversized || f.Oversized
		}
		out = append(out, chunk)
		if end == len(fine) {
			break
		}
	}
	return out
}
