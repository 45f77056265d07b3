package chunker

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/gosemchunk/pkg/types"
)

// pending is a chunk span before whitespace trimming
type pending struct {
	types.Span
	oversized bool
}

// assemble turns merged groups into chunks, deciding where the non-whitespace
// separators between groups go. Separators following a chunk are appended to
// it for as long as it still fits; the rest are packed into chunks of their
// own. Whitespace between groups is dropped.
func (m *merger) assemble(groups []group, whole types.Span) []types.Chunk {
	out := make([]pending, 0, len(groups)+1)
	if len(groups) == 0 {
		// Every piece was a separator
		return m.finish(m.pack(out, nonSpaceCore(m.text, whole)))
	}

	first := m.groupSpan(groups[0])
	lead := nonSpaceCore(m.text, types.Span{Start: whole.Start, End: first.Start})
	if !lead.Empty() {
		if !m.groupOversized(groups[0]) && m.spanFits(types.Span{Start: lead.Start, End: first.End}) {
			first.Start = lead.Start
		} else {
			out = m.pack(out, lead)
		}
	}

	for k, g := range groups {
		current := m.groupSpan(g)
		if k == 0 {
			current = first
		}
		out = append(out, pending{Span: current, oversized: m.groupOversized(g)})

		next := whole.End
		if k+1 < len(groups) {
			next = m.frags[groups[k+1].first].Start
		}
		out = m.reattach(out, nonSpaceCore(m.text, types.Span{Start: current.End, End: next}))
	}

	return m.finish(out)
}

// reattach places the separators in gap, which follows the last chunk of out
func (m *merger) reattach(out []pending, gap types.Span) []pending {
	if gap.Empty() {
		return out
	}
	if prev := &out[len(out)-1]; !prev.oversized {
		if end := m.extend(prev.Start, gap.Start, gap.End); end > gap.Start {
			prev.End = end
			gap.Start = end
		}
	}
	return m.pack(out, gap)
}

// pack cuts a run of separators between characters into chunks that each
// fit. A character that alone exceeds the budget becomes an oversized chunk.
func (m *merger) pack(out []pending, span types.Span) []pending {
	for {
		span = nonSpaceCore(m.text, span)
		if span.Empty() {
			return out
		}

		end := m.extend(span.Start, span.Start, span.End)
		oversized := end == span.Start
		if oversized {
			_, size := utf8.DecodeRuneInString(m.text[span.Start:span.End])
			end = span.Start + size
		}
		out = append(out, pending{Span: types.Span{Start: span.Start, End: end}, oversized: oversized})
		span.Start = end
	}
}

// extend returns the farthest character boundary end in (lo, hi] such that
// text[from:end] fits, or lo when not even the first character fits
func (m *merger) extend(from, lo, hi int) int {
	if m.spanFits(types.Span{Start: from, End: hi}) {
		return hi
	}

	var ends []int
	for pos := lo; pos < hi; {
		_, size := utf8.DecodeRuneInString(m.text[pos:hi])
		pos += size
		ends = append(ends, pos)
	}

	// ends[len(ends)-1] == hi does not fit; only fitting probes move good
	good, bad := -1, len(ends)-1
	for bad-good > 1 {
		mid := good + (bad-good)/2
		if m.spanFits(types.Span{Start: from, End: ends[mid]}) {
			good = mid
		} else {
			bad = mid
		}
	}
	if good < 0 {
		return lo
	}
	return ends[good]
}

func (m *merger) groupSpan(g group) types.Span {
	return m.span(g.first, g.last)
}

// groupOversized reports whether g is a single character over the budget
func (m *merger) groupOversized(g group) bool {
	return g.first == g.last && m.frags[g.first].Oversized
}

func (m *merger) spanFits(span types.Span) bool {
	return m.counter.CountWithin(span.Text(m.text), m.budget) <= m.budget
}

// finish trims whitespace from each chunk and drops the ones left empty
func (m *merger) finish(spans []pending) []types.Chunk {
	chunks := make([]types.Chunk, 0, len(spans))
	for _, p := range spans {
		span := nonSpaceCore(m.text, p.Span)
		if span.Empty() {
			continue
		}
		chunks = append(chunks, types.Chunk{
			Text:      span.Text(m.text),
			Start:     span.Start,
			End:       span.End,
			Oversized: p.oversized,
		})
	}
	return chunks
}

// nonSpaceCore returns span with leading and trailing whitespace removed
func nonSpaceCore(text string, span types.Span) types.Span {
	start, end := span.Start, span.End
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return types.Span{Start: start, End: end}
}
