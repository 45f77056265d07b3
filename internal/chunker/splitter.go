package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/gosemchunk/internal/counter"
	"github.com/dshills/gosemchunk/pkg/types"
)

// Fragment is a leaf of the recursive split: a span at or under the budget,
// unless it is a single character that could not be divided further.
// The separators cut out between fragments are not kept; reattachment reads
// them back from the text between merged groups.
type Fragment struct {
	types.Span

	// Oversized marks an indivisible fragment over the budget
	Oversized bool
}

// splitter divides a text into fragments that each fit a budget
type splitter struct {
	text    string
	budget  int
	counter *counter.Adapter
}

func (s *splitter) tokens(span types.Span) int {
	return s.counter.CountWithin(span.Text(s.text), s.budget)
}

// split appends the fragments of span to out in left-to-right order
func (s *splitter) split(span types.Span, out []Fragment) []Fragment {
	if span.Empty() {
		return out
	}
	if s.tokens(span) <= s.budget {
		return append(out, Fragment{Span: span})
	}

	sep := classify(s.text, span)
	if sep.class == types.SeparatorCharacter {
		return s.runes(span, out)
	}

	for _, piece := range cut(s.text, span, sep.literal) {
		out = s.split(piece, out)
	}
	return out
}

// cut splits span at every occurrence of literal and returns the pieces
// between occurrences, possibly empty
func cut(text string, span types.Span, literal string) []types.Span {
	var pieces []types.Span

	start := span.Start
	for start <= span.End {
		i := strings.Index(text[start:span.End], literal)
		if i < 0 {
			break
		}
		at := start + i
		pieces = append(pieces, types.Span{Start: start, End: at})
		start = at + len(literal)
	}
	return append(pieces, types.Span{Start: start, End: span.End})
}

// runes appends every character of span as its own fragment. A character
// over the budget is marked Oversized.
func (s *splitter) runes(span types.Span, out []Fragment) []Fragment {
	for pos := span.Start; pos < span.End; {
		_, size := utf8.DecodeRuneInString(s.text[pos:span.End])
		r := types.Span{Start: pos, End: pos + size}
		out = append(out, Fragment{Span: r, Oversized: s.tokens(r) > s.budget})
		pos += size
	}
	return out
}
