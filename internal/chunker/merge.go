package chunker

import (
	"sort"

	"github.com/dshills/gosemchunk/internal/counter"
	"github.com/dshills/gosemchunk/pkg/types"
)

// initialCharsPerToken seeds the boundary estimate before any measurement.
// At this value the first probe undershoots for any real tokenizer.
const initialCharsPerToken = 0.2

// group is an inclusive run of fragment indexes forming one chunk
type group struct {
	first, last int
}

// merger coalesces adjacent fragments into chunks as large as the budget allows
type merger struct {
	text    string
	budget  int
	counter *counter.Adapter
	frags   []Fragment

	// nextOversized[i] is the index of the first oversized fragment after i,
	// or len(frags)
	nextOversized []int

	charsPerToken float64
}

func newMerger(text string, budget int, c *counter.Adapter, frags []Fragment) *merger {
	next := make([]int, len(frags))
	barrier := len(frags)
	for i := len(frags) - 1; i >= 0; i-- {
		next[i] = barrier
		if frags[i].Oversized {
			barrier = i
		}
	}
	return &merger{
		text:          text,
		budget:        budget,
		counter:       c,
		frags:         frags,
		nextOversized: next,
		charsPerToken: initialCharsPerToken,
	}
}

// span returns the original text covered by fragments first..last
func (m *merger) span(first, last int) types.Span {
	return types.Span{Start: m.frags[first].Start, End: m.frags[last].End}
}

// fits counts fragments first..last as one string and reports whether they fit
func (m *merger) fits(first, last int) bool {
	span := m.span(first, last)
	tokens := m.counter.CountWithin(span.Text(m.text), m.budget)
	if tokens > 0 {
		m.charsPerToken = float64(span.Len()) / float64(tokens)
	}
	return tokens <= m.budget
}

// merge walks the fragments and returns the chunk groups in order
func (m *merger) merge() []group {
	groups := make([]group, 0, len(m.frags))
	for i := 0; i < len(m.frags); {
		last := i
		if !m.frags[i].Oversized {
			last = m.boundary(i)
		}
		groups = append(groups, group{first: i, last: last})
		i = last + 1
	}
	return groups
}

// boundary finds the farthest fragment j such that first..j fits.
//
// The first probe is placed using the running characters-per-token estimate,
// then the search gallops outward while probes fit and bisects once one
// does not. Only probes that fit ever move the lower bound, so a counter that
// is not monotonic can shrink the result but never stall the walk: at worst
// fragment first is returned alone.
func (m *merger) boundary(first int) int {
	lo, hi := first, m.nextOversized[first]
	if hi-lo <= 1 {
		return lo
	}

	probe := m.estimate(first, hi)
	if !m.fits(first, probe) {
		hi = probe
	} else {
		lo = probe
		for step := max(1, probe-first); lo+step < hi; step *= 2 {
			next := lo + step
			if !m.fits(first, next) {
				hi = next
				break
			}
			lo = next
		}
	}

	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if m.fits(first, mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// estimate guesses the last fragment index that fits, within (first, hi)
func (m *merger) estimate(first, hi int) int {
	target := float64(m.budget) * m.charsPerToken
	start := m.frags[first].Start
	n := sort.Search(hi-first, func(k int) bool {
		return float64(m.frags[first+k].End-start) >= target
	})
	probe := first + n
	return min(max(probe, first+1), hi-1)
}
