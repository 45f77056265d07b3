package chunker

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/gosemchunk/pkg/types"
)

// characterClasses lists the single-character separators from most to
// least significant
var characterClasses = []struct {
	class types.SeparatorClass
	runes string
}{
	{types.SeparatorSentence, ".?!*"},
	{types.SeparatorClause, ";,()[]“”‘’'\"`"},
	{types.SeparatorInterrupter, ":—…"},
	{types.SeparatorJoiner, "/\\–&-"},
}

var characterClassOf = func() map[rune]types.SeparatorClass {
	m := make(map[rune]types.SeparatorClass)
	for _, cc := range characterClasses {
		for _, r := range cc.runes {
			m[r] = cc.class
		}
	}
	return m
}()

// separator is the split point chosen for a span
type separator struct {
	class types.SeparatorClass
	// literal is the exact text to split on, empty for SeparatorCharacter
	literal string
	// at is the position of the chosen occurrence in the original text
	at types.Span
}

// run tracks the longest maximal run of one character set
type run struct {
	best    types.Span
	current int // start of the run in progress, -1 when outside a run
}

func newRun() run {
	return run{current: -1}
}

// step feeds the rune at pos; in reports whether it belongs to the set
func (r *run) step(in bool, pos int) {
	switch {
	case in && r.current < 0:
		r.current = pos
	case !in && r.current >= 0:
		r.close(pos)
	}
}

func (r *run) close(end int) {
	if r.current < 0 {
		return
	}
	// Strictly longer only, so ties keep the leftmost run
	if end-r.current > r.best.Len() {
		r.best = types.Span{Start: r.current, End: end}
	}
	r.current = -1
}

func (r *run) found() bool {
	return !r.best.Empty()
}

func isNewline(r rune) bool {
	return r == '\n' || r == '\r'
}

// classify picks the most significant separator present in text[span].
// It scans only within the span.
func classify(text string, span types.Span) separator {
	newlines, tabs, spaces := newRun(), newRun(), newRun()
	firstChar := make(map[types.SeparatorClass]types.Span, len(characterClasses))

	for pos := span.Start; pos < span.End; {
		r, size := utf8.DecodeRuneInString(text[pos:span.End])

		newlines.step(isNewline(r), pos)
		tabs.step(r == '\t', pos)
		spaces.step(unicode.IsSpace(r), pos)

		if class, ok := characterClassOf[r]; ok {
			if _, seen := firstChar[class]; !seen {
				firstChar[class] = types.Span{Start: pos, End: pos + size}
			}
		}
		pos += size
	}
	newlines.close(span.End)
	tabs.close(span.End)
	spaces.close(span.End)

	for _, candidate := range []struct {
		class types.SeparatorClass
		run   run
	}{
		{types.SeparatorNewline, newlines},
		{types.SeparatorTab, tabs},
		{types.SeparatorWhitespace, spaces},
	} {
		if candidate.run.found() {
			at := candidate.run.best
			return separator{class: candidate.class, literal: at.Text(text), at: at}
		}
	}

	for _, cc := range characterClasses {
		if at, ok := firstChar[cc.class]; ok {
			return separator{class: cc.class, literal: at.Text(text), at: at}
		}
	}

	return separator{class: types.SeparatorCharacter}
}
