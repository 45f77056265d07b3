package types

// SeparatorClass ranks the kinds of text a span can be split on.
// Lower values are more semantically significant.
type SeparatorClass int

const (
	// SeparatorNone is the zero value: no separator chosen
	SeparatorNone SeparatorClass = iota
	// SeparatorNewline is a run of \n and \r characters
	SeparatorNewline
	// SeparatorTab is a run of tab characters
	SeparatorTab
	// SeparatorWhitespace is a run of any whitespace characters
	SeparatorWhitespace
	// SeparatorSentence is one of . ? ! *
	SeparatorSentence
	// SeparatorClause is one of ; , ( ) [ ] and the straight and curly quotes
	SeparatorClause
	// SeparatorInterrupter is one of : — …
	SeparatorInterrupter
	// SeparatorJoiner is one of / \ – & -
	SeparatorJoiner
	// SeparatorCharacter means no privileged separator exists and the span is cut between characters
	SeparatorCharacter
)

var separatorClassNames = map[SeparatorClass]string{
	SeparatorNone:        "none",
	SeparatorNewline:     "newline",
	SeparatorTab:         "tab",
	SeparatorWhitespace:  "whitespace",
	SeparatorSentence:    "sentence",
	SeparatorClause:      "clause",
	SeparatorInterrupter: "interrupter",
	SeparatorJoiner:      "joiner",
	SeparatorCharacter:   "character",
}

func (c SeparatorClass) String() string {
	if name, ok := separatorClassNames[c]; ok {
		return name
	}
	return "unknown"
}

// Span is a view into an original input string.
// Start and End are byte offsets into the original text, 0 <= Start <= End <= len(text).
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no text
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Text returns the substring of original the span covers
func (s Span) Text(original string) string {
	return original[s.Start:s.End]
}
