package types

import "strings"

// Chunk is a budget-respecting piece of an input text
type Chunk struct {
	// Text is exactly original[Start:End]
	Text string

	// Byte offsets into the original text
	Start int
	End   int

	// Oversized is set when the chunk is a unit that could not be divided
	// any further and still exceeds the token budget
	Oversized bool
}

// Span returns the chunk's offsets as a Span
func (c Chunk) Span() Span {
	return Span{Start: c.Start, End: c.End}
}

// ValidateContent checks that the chunk is not empty or whitespace only
func (c Chunk) ValidateContent() error {
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyChunk
	}
	return nil
}

// ValidateOffsets checks the chunk against the text it was cut from
func (c Chunk) ValidateOffsets(original string) error {
	if c.Start < 0 || c.Start > c.End || c.End > len(original) {
		return ErrInvalidOffsets
	}
	if original[c.Start:c.End] != c.Text {
		return ErrOffsetsMismatch
	}
	return nil
}

// Validate performs comprehensive validation of the chunk
func (c Chunk) Validate(original string) error {
	if err := c.ValidateContent(); err != nil {
		return err
	}
	return c.ValidateOffsets(original)
}

// Texts returns the text of each chunk in order
func Texts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
