package types

import (
	"fmt"
	"math"
)

// Overlap requests duplicated content between consecutive chunks.
// Set either Ratio (a fraction of the chunk size) or Tokens (an absolute count).
// The zero value disables overlap.
type Overlap struct {
	Ratio  float64
	Tokens int
}

// NoOverlap disables overlap
var NoOverlap = Overlap{}

// OverlapRatio requests an overlap of r times the chunk size, 0 < r < 1
func OverlapRatio(r float64) Overlap {
	return Overlap{Ratio: r}
}

// OverlapTokens requests an overlap of n tokens, 1 <= n < chunk size
func OverlapTokens(n int) Overlap {
	return Overlap{Tokens: n}
}

// OverlapFrom interprets a single number: values in (0, 1) are a ratio of
// the chunk size, values >= 1 a token count (truncated), anything else none
func OverlapFrom(v float64) Overlap {
	switch {
	case math.IsNaN(v) || v <= 0:
		return NoOverlap
	case v < 1:
		return OverlapRatio(v)
	default:
		return OverlapTokens(int(v))
	}
}

// Enabled reports whether any overlap was requested
func (o Overlap) Enabled() bool {
	return o.Ratio != 0 || o.Tokens != 0
}

// Validate checks the overlap against a chunk size
func (o Overlap) Validate(chunkSize int) error {
	if !o.Enabled() {
		return nil
	}
	if o.Ratio != 0 && o.Tokens != 0 {
		return fmt.Errorf("%w: set either a ratio or a token count, not both", ErrInvalidOverlap)
	}
	if o.Ratio != 0 {
		if math.IsNaN(o.Ratio) || o.Ratio <= 0 || o.Ratio >= 1 {
			return fmt.Errorf("%w: ratio %v must be between 0 and 1 exclusive", ErrInvalidOverlap, o.Ratio)
		}
		return nil
	}
	if o.Tokens < 1 || o.Tokens >= chunkSize {
		return fmt.Errorf("%w: %d tokens must be at least 1 and less than chunk size %d", ErrInvalidOverlap, o.Tokens, chunkSize)
	}
	return nil
}

// TokensFor converts the overlap into a token count for a chunk size
func (o Overlap) TokensFor(chunkSize int) int {
	if o.Ratio != 0 {
		return int(math.Floor(float64(chunkSize) * o.Ratio))
	}
	return min(o.Tokens, chunkSize-1)
}

func (o Overlap) String() string {
	switch {
	case o.Ratio != 0:
		return fmt.Sprintf("%g", o.Ratio)
	case o.Tokens != 0:
		return fmt.Sprintf("%d", o.Tokens)
	default:
		return "none"
	}
}
