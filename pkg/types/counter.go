package types

// TokenCounter measures text in tokens.
//
// Implementations must be deterministic and monotonic under concatenation:
// CountTokens(a) <= CountTokens(a+b) for all a, b.
type TokenCounter interface {
	CountTokens(text string) int
}

// TokenCounterFunc adapts a plain function to TokenCounter
type TokenCounterFunc func(text string) int

// CountTokens calls f(text)
func (f TokenCounterFunc) CountTokens(text string) int {
	return f(text)
}
