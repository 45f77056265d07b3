// Package counter memoizes token counting for the chunker.
//
// An Adapter owns its cache for its whole lifetime; nothing is shared at
// package level. Counts are keyed by exact text.
//
//	a := counter.New(tokenizer, counter.WithCacheSize(50000))
//	defer a.Close()
//
//	n := a.Count("some text")
//
// With WithCacheSize the cache evicts least recently used entries once full.
// Without it the cache grows without bound. WithoutCache turns memoization off.
//
// # Fast Path
//
// WithMaxTokenChars enables a shortcut for texts far larger than the budget:
// CountWithin counts only a prefix and, if the prefix alone is over budget,
// reports budget+1. Such bounded answers are never cached, so Count stays exact.
//
// Concurrent callers may both miss the cache for the same text and count it
// twice. Counters are deterministic, so both store the same value.
package counter
