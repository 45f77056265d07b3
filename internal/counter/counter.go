package counter

import (
	"sync/atomic"
	"unicode/utf8"

	"github.com/dshills/gosemchunk/pkg/types"
)

const (
	// DefaultCacheSize is used when a bounded cache is requested without a size
	DefaultCacheSize = 10000

	// fastPathFactor is how many bytes per budgeted token a text may have
	// before the prefix check kicks in
	fastPathFactor = 6
)

// Adapter wraps a TokenCounter with a cache and an optional fast path for
// very long inputs. It is safe for concurrent use.
type Adapter struct {
	counter       types.TokenCounter
	cache         cache
	maxTokenChars int
	calls         atomic.Int64
}

type options struct {
	cacheSize     int
	noCache       bool
	maxTokenChars int
}

// Option configures an Adapter
type Option func(*options)

// WithCacheSize bounds the cache to size entries with LRU eviction.
// A size of 0 leaves the cache unbounded.
func WithCacheSize(size int) Option {
	return func(o *options) {
		if size >= 0 {
			o.cacheSize = size
		}
	}
}

// WithoutCache disables memoization entirely
func WithoutCache() Option {
	return func(o *options) {
		o.noCache = true
	}
}

// WithMaxTokenChars sets the length in bytes of the longest token the
// counter can produce, enabling the fast path for long texts
func WithMaxTokenChars(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokenChars = n
		}
	}
}

// New creates an Adapter around counter
func New(counter types.TokenCounter, opts ...Option) *Adapter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &Adapter{
		counter:       counter,
		maxTokenChars: o.maxTokenChars,
	}
	switch {
	case o.noCache:
	case o.cacheSize > 0:
		a.cache = newLRUCache(o.cacheSize)
	default:
		a.cache = newMapCache()
	}
	return a
}

// Count returns the exact token count of text
func (a *Adapter) Count(text string) int {
	if a.cache != nil {
		if tokens, ok := a.cache.Get(text); ok {
			return tokens
		}
	}

	tokens := a.count(text)
	if a.cache != nil {
		a.cache.Add(text, tokens)
	}
	return tokens
}

// CountWithin returns the token count of text as seen against budget.
// The result is exact when it is <= budget. When the fast path is enabled
// and a prefix of a long text already exceeds budget, budget+1 is returned
// without counting the rest.
func (a *Adapter) CountWithin(text string, budget int) int {
	if a.maxTokenChars > 0 && budget > 0 {
		heuristic := budget * fastPathFactor
		if len(text) > heuristic {
			cut := prefixEnd(text, heuristic+a.maxTokenChars-1)
			if a.Count(text[:cut]) > budget {
				return budget + 1
			}
		}
	}
	return a.Count(text)
}

// Calls returns how many times the wrapped counter was invoked
func (a *Adapter) Calls() int64 {
	return a.calls.Load()
}

// Len returns the number of cached counts
func (a *Adapter) Len() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.Len()
}

// Close drops every cached count
func (a *Adapter) Close() error {
	if a.cache != nil {
		a.cache.Purge()
	}
	return nil
}

func (a *Adapter) count(text string) int {
	a.calls.Add(1)
	tokens := a.counter.CountTokens(text)
	if tokens < 0 {
		return 0
	}
	return tokens
}

// prefixEnd returns n moved forward to the next rune boundary in text
func prefixEnd(text string, n int) int {
	if n >= len(text) {
		return len(text)
	}
	for n < len(text) && !utf8.RuneStart(text[n]) {
		n++
	}
	return n
}
