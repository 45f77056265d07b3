package chunker

import (
	"github.com/dshills/gosemchunk/internal/counter"
	"github.com/dshills/gosemchunk/pkg/types"
)

type options struct {
	overlap  types.Overlap
	counters []counter.Option
}

// Option configures a Chunker
type Option func(*options)

// WithOverlap makes consecutive chunks share content
func WithOverlap(o types.Overlap) Option {
	return func(opts *options) {
		opts.overlap = o
	}
}

// WithCacheSize bounds the token count cache. 0 leaves it unbounded.
// Ignored by NewWithAdapter.
func WithCacheSize(size int) Option {
	return func(opts *options) {
		opts.counters = append(opts.counters, counter.WithCacheSize(size))
	}
}

// WithoutCache disables token count memoization. Ignored by NewWithAdapter.
func WithoutCache() Option {
	return func(opts *options) {
		opts.counters = append(opts.counters, counter.WithoutCache())
	}
}

// WithMaxTokenChars enables the long-text fast path, where n is the length
// in bytes of the longest token the counter can produce. Ignored by
// NewWithAdapter.
func WithMaxTokenChars(n int) Option {
	return func(opts *options) {
		opts.counters = append(opts.counters, counter.WithMaxTokenChars(n))
	}
}
