package chunker

import (
	"fmt"

	"github.com/dshills/gosemchunk/internal/counter"
	"github.com/dshills/gosemchunk/pkg/types"
)

// Chunker splits texts into chunks of at most ChunkSize tokens.
// A Chunker is safe for concurrent use; concurrent calls share its token
// count cache.
type Chunker struct {
	counter   *counter.Adapter
	chunkSize int
	overlap   types.Overlap
}

// New creates a Chunker that counts tokens with tc through a fresh cache
func New(tc types.TokenCounter, chunkSize int, opts ...Option) (*Chunker, error) {
	if tc == nil {
		return nil, types.ErrNilCounter
	}
	o := collect(opts)
	return build(counter.New(tc, o.counters...), chunkSize, o)
}

// NewWithAdapter creates a Chunker around an existing adapter, sharing its cache
func NewWithAdapter(a *counter.Adapter, chunkSize int, opts ...Option) (*Chunker, error) {
	if a == nil {
		return nil, types.ErrNilCounter
	}
	return build(a, chunkSize, collect(opts))
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func build(a *counter.Adapter, chunkSize int, o options) (*Chunker, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: got %d", types.ErrInvalidChunkSize, chunkSize)
	}
	if err := o.overlap.Validate(chunkSize); err != nil {
		return nil, err
	}
	return &Chunker{
		counter:   a,
		chunkSize: chunkSize,
		overlap:   o.overlap,
	}, nil
}

// Chunk splits text and returns the chunks with their byte offsets.
// Without overlap, chunk i is exactly text[Start:End] and chunks do not
// overlap. It returns nil for empty or whitespace-only text.
func (c *Chunker) Chunk(text string) []types.Chunk {
	if text == "" {
		return nil
	}
	if c.overlap.Enabled() {
		return c.overlapWindows(text)
	}
	return c.chunk(text, c.chunkSize)
}

// Split is Chunk without offsets
func (c *Chunker) Split(text string) []string {
	return types.Texts(c.Chunk(text))
}

// ChunkSize returns the token budget per chunk
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap
func (c *Chunker) Overlap() types.Overlap {
	return c.overlap
}

// Counter returns the adapter used for token counting
func (c *Chunker) Counter() *counter.Adapter {
	return c.counter
}

// Close releases the token count cache
func (c *Chunker) Close() error {
	return c.counter.Close()
}

// chunk runs split, merge and reattachment at one budget
func (c *Chunker) chunk(text string, budget int) []types.Chunk {
	whole := types.Span{Start: 0, End: len(text)}
	s := splitter{text: text, budget: budget, counter: c.counter}
	frags := s.split(whole, nil)

	m := newMerger(text, budget, c.counter, frags)
	return m.assemble(m.merge(), whole)
}
