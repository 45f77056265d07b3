package semchunk

import (
	"context"

	"github.com/dshills/gosemchunk/internal/batch"
	"github.com/dshills/gosemchunk/internal/chunker"
	"github.com/dshills/gosemchunk/internal/tokenizer"
	"github.com/dshills/gosemchunk/pkg/types"
)

type (
	// Chunker splits texts into chunks of at most a fixed number of tokens
	Chunker = chunker.Chunker
	// Option configures a Chunker
	Option = chunker.Option
	// Chunk is one piece of a text with its byte offsets
	Chunk = types.Chunk
	// Overlap requests duplicated content between consecutive chunks
	Overlap = types.Overlap
	// TokenCounter measures text in tokens
	TokenCounter = types.TokenCounter
	// TokenCounterFunc adapts a function to TokenCounter
	TokenCounterFunc = types.TokenCounterFunc
	// BatchStatistics summarizes a SplitTexts run
	BatchStatistics = batch.Statistics
)

// Chunker options and overlap constructors
var (
	WithOverlap       = chunker.WithOverlap
	WithCacheSize     = chunker.WithCacheSize
	WithoutCache      = chunker.WithoutCache
	WithMaxTokenChars = chunker.WithMaxTokenChars

	OverlapRatio  = types.OverlapRatio
	OverlapTokens = types.OverlapTokens
)

// Errors callers can match with errors.Is
var (
	ErrInvalidConfiguration = types.ErrInvalidConfiguration
	ErrInvalidChunkSize     = types.ErrInvalidChunkSize
	ErrInvalidOverlap       = types.ErrInvalidOverlap
	ErrNilCounter           = types.ErrNilCounter
	ErrUnknownTokenizer     = tokenizer.ErrUnknownTokenizer
)

// New creates a Chunker that counts tokens with counter
func New(counter TokenCounter, chunkSize int, opts ...Option) (*Chunker, error) {
	return chunker.New(counter, chunkSize, opts...)
}

// NewForTokenizer creates a Chunker for a named tokenizer: a tiktoken
// encoding such as "cl100k_base", an OpenAI model name such as "gpt-4o", or
// one of "words", "uax29-words", "graphemes", "sentences" and "chars".
// The long-text fast path is enabled when the tokenizer bounds its token
// length.
func NewForTokenizer(name string, chunkSize int, opts ...Option) (*Chunker, error) {
	tok, err := tokenizer.Resolve(name)
	if err != nil {
		return nil, err
	}
	if tok.MaxTokenChars > 0 {
		opts = append([]Option{WithMaxTokenChars(tok.MaxTokenChars)}, opts...)
	}
	return chunker.New(tok, chunkSize, opts...)
}

// Split chunks a single text
func Split(text string, chunkSize int, counter TokenCounter, opts ...Option) ([]Chunk, error) {
	c, err := New(counter, chunkSize, opts...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	return c.Chunk(text), nil
}

// BatchOptions controls SplitTexts
type BatchOptions struct {
	Workers  int                   // Concurrent workers (default: runtime.NumCPU())
	Progress func(done, total int) // Called after each text; calls are serialized
}

// SplitTexts chunks many texts concurrently and returns their chunks in
// input order. Every worker gets its own token count cache, so counter must
// be safe for concurrent use.
func SplitTexts(ctx context.Context, texts []string, chunkSize int, counter TokenCounter, batchOpts *BatchOptions, opts ...Option) ([][]Chunk, BatchStatistics, error) {
	// Fail before starting workers
	if _, err := New(counter, chunkSize, opts...); err != nil {
		return nil, BatchStatistics{}, err
	}

	config := &batch.Config{}
	if batchOpts != nil {
		config.Workers = batchOpts.Workers
		config.Progress = batchOpts.Progress
	}

	result, err := batch.Run(ctx, texts, func() (*chunker.Chunker, error) {
		return chunker.New(counter, chunkSize, opts...)
	}, config)
	if err != nil {
		return nil, BatchStatistics{}, err
	}
	return result.Chunks, result.Statistics, nil
}
