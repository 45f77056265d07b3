package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/gosemchunk/internal/chunker"
	"github.com/dshills/gosemchunk/pkg/types"
)

// ErrNilFactory is returned when Run is given no way to build chunkers
var ErrNilFactory = errors.New("chunker factory is required")

// Factory builds the chunker used by one worker. Each call must return a
// chunker with its own token counter adapter.
type Factory func() (*chunker.Chunker, error)

// Config contains configuration for a batch run
type Config struct {
	Workers  int                   // Number of concurrent workers (default: runtime.NumCPU())
	Progress func(done, total int) // Called after each text; calls are serialized
	Logger   *zap.Logger           // Optional
}

// Statistics contains statistics about a batch run
type Statistics struct {
	Texts     int
	Chunks    int
	Oversized int
	Workers   int
	Duration  time.Duration
}

// Result holds the chunks of every text, in input order
type Result struct {
	Chunks     [][]types.Chunk
	Statistics Statistics
}

// Texts returns the chunk texts of every input, in input order
func (r *Result) Texts() [][]string {
	out := make([][]string, len(r.Chunks))
	for i, chunks := range r.Chunks {
		out[i] = types.Texts(chunks)
	}
	return out
}

// Run chunks texts concurrently. Workers share nothing: each builds its own
// chunker from factory. The first factory error or context cancellation
// stops the run.
func Run(ctx context.Context, texts []string, factory Factory, config *Config) (*Result, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, len(texts)))

	startTime := time.Now()
	result := &Result{Chunks: make([][]types.Chunk, len(texts))}

	jobs := make(chan int)
	var (
		done      atomic.Int32
		chunks    atomic.Int32
		oversized atomic.Int32
		mu        sync.Mutex // Serializes progress callbacks
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range texts {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			c, err := factory()
			if err != nil {
				return fmt.Errorf("failed to create chunker: %w", err)
			}
			defer func() { _ = c.Close() }()

			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}

				out := c.Chunk(texts[i])
				result.Chunks[i] = out

				chunks.Add(int32(len(out)))
				for _, chunk := range out {
					if chunk.Oversized {
						oversized.Add(1)
					}
				}

				n := int(done.Add(1))
				if config.Progress != nil {
					mu.Lock()
					config.Progress(n, len(texts))
					mu.Unlock()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Statistics = Statistics{
		Texts:     len(texts),
		Chunks:    int(chunks.Load()),
		Oversized: int(oversized.Load()),
		Workers:   workers,
		Duration:  time.Since(startTime),
	}
	logger.Debug("batch complete",
		zap.Int("texts", result.Statistics.Texts),
		zap.Int("chunks", result.Statistics.Chunks),
		zap.Int("oversized", result.Statistics.Oversized),
		zap.Int("workers", workers),
		zap.Duration("duration", result.Statistics.Duration))

	return result, nil
}
