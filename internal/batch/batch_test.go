package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gosemchunk/internal/chunker"
	"github.com/dshills/gosemchunk/pkg/types"
)

var wordCount = types.TokenCounterFunc(func(s string) int { return len(strings.Fields(s)) })

func wordChunker(size int) Factory {
	return func() (*chunker.Chunker, error) {
		return chunker.New(wordCount, size)
	}
}

func sampleTexts(n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d has some words. It has a second sentence too.", i)
	}
	return texts
}

func TestRun_PreservesOrder(t *testing.T) {
	texts := sampleTexts(50)

	res, err := Run(context.Background(), texts, wordChunker(3), &Config{Workers: 8})
	require.NoError(t, err)
	require.Len(t, res.Chunks, len(texts))

	single, err := chunker.New(wordCount, 3)
	require.NoError(t, err)
	for i, text := range texts {
		assert.Equal(t, single.Chunk(text), res.Chunks[i], "text %d", i)
	}

	assert.Equal(t, len(texts), res.Statistics.Texts)
	assert.Equal(t, 8, res.Statistics.Workers)
	assert.Positive(t, res.Statistics.Chunks)
	assert.Zero(t, res.Statistics.Oversized)
}

func TestRun_Texts(t *testing.T) {
	res, err := Run(context.Background(), []string{"a b c d", "", "e"}, wordChunker(2), nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a b", "c d"}, {}, {"e"}}, res.Texts())
}

func TestRun_Progress(t *testing.T) {
	texts := sampleTexts(20)

	var (
		mu    sync.Mutex
		calls []int
	)
	_, err := Run(context.Background(), texts, wordChunker(5), &Config{
		Workers: 4,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, len(texts), total)
			calls = append(calls, done)
		},
	})
	require.NoError(t, err)

	require.Len(t, calls, len(texts))
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, calls)
}

func TestRun_WorkersDoNotShareCounters(t *testing.T) {
	var (
		mu       sync.Mutex
		adapters = map[any]bool{}
	)
	factory := func() (*chunker.Chunker, error) {
		c, err := chunker.New(wordCount, 4)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		adapters[c.Counter()] = true
		mu.Unlock()
		return c, nil
	}

	res, err := Run(context.Background(), sampleTexts(10), factory, &Config{Workers: 3})
	require.NoError(t, err)
	assert.Len(t, adapters, res.Statistics.Workers)
}

func TestRun_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	factory := func() (*chunker.Chunker, error) { return nil, boom }

	res, err := Run(context.Background(), sampleTexts(5), factory, &Config{Workers: 2})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
}

func TestRun_InvalidChunkSize(t *testing.T) {
	_, err := Run(context.Background(), sampleTexts(2), wordChunker(0), nil)
	assert.ErrorIs(t, err, types.ErrInvalidChunkSize)
}

func TestRun_NilFactory(t *testing.T) {
	_, err := Run(context.Background(), sampleTexts(2), nil, nil)
	assert.ErrorIs(t, err, ErrNilFactory)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, sampleTexts(100), wordChunker(3), &Config{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Empty(t *testing.T) {
	res, err := Run(context.Background(), nil, wordChunker(3), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Chunks)
	assert.Zero(t, res.Statistics.Chunks)
}

func BenchmarkRun(b *testing.B) {
	texts := sampleTexts(200)
	for i := 0; i < b.N; i++ {
		if _, err := Run(context.Background(), texts, wordChunker(8), nil); err != nil {
			b.Fatal(err)
		}
	}
}
