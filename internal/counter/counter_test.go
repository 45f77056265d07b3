package counter

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gosemchunk/pkg/types"
)

func wordCounter() types.TokenCounter {
	return types.TokenCounterFunc(func(s string) int {
		return len(strings.Fields(s))
	})
}

func TestCount_Memoizes(t *testing.T) {
	a := New(wordCounter())

	assert.Equal(t, 3, a.Count("one two three"))
	assert.Equal(t, 3, a.Count("one two three"))
	assert.Equal(t, int64(1), a.Calls())
	assert.Equal(t, 1, a.Len())

	assert.Equal(t, 0, a.Count(""))
	assert.Equal(t, int64(2), a.Calls())
}

func TestCount_WithoutCache(t *testing.T) {
	a := New(wordCounter(), WithoutCache())

	a.Count("a b")
	a.Count("a b")
	assert.Equal(t, int64(2), a.Calls())
	assert.Equal(t, 0, a.Len())
}

func TestCount_BoundedCacheEvicts(t *testing.T) {
	a := New(wordCounter(), WithCacheSize(2))

	a.Count("a")
	a.Count("b")
	a.Count("c")
	assert.Equal(t, 2, a.Len())

	// "a" was least recently used and is gone
	calls := a.Calls()
	a.Count("a")
	assert.Equal(t, calls+1, a.Calls())

	// "c" is still cached
	calls = a.Calls()
	a.Count("c")
	assert.Equal(t, calls, a.Calls())
}

func TestCount_ClampsNegative(t *testing.T) {
	a := New(types.TokenCounterFunc(func(string) int { return -4 }))
	assert.Equal(t, 0, a.Count("anything"))
}

func TestClose_PurgesCache(t *testing.T) {
	a := New(wordCounter())
	a.Count("x y")
	require.Equal(t, 1, a.Len())

	require.NoError(t, a.Close())
	assert.Equal(t, 0, a.Len())
}

func TestCountWithin_FastPath(t *testing.T) {
	var seen []int
	var mu sync.Mutex
	counter := types.TokenCounterFunc(func(s string) int {
		mu.Lock()
		seen = append(seen, len(s))
		mu.Unlock()
		return len(strings.Fields(s))
	})

	text := strings.Repeat("word ", 1000)
	a := New(counter, WithMaxTokenChars(4))

	got := a.CountWithin(text, 10)
	assert.Equal(t, 11, got)

	// Only the prefix was counted, never the whole text
	for _, n := range seen {
		assert.Less(t, n, len(text))
	}

	// The bounded answer is not cached as an exact count
	assert.Equal(t, 1000, a.Count(text))
}

func TestCountWithin_ShortTextIsExact(t *testing.T) {
	a := New(wordCounter(), WithMaxTokenChars(4))
	assert.Equal(t, 3, a.CountWithin("a b c", 2))
}

func TestCountWithin_NoFastPathWithoutMaxTokenChars(t *testing.T) {
	a := New(wordCounter())
	text := strings.Repeat("word ", 100)
	assert.Equal(t, 100, a.CountWithin(text, 5))
}

func TestPrefixEnd_RuneBoundary(t *testing.T) {
	text := "aé" // 'é' is two bytes
	assert.Equal(t, 1, prefixEnd(text, 1))
	assert.Equal(t, 3, prefixEnd(text, 2))
	assert.Equal(t, 3, prefixEnd(text, 10))
}

func TestAdapter_ConcurrentAccess(t *testing.T) {
	a := New(wordCounter(), WithCacheSize(16))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, 2, a.Count("hello world"))
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, a.Len(), 16)
}
