package tokenizer

import (
	"path"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// vocabularies records the longest token of every BPE vocabulary tiktoken
// loads, so resolved encodings can bound their token length
type vocabularies struct {
	inner tiktoken.BpeLoader

	mu      sync.Mutex
	longest map[string]int // by encoding name
}

var vocab = &vocabularies{
	inner:   tiktoken.NewDefaultBpeLoader(),
	longest: make(map[string]int),
}

func init() {
	tiktoken.SetBpeLoader(vocab)
}

// LoadTiktokenBpe implements tiktoken.BpeLoader
func (v *vocabularies) LoadTiktokenBpe(file string) (map[string]int, error) {
	v.mu.Lock()
	inner := v.inner
	v.mu.Unlock()

	ranks, err := inner.LoadTiktokenBpe(file)
	if err != nil {
		return nil, err
	}

	n := 0
	for token := range ranks {
		n = max(n, len(token))
	}

	v.mu.Lock()
	v.longest[strings.TrimSuffix(path.Base(file), ".tiktoken")] = n
	v.mu.Unlock()
	return ranks, nil
}

// longestToken returns the length in bytes of the longest token of an
// encoding, or 0 if its vocabulary was never seen
func (v *vocabularies) longestToken(encoding string) int {
	// p50k_edit shares the p50k_base vocabulary
	if encoding == tiktoken.MODEL_P50K_EDIT {
		encoding = tiktoken.MODEL_P50K_BASE
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.longest[encoding]
}

// setLoader replaces the loader that reads vocabulary files and returns the
// previous one
func (v *vocabularies) setLoader(l tiktoken.BpeLoader) tiktoken.BpeLoader {
	v.mu.Lock()
	defer v.mu.Unlock()
	prev := v.inner
	v.inner = l
	return prev
}
