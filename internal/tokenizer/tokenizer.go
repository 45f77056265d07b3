package tokenizer

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/graphemes"
	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
	"github.com/pkoukk/tiktoken-go"

	"github.com/dshills/gosemchunk/pkg/types"
)

// Built-in tokenizer names
const (
	Words      = "words"
	UAX29Words = "uax29-words"
	Graphemes  = "graphemes"
	Sentences  = "sentences"
	Chars      = "chars"
)

// DefaultName is used when no tokenizer is configured
const DefaultName = Words

var (
	// ErrUnknownTokenizer is returned for a name that is neither built in nor
	// known to tiktoken
	ErrUnknownTokenizer = errors.New("unknown tokenizer")
)

// Tokenizer is a resolved token counter
type Tokenizer struct {
	Name    string
	Counter types.TokenCounter

	// MaxTokenChars is the length in bytes of the longest token the counter
	// can produce, or 0 when unknown
	MaxTokenChars int
}

// CountTokens implements types.TokenCounter
func (t *Tokenizer) CountTokens(text string) int {
	return t.Counter.CountTokens(text)
}

var builtins = map[string]Tokenizer{
	Words:      {Counter: types.TokenCounterFunc(countFields)},
	UAX29Words: {Counter: types.TokenCounterFunc(countWords)},
	Graphemes:  {Counter: types.TokenCounterFunc(countGraphemes)},
	Sentences:  {Counter: types.TokenCounterFunc(countSentences)},
	Chars:      {Counter: types.TokenCounterFunc(utf8.RuneCountInString), MaxTokenChars: utf8.UTFMax},
}

// encodings are the tiktoken encodings accepted by name
var encodings = []string{
	tiktoken.MODEL_CL100K_BASE,
	tiktoken.MODEL_O200K_BASE,
	tiktoken.MODEL_P50K_BASE,
	tiktoken.MODEL_P50K_EDIT,
	tiktoken.MODEL_R50K_BASE,
}

// loaded memoizes tiktoken encodings, which are expensive to build
var loaded sync.Map

// Resolve returns the tokenizer registered under name. Names are matched
// case-insensitively against the built-in counters, then tiktoken encoding
// names, then tiktoken model names.
func Resolve(name string) (*Tokenizer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}

	if b, ok := builtins[key]; ok {
		b.Name = key
		return &b, nil
	}

	if v, ok := loaded.Load(key); ok {
		return v.(*Tokenizer), nil
	}

	encoding, ok := encodingFor(key)
	if !ok {
		// Unknown names fail here, before anything is downloaded
		return nil, fmt.Errorf("%w: %s", ErrUnknownTokenizer, key)
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}

	t := &Tokenizer{
		Name: key,
		Counter: types.TokenCounterFunc(func(text string) int {
			return len(tke.Encode(text, nil, nil))
		}),
		MaxTokenChars: vocab.longestToken(encoding),
	}
	v, _ := loaded.LoadOrStore(key, t)
	return v.(*Tokenizer), nil
}

// encodingFor maps an encoding or model name to its tiktoken encoding
func encodingFor(key string) (string, bool) {
	if slices.Contains(encodings, key) {
		return key, true
	}
	if encoding, ok := tiktoken.MODEL_TO_ENCODING[key]; ok {
		return encoding, true
	}
	for prefix, encoding := range tiktoken.MODEL_PREFIX_TO_ENCODING {
		if strings.HasPrefix(key, prefix) {
			return encoding, true
		}
	}
	return "", false
}

// Known reports whether name would resolve, without loading any encoding
func Known(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return true
	}
	if _, ok := builtins[key]; ok {
		return true
	}
	_, ok := encodingFor(key)
	return ok
}

// Names lists the built-in tokenizers and tiktoken encodings
func Names() []string {
	names := make([]string, 0, len(builtins)+len(encodings))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, encodings...)
}

// countFields counts whitespace-delimited words
func countFields(text string) int {
	return len(strings.Fields(text))
}

// countWords counts UAX #29 word segments that hold a letter or digit
func countWords(text string) int {
	n := 0
	for _, seg := range words.SegmentAll([]byte(text)) {
		if isWordLike(seg) {
			n++
		}
	}
	return n
}

func isWordLike(seg []byte) bool {
	for len(seg) > 0 {
		r, size := utf8.DecodeRune(seg)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		seg = seg[size:]
	}
	return false
}

func countGraphemes(text string) int {
	return len(graphemes.SegmentAll([]byte(text)))
}

// countSentences counts UAX #29 sentences that are not only whitespace
func countSentences(text string) int {
	n := 0
	for _, seg := range sentences.SegmentAll([]byte(text)) {
		if len(strings.TrimSpace(string(seg))) > 0 {
			n++
		}
	}
	return n
}
