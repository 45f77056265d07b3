// Package tokenizer resolves tokenizer names into token counters.
//
// Built-in counters need no downloads:
//   - words: whitespace-delimited words
//   - uax29-words: Unicode words, ignoring punctuation and spaces
//   - graphemes: user-perceived characters
//   - sentences: Unicode sentences
//   - chars: code points
//
// Any other name is looked up as a tiktoken encoding (cl100k_base,
// o200k_base, ...) or an OpenAI model name (gpt-4, gpt-4o, ...). tiktoken
// fetches its vocabulary on first use and caches it on disk.
//
//	tok, err := tokenizer.Resolve("cl100k_base")
//	if err != nil {
//	    return err
//	}
//	c, err := chunker.New(tok, 512, chunker.WithMaxTokenChars(tok.MaxTokenChars))
package tokenizer
