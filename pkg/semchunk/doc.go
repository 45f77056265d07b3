// Package semchunk splits text into semantically meaningful chunks that fit
// a token budget.
//
// Text is split on the most significant separator present (newlines, then
// tabs, then other whitespace, then sentence, clause, interrupter and joiner
// punctuation, and finally between characters) and the pieces are merged
// back into the largest chunks that fit.
//
//	words := semchunk.TokenCounterFunc(func(s string) int {
//	    return len(strings.Fields(s))
//	})
//	chunks, err := semchunk.Split("The quick brown fox", 2, words)
//	// "The quick", "brown fox"
//
// Each Chunk carries byte offsets into the input. A chunk flagged Oversized
// holds a single character that alone exceeds the budget.
//
// For tiktoken and the built-in counters use NewForTokenizer:
//
//	c, err := semchunk.NewForTokenizer("cl100k_base", 512,
//	    semchunk.WithOverlap(semchunk.OverlapRatio(0.1)))
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	for _, chunk := range c.Chunk(text) {
//	    fmt.Println(chunk.Start, chunk.End, chunk.Text)
//	}
package semchunk
