// Package batch chunks many texts concurrently.
//
// Work is spread over a fixed pool of workers. Each worker owns a chunker,
// and so a token count cache, built by the caller's Factory; nothing is
// shared between workers. Results are returned in input order.
//
//	tok, _ := tokenizer.Resolve("words")
//	res, err := batch.Run(ctx, texts, func() (*chunker.Chunker, error) {
//	    return chunker.New(tok, 256)
//	}, &batch.Config{
//	    Workers:  4,
//	    Progress: func(done, total int) { log.Printf("%d/%d", done, total) },
//	})
package batch
