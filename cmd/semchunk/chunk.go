package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/gosemchunk/internal/batch"
	"github.com/dshills/gosemchunk/internal/chunker"
	"github.com/dshills/gosemchunk/internal/config"
	"github.com/dshills/gosemchunk/internal/storage"
	"github.com/dshills/gosemchunk/internal/tokenizer"
	"github.com/dshills/gosemchunk/pkg/types"
)

// stdinSource names input read from stdin
const stdinSource = "-"

// record is one line of output
type record struct {
	Source    string `json:"source"`
	Seq       int    `json:"seq"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Text      string `json:"text"`
	Oversized bool   `json:"oversized,omitempty"`
}

type input struct {
	source string
	text   string
}

func readInputs(paths []string, stdin io.Reader) ([]input, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []input{{source: stdinSource, text: string(data)}}, nil
	}

	inputs := make([]input, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs[i] = input{source: path, text: string(data)}
	}
	return inputs, nil
}

// newFactory returns a batch factory giving each worker its own cache
func newFactory(cfg *config.Config, tok *tokenizer.Tokenizer) batch.Factory {
	return func() (*chunker.Chunker, error) {
		return chunker.New(tok, cfg.ChunkSize,
			chunker.WithOverlap(cfg.Overlap()),
			chunker.WithCacheSize(cfg.CacheSize),
			chunker.WithMaxTokenChars(max(cfg.MaxTokenChars, tok.MaxTokenChars)))
	}
}

func chunkFiles(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, cfg, logger, err := setup("semchunk", args, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tok, err := tokenizer.Resolve(cfg.Tokenizer)
	if err != nil {
		return err
	}
	inputs, err := readInputs(opts.fs.Args(), stdin)
	if err != nil {
		return err
	}

	store, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	texts := make([]string, len(inputs))
	for i, in := range inputs {
		texts[i] = in.text
	}
	result, err := batch.Run(ctx, texts, newFactory(cfg, tok), &batch.Config{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if err := write(stdout, inputs, result, opts.textOnly); err != nil {
		return err
	}

	if store != nil {
		if _, err := save(ctx, store, cfg, tok, inputs, result.Chunks, logger); err != nil {
			return err
		}
	}

	stats := result.Statistics
	logger.Info("chunking complete",
		zap.String("tokenizer", tok.Name),
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.Int("texts", stats.Texts),
		zap.Int("chunks", stats.Chunks),
		zap.Int("oversized", stats.Oversized),
		zap.Duration("duration", stats.Duration))
	if stats.Oversized > 0 {
		logger.Warn("some chunks exceed the chunk size", zap.Int("oversized", stats.Oversized))
	}
	return nil
}

// write prints one record per chunk, or with textOnly one array of chunk
// texts per input
func write(w io.Writer, inputs []input, result *batch.Result, textOnly bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if textOnly {
		for _, texts := range result.Texts() {
			if err := enc.Encode(texts); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	for i, in := range inputs {
		for seq, c := range result.Chunks[i] {
			err := enc.Encode(record{
				Source:    in.source,
				Seq:       seq,
				Start:     c.Start,
				End:       c.End,
				Text:      c.Text,
				Oversized: c.Oversized,
			})
			if err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

// save stores every input and its chunks, skipping inputs already stored
// with the same content and settings. It returns how many were written.
func save(ctx context.Context, store storage.Storage, cfg *config.Config, tok *tokenizer.Tokenizer, inputs []input, chunks [][]types.Chunk, logger *zap.Logger) (int, error) {
	settings := storage.Settings{
		Tokenizer: tok.Name,
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.Overlap().String(),
	}

	saved := 0
	for i, in := range inputs {
		hash := storage.HashContent(in.text)
		existing, err := store.FindDocument(ctx, in.source, hash, settings)
		switch {
		case err == nil:
			logger.Debug("document unchanged",
				zap.String("id", existing.ID),
				zap.String("source", in.source))
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return saved, fmt.Errorf("failed to look up %s: %w", in.source, err)
		}

		doc := &storage.Document{
			Source:      in.source,
			ContentHash: hash,
			Settings:    settings,
		}
		if err := store.SaveDocument(ctx, doc, storage.NewChunks(chunks[i], tok.CountTokens)); err != nil {
			return saved, fmt.Errorf("failed to store %s: %w", in.source, err)
		}
		saved++
		logger.Debug("stored document",
			zap.String("id", doc.ID),
			zap.String("source", in.source),
			zap.Int("chunks", doc.ChunkCount))
	}
	return saved, nil
}
