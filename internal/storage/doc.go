// Package storage persists chunked documents in SQLite.
//
// # Database Schema
//
// Tables:
//   - documents: one row per chunked text, keyed by a UUID and unique on
//     (source, content_hash, tokenizer, chunk_size, overlap)
//   - chunks: chunk text and byte offsets, ordered by seq
//   - schema_version: applied migrations, compared as semantic versions
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("chunks.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	doc := &storage.Document{
//	    Source:      "notes.txt",
//	    ContentHash: storage.HashContent(text),
//	    Settings:    storage.Settings{Tokenizer: "words", ChunkSize: 256, Overlap: "none"},
//	}
//	err = db.SaveDocument(ctx, doc, storage.NewChunks(c.Chunk(text), tok.CountTokens))
//
// Saving the same content again with the same settings replaces the stored
// chunks and keeps the document ID.
//
// # Drivers
//
// The default build uses modernc.org/sqlite, a pure Go driver. Building with
// the sqlite_cgo tag switches to github.com/mattn/go-sqlite3.
package storage
