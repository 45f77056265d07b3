package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidDocument is returned when a document is missing required fields
	ErrInvalidDocument = errors.New("invalid document")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer; this also keeps :memory: databases
	// on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage opens (or creates) the database at dbPath and migrates it
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const documentColumns = `
	id, source, content_hash, tokenizer, chunk_size, overlap,
	chunk_count, oversized_count, created_at, updated_at
`

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var doc Document
	var hash []byte
	err := row.Scan(
		&doc.ID, &doc.Source, &hash, &doc.Tokenizer, &doc.ChunkSize, &doc.Overlap,
		&doc.ChunkCount, &doc.OversizedCount, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(doc.ContentHash[:], hash)
	return &doc, nil
}

// Document operations

// SaveDocument stores doc and replaces its chunks in one transaction.
// A document with the same source, content hash and settings is updated in
// place and keeps its ID; otherwise a new ID is assigned. doc.ID is set on
// return, along with each chunk's DocumentID and Seq.
func (s *SQLiteStorage) SaveDocument(ctx context.Context, doc *Document, chunks []*Chunk) error {
	if doc == nil || doc.Source == "" || doc.Tokenizer == "" || doc.ChunkSize < 1 {
		return fmt.Errorf("%w: source, tokenizer and chunk size are required", ErrInvalidDocument)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	doc.ChunkCount = len(chunks)
	doc.OversizedCount = 0
	for _, c := range chunks {
		if c.Oversized {
			doc.OversizedCount++
		}
	}

	if err := s.upsertDocumentWithQuerier(ctx, tx, doc); err != nil {
		return err
	}
	if err := s.replaceChunksWithQuerier(ctx, tx, doc.ID, chunks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// upsertDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertDocumentWithQuerier(ctx context.Context, q querier, doc *Document) error {
	// On conflict the existing row keeps its ID and RETURNING reports it
	doc.ID = uuid.NewString()
	query := `
		INSERT INTO documents (id, source, content_hash, tokenizer, chunk_size, overlap,
		                       chunk_count, oversized_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, content_hash, tokenizer, chunk_size, overlap) DO UPDATE SET
			chunk_count = excluded.chunk_count,
			oversized_count = excluded.oversized_count,
			updated_at = excluded.updated_at
		RETURNING id, created_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		doc.ID, doc.Source, doc.ContentHash[:], doc.Tokenizer, doc.ChunkSize, doc.Overlap,
		doc.ChunkCount, doc.OversizedCount, now, now).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	doc.UpdatedAt = now
	return nil
}

// replaceChunksWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) replaceChunksWithQuerier(ctx context.Context, q querier, documentID string, chunks []*Chunk) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	query := `
		INSERT INTO chunks (document_id, seq, content, start_offset, end_offset, token_count, oversized)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, c := range chunks {
		c.DocumentID = documentID
		c.Seq = i
		_, err := q.ExecContext(ctx, query,
			c.DocumentID, c.Seq, c.Content, c.StartOffset, c.EndOffset, c.TokenCount, c.Oversized)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return nil
}

// getDocumentWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getDocumentWithQuerier(ctx context.Context, q querier, id string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	doc, err := scanDocument(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*Document, error) {
	return s.getDocumentWithQuerier(ctx, s.db, id)
}

// FindDocument looks up a document chunked from the same content with the same settings
func (s *SQLiteStorage) FindDocument(ctx context.Context, source string, contentHash [32]byte, settings Settings) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE source = ? AND content_hash = ? AND tokenizer = ? AND chunk_size = ? AND overlap = ?`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query,
		source, contentHash[:], settings.Tokenizer, settings.ChunkSize, settings.Overlap))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns the most recently saved documents first. A limit
// below 1 returns all of them.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, limit int) ([]*Document, error) {
	if limit < 1 {
		limit = -1
	}
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY updated_at DESC, source LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its chunks
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Chunk operations

// ListChunks returns a document's chunks in order
func (s *SQLiteStorage) ListChunks(ctx context.Context, documentID string) ([]*Chunk, error) {
	query := `
		SELECT document_id, seq, content, start_offset, end_offset, token_count, oversized
		FROM chunks
		WHERE document_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks := make([]*Chunk, 0)
	for rows.Next() {
		var c Chunk
		err := rows.Scan(&c.DocumentID, &c.Seq, &c.Content, &c.StartOffset, &c.EndOffset, &c.TokenCount, &c.Oversized)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{BuildMode: BuildMode}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(chunk_count), 0), COALESCE(SUM(oversized_count), 0)
		FROM documents
	`).Scan(&status.DocumentsCount, &status.ChunksCount, &status.OversizedCount)
	if err != nil {
		return nil, err
	}

	if status.DocumentsCount > 0 {
		var last Document
		err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM documents ORDER BY updated_at DESC LIMIT 1`).Scan(&last.UpdatedAt)
		if err != nil {
			return nil, err
		}
		status.LastSavedAt = last.UpdatedAt
	}

	version, err := SchemaVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version.String()

	// Calculate database size
	var pageCount, pageSize int
	err = s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.SizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return status, nil
}
