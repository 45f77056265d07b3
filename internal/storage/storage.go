package storage

import (
	"context"
	"crypto/sha256"
	"time"

	"github.com/dshills/gosemchunk/pkg/types"
)

// Storage defines the interface for persisting chunked documents
type Storage interface {
	// Document operations
	SaveDocument(ctx context.Context, doc *Document, chunks []*Chunk) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	FindDocument(ctx context.Context, source string, contentHash [32]byte, settings Settings) (*Document, error)
	ListDocuments(ctx context.Context, limit int) ([]*Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Chunk operations
	ListChunks(ctx context.Context, documentID string) ([]*Chunk, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
}

// Settings identifies how a document was chunked
type Settings struct {
	Tokenizer string
	ChunkSize int
	Overlap   string // types.Overlap.String()
}

// Document is one chunked input text
type Document struct {
	ID          string // UUID, assigned on first save
	Source      string // File path, URL, or any caller label
	ContentHash [32]byte
	Settings
	ChunkCount     int
	OversizedCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Chunk is a stored chunk of a document
type Chunk struct {
	DocumentID  string
	Seq         int
	Content     string
	StartOffset int
	EndOffset   int
	TokenCount  int
	Oversized   bool
}

// Status contains statistics about the store
type Status struct {
	DocumentsCount int
	ChunksCount    int
	OversizedCount int
	SizeMB         float64
	SchemaVersion  string
	BuildMode      string
	LastSavedAt    time.Time
}

// HashContent returns the content hash stored with a document
func HashContent(text string) [32]byte {
	return sha256.Sum256([]byte(text))
}

// NewChunks converts chunker output into storable chunks. count may be nil,
// in which case token counts are left at zero.
func NewChunks(chunks []types.Chunk, count func(string) int) []*Chunk {
	out := make([]*Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = &Chunk{
			Seq:         i,
			Content:     c.Text,
			StartOffset: c.Start,
			EndOffset:   c.End,
			Oversized:   c.Oversized,
		}
		if count != nil {
			out[i].TokenCount = count(c.Text)
		}
	}
	return out
}

// ToTypesChunk converts a stored chunk back into chunker output
func (c *Chunk) ToTypesChunk() types.Chunk {
	return types.Chunk{
		Text:      c.Content,
		Start:     c.StartOffset,
		End:       c.EndOffset,
		Oversized: c.Oversized,
	}
}
