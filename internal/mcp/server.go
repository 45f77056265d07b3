package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/gosemchunk/internal/chunker"
	"github.com/dshills/gosemchunk/internal/config"
	"github.com/dshills/gosemchunk/internal/counter"
	"github.com/dshills/gosemchunk/internal/logging"
	"github.com/dshills/gosemchunk/internal/storage"
	"github.com/dshills/gosemchunk/internal/tokenizer"
	"github.com/dshills/gosemchunk/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "semchunk"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	config  *config.Config
	storage storage.Storage // nil when persistence is disabled
	logger  *zap.Logger

	// One adapter per tokenizer, so token counts are cached across calls
	mu       sync.Mutex
	adapters map[string]*counter.Adapter
}

// NewServer creates a new MCP server instance. store may be nil, in which
// case the storage tools report an error.
func NewServer(cfg *config.Config, store storage.Storage, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false), server.WithRecovery()),
		config:   cfg,
		storage:  store,
		logger:   logging.OrNop(logger),
		adapters: make(map[string]*counter.Adapter),
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve runs the MCP server on stdin and stdout until ctx is done or
// stdin is closed
func (s *Server) Serve(ctx context.Context) error {
	return s.Listen(ctx, os.Stdin, os.Stdout)
}

// Listen runs the MCP server over the given streams
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	defer func() { _ = s.Close() }()
	s.logger.Info("serving MCP over stdio",
		zap.String("tokenizer", s.config.Tokenizer),
		zap.Int("chunk_size", s.config.ChunkSize),
		zap.Bool("storage", s.storage != nil))

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))
	return stdio.Listen(ctx, in, out)
}

// Close releases cached token counts and closes storage
func (s *Server) Close() error {
	s.mu.Lock()
	for name, a := range s.adapters {
		_ = a.Close()
		delete(s.adapters, name)
	}
	s.mu.Unlock()

	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(chunkTextTool(), s.handleChunkText)
	s.mcp.AddTool(countTokensTool(), s.handleCountTokens)
	s.mcp.AddTool(chunkAndStoreTool(), s.handleChunkAndStore)
	s.mcp.AddTool(getDocumentTool(), s.handleGetDocument)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
	s.mcp.AddTool(deleteDocumentTool(), s.handleDeleteDocument)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}

// adapter returns the shared counter adapter for tok
func (s *Server) adapter(tok *tokenizer.Tokenizer) *counter.Adapter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.adapters[tok.Name]; ok {
		return a
	}
	opts := []counter.Option{counter.WithCacheSize(s.config.CacheSize)}
	if n := max(s.config.MaxTokenChars, tok.MaxTokenChars); n > 0 {
		opts = append(opts, counter.WithMaxTokenChars(n))
	}
	a := counter.New(tok, opts...)
	s.adapters[tok.Name] = a
	return a
}

// newChunker builds a chunker sharing the tokenizer's adapter
func (s *Server) newChunker(name string, chunkSize int, overlap types.Overlap) (*chunker.Chunker, *tokenizer.Tokenizer, error) {
	tok, err := tokenizer.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	c, err := chunker.NewWithAdapter(s.adapter(tok), chunkSize, chunker.WithOverlap(overlap))
	if err != nil {
		return nil, nil, err
	}
	return c, tok, nil
}
