package mcp

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dshills/gosemchunk/internal/storage"
	"github.com/dshills/gosemchunk/internal/tokenizer"
	"github.com/dshills/gosemchunk/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeStorageUnavailable = -32001 // Server was started without a database
	ErrorCodeNotFound           = -32003 // Document does not exist
)

// defaultListLimit caps list_documents when no limit is given
const defaultListLimit = 50

// chunkRequest holds the arguments shared by chunk_text and chunk_and_store
type chunkRequest struct {
	text      string
	tokenizer string
	chunkSize int
	overlap   types.Overlap
}

// parseChunkRequest extracts chunking arguments, falling back to the server config
func (s *Server) parseChunkRequest(args map[string]any) (*chunkRequest, error) {
	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]any{
			"param":  "text",
			"reason": "missing or not a string",
		})
	}

	req := &chunkRequest{
		text:      text,
		tokenizer: getStringDefault(args, "tokenizer", s.config.Tokenizer),
		chunkSize: getIntDefault(args, "chunk_size", s.config.ChunkSize),
		overlap:   s.config.Overlap(),
	}
	if v, ok := args["overlap"].(float64); ok {
		req.overlap = types.OverlapFrom(v)
	}
	return req, nil
}

// chunk runs a chunk request, mapping configuration problems to invalid params
func (s *Server) chunk(req *chunkRequest) ([]types.Chunk, *tokenizer.Tokenizer, error) {
	c, tok, err := s.newChunker(req.tokenizer, req.chunkSize, req.overlap)
	if err != nil {
		if errors.Is(err, types.ErrInvalidConfiguration) || errors.Is(err, tokenizer.ErrUnknownTokenizer) {
			return nil, nil, newMCPError(ErrorCodeInvalidParams, err.Error(), map[string]any{
				"tokenizer":  req.tokenizer,
				"chunk_size": req.chunkSize,
				"overlap":    req.overlap.String(),
			})
		}
		return nil, nil, newMCPError(ErrorCodeInternalError, "failed to create chunker", map[string]any{
			"error": err.Error(),
		})
	}
	return c.Chunk(req.text), tok, nil
}

// handleChunkText handles the chunk_text tool invocation
func (s *Server) handleChunkText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req, err := s.parseChunkRequest(args)
	if err != nil {
		return nil, err
	}
	chunks, tok, err := s.chunk(req)
	if err != nil {
		return nil, err
	}

	response := map[string]any{
		"tokenizer":  tok.Name,
		"chunk_size": req.chunkSize,
		"overlap":    req.overlap.String(),
		"count":      len(chunks),
		"chunks":     formatChunks(chunks),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCountTokens handles the count_tokens tool invocation
func (s *Server) handleCountTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]any{
			"param":  "text",
			"reason": "missing or not a string",
		})
	}

	name := getStringDefault(args, "tokenizer", s.config.Tokenizer)
	tok, err := tokenizer.Resolve(name)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), map[string]any{
			"param": "tokenizer",
		})
	}

	response := map[string]any{
		"tokenizer": tok.Name,
		"tokens":    s.adapter(tok).Count(text),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleChunkAndStore handles the chunk_and_store tool invocation
func (s *Server) handleChunkAndStore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.storage == nil {
		return nil, newMCPError(ErrorCodeStorageUnavailable, "storage is not configured", nil)
	}

	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok || source == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]any{
			"param":  "source",
			"reason": "missing or empty",
		})
	}

	req, err := s.parseChunkRequest(args)
	if err != nil {
		return nil, err
	}
	chunks, tok, err := s.chunk(req)
	if err != nil {
		return nil, err
	}

	doc := &storage.Document{
		Source:      source,
		ContentHash: storage.HashContent(req.text),
		Settings: storage.Settings{
			Tokenizer: tok.Name,
			ChunkSize: req.chunkSize,
			Overlap:   req.overlap.String(),
		},
	}
	counter := s.adapter(tok)
	if err := s.storage.SaveDocument(ctx, doc, storage.NewChunks(chunks, counter.Count)); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to store document", map[string]any{
			"error": err.Error(),
		})
	}
	s.logger.Debug("stored document",
		zap.String("id", doc.ID),
		zap.String("source", source),
		zap.Int("chunks", doc.ChunkCount))

	response := map[string]any{
		"document_id":     doc.ID,
		"source":          doc.Source,
		"chunk_count":     doc.ChunkCount,
		"oversized_count": doc.OversizedCount,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetDocument handles the get_document tool invocation
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.storage == nil {
		return nil, newMCPError(ErrorCodeStorageUnavailable, "storage is not configured", nil)
	}

	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]any{
			"param":  "id",
			"reason": "missing or empty",
		})
	}

	doc, err := s.storage.GetDocument(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotFound, "document not found", map[string]any{"id": id})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get document", map[string]any{
			"error": err.Error(),
		})
	}

	chunks, err := s.storage.ListChunks(ctx, id)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list chunks", map[string]any{
			"error": err.Error(),
		})
	}

	stored := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		stored[i] = formatChunk(c.ToTypesChunk())
		stored[i]["seq"] = c.Seq
		stored[i]["token_count"] = c.TokenCount
	}

	response := formatDocument(doc)
	response["content_hash"] = hex.EncodeToString(doc.ContentHash[:])
	response["chunks"] = stored
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListDocuments handles the list_documents tool invocation
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.storage == nil {
		return nil, newMCPError(ErrorCodeStorageUnavailable, "storage is not configured", nil)
	}

	args, _ := request.Params.Arguments.(map[string]any)
	limit := getIntDefault(args, "limit", defaultListLimit)
	if limit < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must not be negative", map[string]any{
			"param": "limit",
			"value": limit,
		})
	}

	docs, err := s.storage.ListDocuments(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list documents", map[string]any{
			"error": err.Error(),
		})
	}

	listed := make([]map[string]any, len(docs))
	for i, doc := range docs {
		listed[i] = formatDocument(doc)
	}

	response := map[string]any{
		"count":     len(docs),
		"documents": listed,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDeleteDocument handles the delete_document tool invocation
func (s *Server) handleDeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.storage == nil {
		return nil, newMCPError(ErrorCodeStorageUnavailable, "storage is not configured", nil)
	}

	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]any{
			"param":  "id",
			"reason": "missing or empty",
		})
	}

	err := s.storage.DeleteDocument(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotFound, "document not found", map[string]any{"id": id})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to delete document", map[string]any{
			"error": err.Error(),
		})
	}
	s.logger.Debug("deleted document", zap.String("id", id))

	response := map[string]any{
		"id":      id,
		"deleted": true,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]any{
		"server_version": ServerVersion,
		"tokenizer":      s.config.Tokenizer,
		"chunk_size":     s.config.ChunkSize,
		"overlap":        s.config.Overlap().String(),
		"storage":        s.storage != nil,
	}

	if s.storage != nil {
		status, err := s.storage.GetStatus(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]any{
				"error": err.Error(),
			})
		}
		response["documents"] = status.DocumentsCount
		response["chunks"] = status.ChunksCount
		response["oversized_chunks"] = status.OversizedCount
		response["size_mb"] = status.SizeMB
		response["schema_version"] = status.SchemaVersion
		response["build_mode"] = status.BuildMode
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

func formatChunks(chunks []types.Chunk) []map[string]any {
	out := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		out[i] = formatChunk(c)
	}
	return out
}

func formatChunk(c types.Chunk) map[string]any {
	return map[string]any{
		"text":      c.Text,
		"start":     c.Start,
		"end":       c.End,
		"oversized": c.Oversized,
	}
}

// formatDocument describes a stored document without its chunks
func formatDocument(doc *storage.Document) map[string]any {
	return map[string]any{
		"id":              doc.ID,
		"source":          doc.Source,
		"tokenizer":       doc.Tokenizer,
		"chunk_size":      doc.ChunkSize,
		"overlap":         doc.Overlap,
		"chunk_count":     doc.ChunkCount,
		"oversized_count": doc.OversizedCount,
		"updated_at":      doc.UpdatedAt,
	}
}

// newMCPError creates a new MCP error
func newMCPError(code int, message string, data any) *MCPError {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    any
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]any) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]any, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]any, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}
