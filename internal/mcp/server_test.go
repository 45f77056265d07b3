package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gosemchunk/internal/config"
	"github.com/dshills/gosemchunk/internal/storage"
)

func newTestServer(t *testing.T, withStorage bool) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.ChunkSize = 2

	var store storage.Storage
	if withStorage {
		s, err := storage.NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		store = s
	}

	server, err := NewServer(cfg, store, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	return server
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// decode unmarshals the text content of a tool result
func decode(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func requireMCPError(t *testing.T, err error, code int) {
	t.Helper()
	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr), "expected *MCPError, got %v", err)
	assert.Equal(t, code, mcpErr.Code)
}

func chunkTexts(t *testing.T, out map[string]any) []string {
	t.Helper()
	raw, ok := out["chunks"].([]any)
	require.True(t, ok)
	texts := make([]string, len(raw))
	for i, c := range raw {
		texts[i] = c.(map[string]any)["text"].(string)
	}
	return texts
}

func TestNewServer(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		server, err := NewServer(nil, nil, nil)
		require.NoError(t, err)
		defer server.Close()

		assert.Equal(t, config.Default().ChunkSize, server.config.ChunkSize)
		assert.Nil(t, server.storage)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		cfg := config.Default()
		cfg.ChunkSize = 0
		_, err := NewServer(cfg, nil, nil)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestHandleChunkText(t *testing.T) {
	server := newTestServer(t, false)
	ctx := context.Background()

	t.Run("uses configured chunk size", func(t *testing.T) {
		res, err := server.handleChunkText(ctx, callRequest("chunk_text", map[string]any{
			"text": "The quick brown fox",
		}))
		require.NoError(t, err)

		out := decode(t, res)
		assert.Equal(t, []string{"The quick", "brown fox"}, chunkTexts(t, out))
		assert.Equal(t, float64(2), out["count"])
		assert.Equal(t, "words", out["tokenizer"])

		second := out["chunks"].([]any)[1].(map[string]any)
		assert.Equal(t, float64(10), second["start"])
		assert.Equal(t, float64(19), second["end"])
	})

	t.Run("arguments override config", func(t *testing.T) {
		res, err := server.handleChunkText(ctx, callRequest("chunk_text", map[string]any{
			"text":       "The quick brown fox jumps over the lazy dog",
			"chunk_size": float64(4),
			"overlap":    float64(2),
		}))
		require.NoError(t, err)

		out := decode(t, res)
		assert.Equal(t, []string{
			"The quick brown fox",
			"brown fox jumps over",
			"jumps over the lazy",
			"the lazy dog",
		}, chunkTexts(t, out))
		assert.Equal(t, "2", out["overlap"])
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		res, err := server.handleChunkText(ctx, callRequest("chunk_text", map[string]any{
			"text": "   ",
		}))
		require.NoError(t, err)
		assert.Equal(t, float64(0), decode(t, res)["count"])
	})

	t.Run("missing text", func(t *testing.T) {
		_, err := server.handleChunkText(ctx, callRequest("chunk_text", map[string]any{}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})

	t.Run("invalid chunk size", func(t *testing.T) {
		_, err := server.handleChunkText(ctx, callRequest("chunk_text", map[string]any{
			"text":       "abc",
			"chunk_size": float64(0),
		}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})

	t.Run("overlap not below chunk size", func(t *testing.T) {
		_, err := server.handleChunkText(ctx, callRequest("chunk_text", map[string]any{
			"text":       "abc",
			"chunk_size": float64(3),
			"overlap":    float64(3),
		}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})

	t.Run("unknown tokenizer", func(t *testing.T) {
		_, err := server.handleChunkText(ctx, callRequest("chunk_text", map[string]any{
			"text":      "abc",
			"tokenizer": "no-such-tokenizer",
		}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})

	t.Run("arguments are not an object", func(t *testing.T) {
		req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "chunk_text", Arguments: "text"}}
		_, err := server.handleChunkText(ctx, req)
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})
}

func TestHandleCountTokens(t *testing.T) {
	server := newTestServer(t, false)
	ctx := context.Background()

	res, err := server.handleCountTokens(ctx, callRequest("count_tokens", map[string]any{
		"text":      "héllo",
		"tokenizer": "CHARS",
	}))
	require.NoError(t, err)

	out := decode(t, res)
	assert.Equal(t, "chars", out["tokenizer"])
	assert.Equal(t, float64(5), out["tokens"])

	// Adapters are shared per tokenizer
	assert.Len(t, server.adapters, 1)
	_, err = server.handleCountTokens(ctx, callRequest("count_tokens", map[string]any{
		"text":      "héllo",
		"tokenizer": "chars",
	}))
	require.NoError(t, err)
	assert.Len(t, server.adapters, 1)

	_, err = server.handleCountTokens(ctx, callRequest("count_tokens", map[string]any{}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestHandleChunkAndStore(t *testing.T) {
	server := newTestServer(t, true)
	ctx := context.Background()

	args := map[string]any{
		"text":   "The quick brown fox",
		"source": "fox.txt",
	}
	res, err := server.handleChunkAndStore(ctx, callRequest("chunk_and_store", args))
	require.NoError(t, err)

	stored := decode(t, res)
	id, ok := stored["document_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.Equal(t, float64(2), stored["chunk_count"])

	t.Run("same content keeps the id", func(t *testing.T) {
		res, err := server.handleChunkAndStore(ctx, callRequest("chunk_and_store", args))
		require.NoError(t, err)
		assert.Equal(t, id, decode(t, res)["document_id"])
	})

	t.Run("get document", func(t *testing.T) {
		res, err := server.handleGetDocument(ctx, callRequest("get_document", map[string]any{"id": id}))
		require.NoError(t, err)

		doc := decode(t, res)
		assert.Equal(t, "fox.txt", doc["source"])
		assert.Equal(t, "words", doc["tokenizer"])
		assert.Equal(t, []string{"The quick", "brown fox"}, chunkTexts(t, doc))

		first := doc["chunks"].([]any)[0].(map[string]any)
		assert.Equal(t, float64(2), first["token_count"])
	})

	t.Run("status counts stored chunks", func(t *testing.T) {
		res, err := server.handleGetStatus(ctx, callRequest("get_status", nil))
		require.NoError(t, err)

		status := decode(t, res)
		assert.Equal(t, true, status["storage"])
		assert.Equal(t, float64(1), status["documents"])
		assert.Equal(t, float64(2), status["chunks"])
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := server.handleChunkAndStore(ctx, callRequest("chunk_and_store", map[string]any{"text": "abc"}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := server.handleGetDocument(ctx, callRequest("get_document", map[string]any{"id": "missing"}))
		requireMCPError(t, err, ErrorCodeNotFound)
	})
}

func TestHandleListAndDeleteDocuments(t *testing.T) {
	server := newTestServer(t, true)
	ctx := context.Background()

	ids := make(map[string]string)
	for _, source := range []string{"a.txt", "b.txt", "c.txt"} {
		res, err := server.handleChunkAndStore(ctx, callRequest("chunk_and_store", map[string]any{
			"text":   "alpha beta gamma",
			"source": source,
		}))
		require.NoError(t, err)
		ids[source] = decode(t, res)["document_id"].(string)
	}

	listSources := func(t *testing.T, args map[string]any) []string {
		t.Helper()
		res, err := server.handleListDocuments(ctx, callRequest("list_documents", args))
		require.NoError(t, err)

		out := decode(t, res)
		docs := out["documents"].([]any)
		assert.Equal(t, float64(len(docs)), out["count"])
		sources := make([]string, len(docs))
		for i, d := range docs {
			doc := d.(map[string]any)
			sources[i] = doc["source"].(string)
			assert.Equal(t, ids[sources[i]], doc["id"])
			assert.Equal(t, float64(2), doc["chunk_count"])
		}
		return sources
	}

	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.txt"}, listSources(t, nil))
	assert.Len(t, listSources(t, map[string]any{"limit": 2}), 2)

	_, err := server.handleListDocuments(ctx, callRequest("list_documents", map[string]any{"limit": -1}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	res, err := server.handleDeleteDocument(ctx, callRequest("delete_document", map[string]any{"id": ids["b.txt"]}))
	require.NoError(t, err)
	assert.Equal(t, true, decode(t, res)["deleted"])

	assert.ElementsMatch(t, []string{"a.txt", "c.txt"}, listSources(t, map[string]any{"limit": 0}))

	_, err = server.handleGetDocument(ctx, callRequest("get_document", map[string]any{"id": ids["b.txt"]}))
	requireMCPError(t, err, ErrorCodeNotFound)

	_, err = server.handleDeleteDocument(ctx, callRequest("delete_document", map[string]any{"id": ids["b.txt"]}))
	requireMCPError(t, err, ErrorCodeNotFound)

	_, err = server.handleDeleteDocument(ctx, callRequest("delete_document", map[string]any{}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	res, err = server.handleGetStatus(ctx, callRequest("get_status", nil))
	require.NoError(t, err)
	assert.Equal(t, float64(2), decode(t, res)["documents"])
}

func TestStorageToolsWithoutStorage(t *testing.T) {
	server := newTestServer(t, false)
	ctx := context.Background()

	_, err := server.handleChunkAndStore(ctx, callRequest("chunk_and_store", map[string]any{
		"text":   "abc",
		"source": "a.txt",
	}))
	requireMCPError(t, err, ErrorCodeStorageUnavailable)

	_, err = server.handleGetDocument(ctx, callRequest("get_document", map[string]any{"id": "x"}))
	requireMCPError(t, err, ErrorCodeStorageUnavailable)

	_, err = server.handleListDocuments(ctx, callRequest("list_documents", nil))
	requireMCPError(t, err, ErrorCodeStorageUnavailable)

	_, err = server.handleDeleteDocument(ctx, callRequest("delete_document", map[string]any{"id": "x"}))
	requireMCPError(t, err, ErrorCodeStorageUnavailable)

	res, err := server.handleGetStatus(ctx, callRequest("get_status", nil))
	require.NoError(t, err)
	status := decode(t, res)
	assert.Equal(t, false, status["storage"])
	assert.NotContains(t, status, "documents")
}

func TestToolDefinitions(t *testing.T) {
	tools := []mcp.Tool{
		chunkTextTool(), countTokensTool(), chunkAndStoreTool(),
		getDocumentTool(), listDocumentsTool(), deleteDocumentTool(), getStatusTool(),
	}
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
		assert.Equal(t, "object", tool.InputSchema.Type)
		assert.NotEmpty(t, tool.Description)
	}
	assert.Equal(t, []string{
		"chunk_text", "count_tokens", "chunk_and_store",
		"get_document", "list_documents", "delete_document", "get_status",
	}, names)
	assert.Equal(t, []string{"id"}, deleteDocumentTool().InputSchema.Required)
	assert.Equal(t, []string{"text", "source"}, chunkAndStoreTool().InputSchema.Required)

	// chunk_and_store must not leak its source property into chunk_text
	assert.NotContains(t, chunkTextTool().InputSchema.Properties, "source")
}
