package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Properties shared by the chunking tools
func chunkingProperties() map[string]any {
	return map[string]any{
		"text": map[string]any{
			"type":        "string",
			"description": "Text to split into chunks",
		},
		"chunk_size": map[string]any{
			"type":        "integer",
			"description": "Maximum number of tokens per chunk (defaults to the server setting)",
			"minimum":     1,
		},
		"tokenizer": map[string]any{
			"type":        "string",
			"description": "Tokenizer name: words, uax29-words, graphemes, sentences, chars, a tiktoken encoding such as cl100k_base, or an OpenAI model name",
		},
		"overlap": map[string]any{
			"type":        "number",
			"description": "Overlap between consecutive chunks: below 1 is a ratio of chunk_size, 1 or more is a token count",
			"minimum":     0,
		},
	}
}

// chunkTextTool returns the tool definition for chunk_text
func chunkTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunk_text",
		Description: "Split text into semantically meaningful chunks of at most chunk_size tokens, with byte offsets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: chunkingProperties(),
			Required:   []string{"text"},
		},
	}
}

// countTokensTool returns the tool definition for count_tokens
func countTokensTool() mcp.Tool {
	return mcp.Tool{
		Name:        "count_tokens",
		Description: "Count the tokens in a text with the given tokenizer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Text to measure",
				},
				"tokenizer": map[string]any{
					"type":        "string",
					"description": "Tokenizer name (defaults to the server setting)",
				},
			},
			Required: []string{"text"},
		},
	}
}

// chunkAndStoreTool returns the tool definition for chunk_and_store
func chunkAndStoreTool() mcp.Tool {
	props := chunkingProperties()
	props["source"] = map[string]any{
		"type":        "string",
		"description": "Label for the text, such as a file path or URL. Storing the same source and content again replaces the earlier chunks.",
	}
	return mcp.Tool{
		Name:        "chunk_and_store",
		Description: "Chunk a text and save the chunks in the database, returning the document id",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"text", "source"},
		},
	}
}

// getDocumentTool returns the tool definition for get_document
func getDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_document",
		Description: "Fetch a stored document and its chunks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Document id returned by chunk_and_store",
				},
			},
			Required: []string{"id"},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List stored documents, most recently saved first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum documents to return; 0 returns all",
					"default":     defaultListLimit,
					"minimum":     0,
				},
			},
		},
	}
}

// deleteDocumentTool returns the tool definition for delete_document
func deleteDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a stored document and its chunks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Document id returned by chunk_and_store or list_documents",
				},
			},
			Required: []string{"id"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report server settings and database statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}
}
