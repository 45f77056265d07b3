// Package mcp implements the Model Context Protocol (MCP) server for semchunk.
//
// The server exposes seven tools to AI assistants:
//   - chunk_text: Split a text into chunks of at most chunk_size tokens
//   - count_tokens: Count the tokens in a text
//   - chunk_and_store: Chunk a text and save the chunks in the database
//   - get_document: Fetch a stored document and its chunks
//   - list_documents: List stored documents, newest first
//   - delete_document: Delete a stored document and its chunks
//   - get_status: Report settings and database statistics
//
// MCP is JSON-RPC 2.0 over stdio. The server reads requests from stdin and
// writes responses to stdout, so logs go to stderr:
//
//	semchunk serve
//
// # Tool: chunk_text
//
//	Request:
//	{
//	  "name": "chunk_text",
//	  "arguments": {
//	    "text": "The quick brown fox",
//	    "chunk_size": 2,
//	    "tokenizer": "words",
//	    "overlap": 0
//	  }
//	}
//
//	Response:
//	{
//	  "tokenizer": "words",
//	  "chunk_size": 2,
//	  "overlap": "none",
//	  "count": 2,
//	  "chunks": [
//	    {"text": "The quick", "start": 0, "end": 9, "oversized": false},
//	    {"text": "brown fox", "start": 10, "end": 19, "oversized": false}
//	  ]
//	}
//
// Omitted arguments fall back to the server configuration. An overlap below
// 1 is a ratio of chunk_size, 1 or more is a token count.
//
// # Storage
//
// chunk_and_store and the document tools need a database. Start the server with
// a db_path (or SEMCHUNK_DB_PATH) to enable them; without one they fail with
// code -32001. Storing the same source and content with the same settings
// replaces the earlier chunks and keeps the document id.
//
// # Error Handling
//
// Handlers return *MCPError values:
//   - -32602: Invalid params (missing text, bad chunk size or overlap, unknown tokenizer)
//   - -32603: Internal error (database failures)
//   - -32001: Storage not configured
//   - -32003: Document not found
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "semchunk": {
//	      "command": "/usr/local/bin/semchunk",
//	      "args": ["serve"],
//	      "env": {
//	        "SEMCHUNK_TOKENIZER": "cl100k_base",
//	        "SEMCHUNK_DB_PATH": "~/.semchunk/chunks.db"
//	      }
//	    }
//	  }
//	}
package mcp
