// Package config loads settings for the semchunk command and MCP server.
//
// Sources, lowest precedence first:
//   - built-in defaults (Default)
//   - a YAML file
//   - .env files, which only fill variables not already set
//   - SEMCHUNK_* environment variables
//
// Example YAML:
//
//	tokenizer: cl100k_base
//	chunk_size: 512
//	overlap_ratio: 0.1
//	workers: 8
//	db_path: ~/.semchunk/chunks.db
//	log_level: info
//	log_output: stderr
//
// Environment variables use the upper-cased key, e.g. SEMCHUNK_CHUNK_SIZE.
package config
