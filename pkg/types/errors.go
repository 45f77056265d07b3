package types

import (
	"errors"
	"fmt"
)

// Configuration errors. All of them are reported before any splitting begins.
var (
	// ErrInvalidConfiguration is the parent of every configuration error below
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidChunkSize is returned for a chunk size below 1
	ErrInvalidChunkSize = fmt.Errorf("%w: chunk size must be positive", ErrInvalidConfiguration)
	// ErrInvalidOverlap is returned for a ratio outside (0, 1) or an absolute overlap outside [1, chunk size)
	ErrInvalidOverlap = fmt.Errorf("%w: invalid overlap", ErrInvalidConfiguration)
	// ErrNilCounter is returned when no token counter was supplied
	ErrNilCounter = fmt.Errorf("%w: token counter is required", ErrInvalidConfiguration)
)

// Chunk validation errors
var (
	ErrEmptyChunk      = errors.New("chunk content cannot be empty")
	ErrInvalidOffsets  = errors.New("chunk offsets are out of order")
	ErrOffsetsMismatch = errors.New("chunk text does not match its offsets")
)
