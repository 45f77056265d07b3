package types

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlap_Validate(t *testing.T) {
	tests := []struct {
		name      string
		overlap   Overlap
		chunkSize int
		wantErr   bool
	}{
		{"none", NoOverlap, 1, false},
		{"ratio", OverlapRatio(0.5), 10, false},
		{"ratio one", OverlapRatio(1), 10, true},
		{"negative ratio", OverlapRatio(-0.1), 10, true},
		{"nan ratio", OverlapRatio(math.NaN()), 10, true},
		{"tokens", OverlapTokens(3), 4, false},
		{"tokens equal to size", OverlapTokens(4), 4, true},
		{"negative tokens", OverlapTokens(-1), 4, true},
		{"both", Overlap{Ratio: 0.5, Tokens: 2}, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.overlap.Validate(tt.chunkSize)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidOverlap)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestOverlap_TokensFor(t *testing.T) {
	assert.Equal(t, 0, NoOverlap.TokensFor(10))
	assert.Equal(t, 5, OverlapRatio(0.5).TokensFor(10))
	assert.Equal(t, 1, OverlapRatio(0.19).TokensFor(9))
	assert.Equal(t, 2, OverlapTokens(2).TokensFor(4))
	assert.Equal(t, 3, OverlapTokens(7).TokensFor(4))
}

func TestOverlapFrom(t *testing.T) {
	assert.Equal(t, NoOverlap, OverlapFrom(0))
	assert.Equal(t, NoOverlap, OverlapFrom(-2))
	assert.Equal(t, NoOverlap, OverlapFrom(math.NaN()))
	assert.Equal(t, OverlapRatio(0.25), OverlapFrom(0.25))
	assert.Equal(t, OverlapTokens(1), OverlapFrom(1))
	assert.Equal(t, OverlapTokens(3), OverlapFrom(3.9))
}

func TestOverlap_String(t *testing.T) {
	assert.Equal(t, "none", NoOverlap.String())
	assert.Equal(t, "0.1", OverlapRatio(0.1).String())
	assert.Equal(t, "12", OverlapTokens(12).String())
}

func TestChunk_Validate(t *testing.T) {
	original := "The quick brown fox"

	valid := Chunk{Text: "quick", Start: 4, End: 9}
	assert.NoError(t, valid.Validate(original))
	assert.Equal(t, Span{Start: 4, End: 9}, valid.Span())

	tests := []struct {
		name  string
		chunk Chunk
		want  error
	}{
		{"empty", Chunk{Text: "", Start: 0, End: 0}, ErrEmptyChunk},
		{"whitespace", Chunk{Text: " ", Start: 3, End: 4}, ErrEmptyChunk},
		{"reversed", Chunk{Text: "quick", Start: 9, End: 4}, ErrInvalidOffsets},
		{"past end", Chunk{Text: "fox", Start: 16, End: 40}, ErrInvalidOffsets},
		{"mismatch", Chunk{Text: "brown", Start: 4, End: 9}, ErrOffsetsMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.chunk.Validate(original), tt.want))
		})
	}
}

func TestTexts(t *testing.T) {
	chunks := []Chunk{{Text: "a"}, {Text: "b"}}
	assert.Equal(t, []string{"a", "b"}, Texts(chunks))
	assert.Empty(t, Texts(nil))
}

func TestSeparatorClass(t *testing.T) {
	assert.Equal(t, "newline", SeparatorNewline.String())
	assert.Equal(t, "character", SeparatorCharacter.String())
	assert.Equal(t, "unknown", SeparatorClass(99).String())

	assert.Equal(t, "none", SeparatorNone.String())
	assert.Less(t, int(SeparatorSentence), int(SeparatorClause))
}

func TestSpan(t *testing.T) {
	s := Span{Start: 4, End: 9}
	assert.Equal(t, 5, s.Len())
	assert.False(t, s.Empty())
	assert.Equal(t, "quick", s.Text("The quick brown fox"))
	assert.True(t, Span{Start: 3, End: 3}.Empty())
}

func TestTokenCounterFunc(t *testing.T) {
	var tc TokenCounter = TokenCounterFunc(func(s string) int { return len(s) })
	assert.Equal(t, 3, tc.CountTokens("abc"))
}
