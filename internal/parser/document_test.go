package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jarredhawkins/blocknav/internal/types"
)

func TestDocumentPositions(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
		line   int
		col    int
	}{
		{"start", "abc\ndef", 0, 0, 0},
		{"mid first line", "abc\ndef", 2, 0, 2},
		{"start of second line", "abc\ndef", 4, 1, 0},
		{"crlf terminator", "ab\r\ncd", 4, 1, 0},
		{"bare cr terminator", "ab\rcd", 3, 1, 0},
		{"multibyte runes count once", "héllo\nx", 6, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument([]rune(tt.src), nil)
			line, col := doc.Position(tt.offset)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestDocumentRegions(t *testing.T) {
	doc := NewDocument([]rune("abcdefgh"), []types.ExcludedRegion{
		{Start: 2, End: 4},
		{Start: 6, End: 8},
	})

	assert.False(t, doc.Excluded(1))
	assert.True(t, doc.Excluded(2))
	assert.True(t, doc.Excluded(3))
	assert.False(t, doc.Excluded(4))
	assert.True(t, doc.Excluded(7))

	assert.Equal(t, 4, doc.RegionEnd(2))
	assert.Equal(t, 5, doc.RegionEnd(5), "non-excluded offset maps to itself")
}

func TestDocumentLogicalLineStart(t *testing.T) {
	src := "first \\\n  second \\\n  third\nplain\n"
	doc := NewDocument([]rune(src), nil)

	thirdAt := 21 // offset of "third"
	assert.Equal(t, 0, doc.LogicalLineStart(thirdAt), "continuations join lines")

	plainAt := 27
	assert.Equal(t, plainAt, doc.LogicalLineStart(plainAt))
}

func TestDocumentPrevNonSpace(t *testing.T) {
	doc := NewDocument([]rune("while cond do"), nil)
	r, at, ok := doc.PrevNonSpace(11)
	assert.True(t, ok)
	assert.Equal(t, 'd', r)
	assert.Equal(t, 9, at)

	_, _, ok = doc.PrevNonSpace(0)
	assert.False(t, ok, "start of line has nothing before it")
}
