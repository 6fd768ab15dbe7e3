package parser

import (
	"sort"

	"github.com/jarredhawkins/blocknav/internal/types"
)

// Document pairs an immutable rune buffer with the excluded regions found in
// it, plus a line-start index so offsets can be converted to 0-based
// line/column positions. Columns count runes; \n, \r\n, and bare \r each
// count as a single line terminator.
type Document struct {
	Src     []rune
	Regions []types.ExcludedRegion

	lineStarts []int
}

// NewDocument builds a document over the given buffer and its regions.
func NewDocument(src []rune, regions []types.ExcludedRegion) *Document {
	d := &Document{
		Src:        src,
		Regions:    regions,
		lineStarts: []int{0},
	}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			d.lineStarts = append(d.lineStarts, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
	return d
}

// Position converts a rune offset to a 0-based line and column.
func (d *Document) Position(offset int) (line, col int) {
	line = sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	return line, offset - d.lineStarts[line]
}

// Excluded reports whether the offset falls inside an excluded region.
func (d *Document) Excluded(pos int) bool {
	_, ok := d.regionAt(pos)
	return ok
}

// RegionEnd returns the end of the region containing pos, or pos itself when
// pos is not excluded.
func (d *Document) RegionEnd(pos int) int {
	if r, ok := d.regionAt(pos); ok {
		return r.End
	}
	return pos
}

func (d *Document) regionAt(pos int) (types.ExcludedRegion, bool) {
	i := sort.Search(len(d.Regions), func(i int) bool {
		return d.Regions[i].End > pos
	})
	if i < len(d.Regions) && d.Regions[i].Contains(pos) {
		return d.Regions[i], true
	}
	return types.ExcludedRegion{}, false
}

// RuneAt returns the rune at pos, or 0 when pos is out of bounds.
func (d *Document) RuneAt(pos int) rune {
	if pos < 0 || pos >= len(d.Src) {
		return 0
	}
	return d.Src[pos]
}

// LineStart returns the offset of the first rune of the line containing pos.
func (d *Document) LineStart(pos int) int {
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > pos
	}) - 1
	return d.lineStarts[line]
}

// LineEnd returns the offset of the line terminator (or end of source) for
// the line containing pos.
func (d *Document) LineEnd(pos int) int {
	for i := pos; i < len(d.Src); i++ {
		if d.Src[i] == '\n' || d.Src[i] == '\r' {
			return i
		}
	}
	return len(d.Src)
}

// LogicalLineStart is LineStart extended across backslash line continuations,
// so postfix checks see the whole statement.
func (d *Document) LogicalLineStart(pos int) int {
	ls := d.LineStart(pos)
	for ls > 0 {
		// offset of the terminator ending the previous line
		te := ls - 1
		if te > 0 && d.Src[te] == '\n' && d.Src[te-1] == '\r' {
			te--
		}
		if te == 0 || d.Src[te-1] != '\\' {
			break
		}
		ls = d.LineStart(te - 1)
	}
	return ls
}

// PrevNonSpace returns the last non-blank rune before pos on the same line,
// with its offset. ok is false when pos is preceded only by blanks.
func (d *Document) PrevNonSpace(pos int) (rune, int, bool) {
	ls := d.LineStart(pos)
	for i := pos - 1; i >= ls; i-- {
		if d.Src[i] != ' ' && d.Src[i] != '\t' {
			return d.Src[i], i, true
		}
	}
	return 0, 0, false
}

// isWordRune reports whether r can appear inside an identifier.
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func isBlankRune(r rune) bool {
	return r == ' ' || r == '\t'
}
