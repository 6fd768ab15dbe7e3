package parser

import "github.com/jarredhawkins/blocknav/internal/types"

// maxInterpolationDepth bounds the mutually recursive literal/interpolation
// scan on adversarial input.
const maxInterpolationDepth = 32

// scanner walks a source buffer once and collects excluded regions. Region
// matchers are tried in priority order at every unconsumed position; a match
// jumps the scan past the construct, so the whole pass stays O(n) amortized.
//
// Heredoc markers queue their bodies here: markers are consumed in place, and
// the queued bodies are resolved left-to-right at the next line terminator
// the scan reaches outside any region.
type scanner struct {
	src      []rune
	matchers []RegionMatcher
	regions  []types.ExcludedRegion
	pending  []pendingHeredoc
	depth    int
}

type pendingHeredoc struct {
	term        []rune
	allowIndent bool
}

// scanRegions produces the sorted, non-overlapping excluded regions of src.
// Unterminated constructs extend to end of source; the scan never fails.
func scanRegions(src []rune, matchers []RegionMatcher) []types.ExcludedRegion {
	s := &scanner{src: src, matchers: matchers}
	s.run()
	return s.regions
}

func (s *scanner) run() {
	i := 0
	for i < len(s.src) {
		r := s.src[i]
		if r == '\n' || r == '\r' {
			next := i + 1
			if r == '\r' && next < len(s.src) && s.src[next] == '\n' {
				next++
			}
			if len(s.pending) > 0 {
				i = s.resolveHeredocs(next)
				continue
			}
			i = next
			continue
		}
		if end, ok := s.tryMatch(i); ok {
			s.regions = append(s.regions, types.ExcludedRegion{Start: i, End: end})
			i = end
			continue
		}
		i++
	}
	s.pending = s.pending[:0]
}

// tryMatch runs the matcher list at pos without recording a region. The main
// loop records; nested callers (interpolation skip) only need the width.
func (s *scanner) tryMatch(pos int) (int, bool) {
	for _, m := range s.matchers {
		if end, ok := m.Match(s, pos); ok && end > pos {
			return end, true
		}
	}
	return 0, false
}

// pushHeredoc queues a heredoc body for resolution at the end of the current
// line. Multiple heredocs opened on one line resolve in marker order, each
// consuming its own body before the next one's begins.
func (s *scanner) pushHeredoc(h pendingHeredoc) {
	s.pending = append(s.pending, h)
}

func (s *scanner) resolveHeredocs(from int) int {
	pos := from
	for _, h := range s.pending {
		if pos >= len(s.src) {
			break
		}
		end, next, found := s.findHeredocEnd(h, pos)
		if !found {
			s.regions = append(s.regions, types.ExcludedRegion{Start: pos, End: len(s.src)})
			pos = len(s.src)
			break
		}
		if end > pos {
			s.regions = append(s.regions, types.ExcludedRegion{Start: pos, End: end})
		}
		pos = next
	}
	s.pending = s.pending[:0]
	return pos
}

// findHeredocEnd scans line by line from bodyStart for a line consisting
// solely of the terminator (leading blanks stripped for indent-tolerant
// markers). It returns the offset just past the terminator identifier and
// the offset past that line's terminator.
func (s *scanner) findHeredocEnd(h pendingHeredoc, bodyStart int) (end, next int, found bool) {
	ls := bodyStart
	for ls < len(s.src) {
		le := s.lineEnd(ls)
		lineNext := le
		if lineNext < len(s.src) {
			lineNext++
			if s.src[le] == '\r' && lineNext < len(s.src) && s.src[lineNext] == '\n' {
				lineNext++
			}
		}
		c := ls
		if h.allowIndent {
			for c < le && isBlankRune(s.src[c]) {
				c++
			}
		}
		if le-c == len(h.term) && runesEqual(s.src[c:le], h.term) {
			return le, lineNext, true
		}
		ls = lineNext
		if le == len(s.src) {
			break
		}
	}
	return 0, 0, false
}

// skipInterpolation consumes a brace-counted interpolation body starting just
// past its opening marker and returns the offset past the closing delimiter.
// Nested literals and comments inside the interpolation are skipped by
// re-running the matcher list, so a string inside `#{}` inside a regex inside
// a string nests correctly.
func (s *scanner) skipInterpolation(pos int, open, close rune) int {
	if s.depth >= maxInterpolationDepth {
		return pos
	}
	s.depth++
	defer func() { s.depth-- }()

	depth := 1
	i := pos
	for i < len(s.src) {
		if end, ok := s.tryMatch(i); ok {
			i = end
			continue
		}
		switch s.src[i] {
		case '\\':
			i += 2
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(s.src)
}

// has reports whether lit occurs verbatim at pos.
func (s *scanner) has(pos int, lit []rune) bool {
	if pos+len(lit) > len(s.src) {
		return false
	}
	return runesEqual(s.src[pos:pos+len(lit)], lit)
}

// prev returns the rune immediately before pos, or 0 at start of source.
func (s *scanner) prev(pos int) rune {
	if pos == 0 {
		return 0
	}
	return s.src[pos-1]
}

// prevNonBlank returns the last non-blank rune before pos on the same line.
func (s *scanner) prevNonBlank(pos int) (rune, bool) {
	for i := pos - 1; i >= 0; i-- {
		r := s.src[i]
		if r == '\n' || r == '\r' {
			return 0, false
		}
		if !isBlankRune(r) {
			return r, true
		}
	}
	return 0, false
}

// lineEnd returns the offset of the terminator of the line containing pos,
// or end of source.
func (s *scanner) lineEnd(pos int) int {
	for i := pos; i < len(s.src); i++ {
		if s.src[i] == '\n' || s.src[i] == '\r' {
			return i
		}
	}
	return len(s.src)
}

func (s *scanner) atLineStart(pos int) bool {
	return pos == 0 || s.src[pos-1] == '\n' || s.src[pos-1] == '\r'
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
