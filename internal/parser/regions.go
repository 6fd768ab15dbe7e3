package parser

import (
	"unicode"

	"github.com/dlclark/regexp2"
)

// Region matcher strategies. Each grammar composes the subset it needs, in
// priority order; the first matcher that consumes text at a position wins.

// delimiter pairs for sigil/percent style literals; anything else closes
// with the same rune it opened with.
var pairedDelims = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
}

func closingDelim(open rune) rune {
	if c, ok := pairedDelims[open]; ok {
		return c
	}
	return open
}

// interpMarker describes one interpolation form inside a literal, e.g.
// `#{...}` or `$(...)`.
type interpMarker struct {
	marker []rune
	open   rune
	close  rune
}

func rubyInterp() []interpMarker {
	return []interpMarker{{marker: []rune("#{"), open: '{', close: '}'}}
}

func shellInterp() []interpMarker {
	return []interpMarker{
		{marker: []rune("$("), open: '(', close: ')'},
		{marker: []rune("${"), open: '{', close: '}'},
	}
}

// lineComment consumes from its prefix to the next line terminator. When
// afterSpace is set the prefix only counts at line start or after blank,
// separator, or operator runes (Bash: `echo a#b` is not a comment).
type lineComment struct {
	prefix     []rune
	afterSpace bool
}

func newLineComment(prefix string) *lineComment {
	return &lineComment{prefix: []rune(prefix)}
}

func newAnchoredLineComment(prefix string) *lineComment {
	return &lineComment{prefix: []rune(prefix), afterSpace: true}
}

func (m *lineComment) Name() string { return "line-comment" }

func (m *lineComment) Match(s *scanner, pos int) (int, bool) {
	if !s.has(pos, m.prefix) {
		return 0, false
	}
	if m.afterSpace {
		switch p := s.prev(pos); p {
		case 0, ' ', '\t', '\n', '\r', ';', '(', '&', '|':
		default:
			return 0, false
		}
	}
	return s.lineEnd(pos), true
}

// blockComment consumes an open/close marker pair. Nesting languages track
// depth; others stop at the first closer. lineAnchored markers (Ruby
// `=begin`/`=end`) only count at column 0 and the region runs through the end
// of the closing marker's line.
type blockComment struct {
	open, close  []rune
	nested       bool
	lineAnchored bool
}

func newBlockComment(open, close string, nested bool) *blockComment {
	return &blockComment{open: []rune(open), close: []rune(close), nested: nested}
}

func newAnchoredBlockComment(open, close string) *blockComment {
	return &blockComment{open: []rune(open), close: []rune(close), lineAnchored: true}
}

func (m *blockComment) Name() string { return "block-comment" }

func (m *blockComment) Match(s *scanner, pos int) (int, bool) {
	if m.lineAnchored && !s.atLineStart(pos) {
		return 0, false
	}
	if !s.has(pos, m.open) {
		return 0, false
	}
	depth := 1
	i := pos + len(m.open)
	for i < len(s.src) {
		if m.nested && s.has(i, m.open) {
			depth++
			i += len(m.open)
			continue
		}
		if s.has(i, m.close) {
			if m.lineAnchored && !s.atLineStart(i) {
				i++
				continue
			}
			depth--
			i += len(m.close)
			if !m.nested || depth == 0 {
				if m.lineAnchored {
					return s.lineEnd(i), true
				}
				return i, true
			}
			continue
		}
		i++
	}
	return len(s.src), true
}

// stringLit consumes a quoted literal. Escapes and interpolations are
// optional; rejectAfterValue guards quotes that double as postfix operators
// (Julia transpose `A'`).
type stringLit struct {
	prefix           []rune
	quote            rune
	escape           bool
	interp           []interpMarker
	rejectAfterValue bool
}

func newString(quote rune, escape bool, interp []interpMarker) *stringLit {
	return &stringLit{quote: quote, escape: escape, interp: interp}
}

func newPrefixedString(prefix string, quote rune, escape bool) *stringLit {
	return &stringLit{prefix: []rune(prefix), quote: quote, escape: escape}
}

func (m *stringLit) Name() string { return "string" }

func (m *stringLit) Match(s *scanner, pos int) (int, bool) {
	j := pos
	if len(m.prefix) > 0 {
		if !s.has(pos, m.prefix) {
			return 0, false
		}
		j += len(m.prefix)
	}
	if j >= len(s.src) || s.src[j] != m.quote {
		return 0, false
	}
	if m.rejectAfterValue {
		switch p := s.prev(pos); {
		case isWordRune(p), p == ')', p == ']', p == '}', p == m.quote:
			return 0, false
		}
	}
	i := j + 1
	for i < len(s.src) {
		r := s.src[i]
		if m.escape && r == '\\' {
			i += 2
			continue
		}
		if im, ok := matchInterp(s, i, m.interp); ok {
			i = s.skipInterpolation(i+len(im.marker), im.open, im.close)
			continue
		}
		if r == m.quote {
			return i + 1, true
		}
		i++
	}
	return len(s.src), true
}

func matchInterp(s *scanner, pos int, markers []interpMarker) (interpMarker, bool) {
	for _, im := range markers {
		if s.has(pos, im.marker) {
			return im, true
		}
	}
	return interpMarker{}, false
}

// tripleQuote consumes `"""` ... `"""` style heredoc strings (Elixir, Julia).
type tripleQuote struct {
	marker []rune
	escape bool
}

func newTripleQuote(quote rune, escape bool) *tripleQuote {
	return &tripleQuote{marker: []rune{quote, quote, quote}, escape: escape}
}

func (m *tripleQuote) Name() string { return "triple-quote" }

func (m *tripleQuote) Match(s *scanner, pos int) (int, bool) {
	if !s.has(pos, m.marker) {
		return 0, false
	}
	i := pos + 3
	for i < len(s.src) {
		if m.escape && s.src[i] == '\\' {
			i += 2
			continue
		}
		if s.has(i, m.marker) {
			return i + 3, true
		}
		i++
	}
	return len(s.src), true
}

// charLit consumes `?c` character literals (Ruby, Elixir). A `?` after an
// identifier or closing bracket is a ternary, not a literal; a word rune
// after the literal character means we are looking at an identifier.
type charLit struct{}

func (m *charLit) Name() string { return "char" }

func (m *charLit) Match(s *scanner, pos int) (int, bool) {
	if s.src[pos] != '?' || pos+1 >= len(s.src) {
		return 0, false
	}
	switch p := s.prev(pos); {
	case isWordRune(p), p == ')', p == ']', p == '}':
		return 0, false
	}
	next := s.src[pos+1]
	if isBlankRune(next) || next == '\n' || next == '\r' {
		return 0, false
	}
	if next == '\\' {
		i := pos + 2
		if i < len(s.src) {
			i++
		}
		for i < len(s.src) && isWordRune(s.src[i]) {
			i++
		}
		return i, true
	}
	if isWordRune(next) && pos+2 < len(s.src) && isWordRune(s.src[pos+2]) {
		return 0, false
	}
	return pos + 2, true
}

// symbolLit consumes `:atom` style literals, distinguished from `::` scope
// resolution, labels (`key:`), ranges, and ternary colons by the runes on
// either side.
type symbolLit struct {
	quoted    bool
	operators bool
}

func newSymbol(quoted, operators bool) *symbolLit {
	return &symbolLit{quoted: quoted, operators: operators}
}

func (m *symbolLit) Name() string { return "symbol" }

const symbolOperatorRunes = "+-*/%<>=!&|^~[]"

func (m *symbolLit) Match(s *scanner, pos int) (int, bool) {
	if s.src[pos] != ':' || pos+1 >= len(s.src) {
		return 0, false
	}
	switch p := s.prev(pos); {
	case p == ':', isWordRune(p), p == ')', p == ']', p == '}', p == '"', p == '\'':
		return 0, false
	}
	next := s.src[pos+1]
	if next == ':' {
		return 0, false
	}
	if m.quoted && (next == '"' || next == '\'') {
		i := pos + 2
		for i < len(s.src) {
			if s.src[i] == '\\' {
				i += 2
				continue
			}
			if s.src[i] == next {
				return i + 1, true
			}
			i++
		}
		return len(s.src), true
	}
	if isWordRune(next) || next == '@' || next == '$' {
		i := pos + 1
		for i < len(s.src) && (isWordRune(s.src[i]) || s.src[i] == '@' || s.src[i] == '$') {
			i++
		}
		if i < len(s.src) && (s.src[i] == '?' || s.src[i] == '!') {
			i++
		}
		return i, true
	}
	if m.operators && runeIn(next, symbolOperatorRunes) {
		i := pos + 1
		for i < len(s.src) && runeIn(s.src[i], symbolOperatorRunes) {
			i++
		}
		return i, true
	}
	return 0, false
}

// percentLit consumes Ruby/Crystal `%` literals: %q %Q %w %W %i %I %r %s %x
// plus the bare %(...) form. Paired delimiters nest; lowercase specifiers
// suppress interpolation; %r consumes trailing modifier letters.
type percentLit struct{}

const percentSpecifiers = "qQwWiIrsx"

func (m *percentLit) Name() string { return "percent-literal" }

func (m *percentLit) Match(s *scanner, pos int) (int, bool) {
	if s.src[pos] != '%' {
		return 0, false
	}
	j := pos + 1
	if j >= len(s.src) {
		return 0, false
	}
	var spec rune
	if unicode.IsLetter(s.src[j]) {
		spec = s.src[j]
		if !runeIn(spec, percentSpecifiers) {
			return 0, false
		}
		j++
	}
	if j >= len(s.src) {
		return 0, false
	}
	delim := s.src[j]
	if isWordRune(delim) || isBlankRune(delim) || delim == '\n' || delim == '\r' {
		return 0, false
	}
	if spec == 0 {
		// bare % with an operand on the left is modulo, not a literal
		if p, ok := s.prevNonBlank(pos); ok &&
			(isWordRune(p) || p == ')' || p == ']' || p == '"' || p == '\'') {
			return 0, false
		}
	}
	closer := closingDelim(delim)
	paired := closer != delim
	interpolate := spec == 0 || spec == 'Q' || spec == 'W' || spec == 'I' || spec == 'r' || spec == 'x'
	interp := rubyInterp()

	depth := 1
	i := j + 1
	for i < len(s.src) {
		r := s.src[i]
		if r == '\\' {
			i += 2
			continue
		}
		if interpolate {
			if im, ok := matchInterp(s, i, interp); ok {
				i = s.skipInterpolation(i+len(im.marker), im.open, im.close)
				continue
			}
		}
		if paired && r == delim {
			depth++
		} else if r == closer {
			depth--
			if depth == 0 {
				i++
				if spec == 'r' {
					for i < len(s.src) && s.src[i] >= 'a' && s.src[i] <= 'z' {
						i++
					}
				}
				return i, true
			}
		}
		i++
	}
	return len(s.src), true
}

// regexLit consumes Ruby/Crystal `/.../` literals. A slash with an operand
// on the left is division unless it follows a keyword that expects an
// expression. Recognition is deliberately single-line: bailing at a line
// terminator keeps a stray division from swallowing the rest of the file.
// A literal still open at end of source extends to it.
type regexLit struct{}

func (m *regexLit) Name() string { return "regex" }

var regexContextKeywords = map[string]bool{
	"if": true, "unless": true, "while": true, "until": true, "when": true,
	"in": true, "and": true, "or": true, "not": true, "return": true,
	"then": true, "else": true, "elsif": true, "case": true,
}

func (m *regexLit) Match(s *scanner, pos int) (int, bool) {
	if s.src[pos] != '/' {
		return 0, false
	}
	if p, ok := s.prevNonBlank(pos); ok {
		if isWordRune(p) || p == ')' || p == ']' || p == '"' || p == '\'' {
			if !regexContextKeywords[prevWordBefore(s, pos)] {
				return 0, false
			}
		}
	}
	interp := rubyInterp()
	inClass := false
	i := pos + 1
	for i < len(s.src) {
		r := s.src[i]
		switch {
		case r == '\\':
			i += 2
			continue
		case r == '\n' || r == '\r':
			return 0, false
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case r == '/' && !inClass:
			i++
			for i < len(s.src) && s.src[i] >= 'a' && s.src[i] <= 'z' {
				i++
			}
			return i, true
		}
		if im, ok := matchInterp(s, i, interp); ok {
			i = s.skipInterpolation(i+len(im.marker), im.open, im.close)
			continue
		}
		i++
	}
	return len(s.src), true
}

func prevWordBefore(s *scanner, pos int) string {
	i := pos - 1
	for i >= 0 && isBlankRune(s.src[i]) {
		i--
	}
	if i < 0 || !isWordRune(s.src[i]) {
		return ""
	}
	end := i + 1
	for i >= 0 && isWordRune(s.src[i]) {
		i--
	}
	return string(s.src[i+1 : end])
}

// sigilLit consumes Elixir `~r/.../x` style sigils. Lowercase sigils honor
// escapes and interpolation; uppercase ones are raw. Paired delimiters nest;
// trailing modifier letters are consumed. Triple-quote sigil delimiters
// (`~s""" ... """`) are handled as a special case.
type sigilLit struct{}

func (m *sigilLit) Name() string { return "sigil" }

func (m *sigilLit) Match(s *scanner, pos int) (int, bool) {
	if s.src[pos] != '~' {
		return 0, false
	}
	j := pos + 1
	if j >= len(s.src) {
		return 0, false
	}
	raw := false
	switch {
	case s.src[j] >= 'a' && s.src[j] <= 'z':
		j++
	case s.src[j] >= 'A' && s.src[j] <= 'Z':
		raw = true
		for j < len(s.src) && s.src[j] >= 'A' && s.src[j] <= 'Z' {
			j++
		}
	default:
		return 0, false
	}
	if j >= len(s.src) {
		return 0, false
	}
	delim := s.src[j]
	if isWordRune(delim) || isBlankRune(delim) || delim == '\n' || delim == '\r' {
		return 0, false
	}
	if (delim == '"' || delim == '\'') && s.has(j, []rune{delim, delim, delim}) {
		end, _ := (&tripleQuote{marker: []rune{delim, delim, delim}, escape: !raw}).Match(s, j)
		if end == 0 {
			end = len(s.src)
		}
		return consumeSigilModifiers(s, end), true
	}
	closer := closingDelim(delim)
	paired := closer != delim
	interp := rubyInterp()

	depth := 1
	i := j + 1
	for i < len(s.src) {
		r := s.src[i]
		if !raw && r == '\\' {
			i += 2
			continue
		}
		if !raw {
			if im, ok := matchInterp(s, i, interp); ok {
				i = s.skipInterpolation(i+len(im.marker), im.open, im.close)
				continue
			}
		}
		if paired && r == delim {
			depth++
		} else if r == closer {
			depth--
			if depth == 0 {
				return consumeSigilModifiers(s, i+1), true
			}
		}
		i++
	}
	return len(s.src), true
}

func consumeSigilModifiers(s *scanner, pos int) int {
	for pos < len(s.src) && unicode.IsLetter(s.src[pos]) {
		pos++
	}
	return pos
}

// longBracket consumes Lua `[[...]]` / `[=[...]=]` long strings, or long
// comments when prefixed with `--`.
type longBracket struct {
	prefix []rune
}

func newLongBracket(prefix string) *longBracket {
	return &longBracket{prefix: []rune(prefix)}
}

func (m *longBracket) Name() string { return "long-bracket" }

func (m *longBracket) Match(s *scanner, pos int) (int, bool) {
	j := pos
	if len(m.prefix) > 0 {
		if !s.has(pos, m.prefix) {
			return 0, false
		}
		j += len(m.prefix)
	}
	if j >= len(s.src) || s.src[j] != '[' {
		return 0, false
	}
	level := 0
	k := j + 1
	for k < len(s.src) && s.src[k] == '=' {
		level++
		k++
	}
	if k >= len(s.src) || s.src[k] != '[' {
		return 0, false
	}
	i := k + 1
	for i < len(s.src) {
		if s.src[i] == ']' {
			n := i + 1
			eq := 0
			for n < len(s.src) && s.src[n] == '=' {
				eq++
				n++
			}
			if eq == level && n < len(s.src) && s.src[n] == ']' {
				return n + 1, true
			}
		}
		i++
	}
	return len(s.src), true
}

// heredoc recognizes a heredoc opening marker and queues its body for
// resolution at end of line. The pattern needs look-behind (shift operators,
// Bash `<<<` herestrings) and rune-based match offsets, which is what
// regexp2 provides over the standard library.
type heredoc struct {
	re *regexp2.Regexp
}

func newRubyHeredoc() *heredoc {
	return &heredoc{
		re: regexp2.MustCompile(
			`(?<![\w<])<<(?<ind>[-~])?(?:"(?<dq>\w+)"|'(?<sq>\w+)'|(?<bare>[A-Z_]\w*))`,
			regexp2.None),
	}
}

func newShellHeredoc() *heredoc {
	return &heredoc{
		re: regexp2.MustCompile(
			`(?<!<)<<(?!<)(?<ind>-)?[ \t]*(?:"(?<dq>\w+)"|'(?<sq>\w+)'|\\?(?<bare>\w+))`,
			regexp2.None),
	}
}

func (m *heredoc) Name() string { return "heredoc" }

func (m *heredoc) Match(s *scanner, pos int) (int, bool) {
	// cheap guard before invoking the regex engine
	if s.src[pos] != '<' || pos+1 >= len(s.src) || s.src[pos+1] != '<' {
		return 0, false
	}
	match, err := m.re.FindRunesMatchStartingAt(s.src, pos)
	if err != nil || match == nil || match.Index != pos {
		return 0, false
	}
	term := ""
	for _, name := range []string{"dq", "sq", "bare"} {
		if g := match.GroupByName(name); g != nil && len(g.Captures) > 0 {
			term = g.String()
			break
		}
	}
	if term == "" {
		return 0, false
	}
	ind := match.GroupByName("ind")
	s.pushHeredoc(pendingHeredoc{
		term:        []rune(term),
		allowIndent: ind != nil && len(ind.Captures) > 0,
	})
	return pos + match.Length, true
}

func runeIn(r rune, set string) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}
