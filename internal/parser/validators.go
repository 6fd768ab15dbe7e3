package parser

import "strings"

// Validator strategies. Each encodes one per-language class of false
// positives; grammars attach them to keyword subsets via Rule.

// notAfterDot rejects a keyword immediately preceded by a member-access
// operator: `obj.class`, `foo&.begin`, `a.end`.
type notAfterDot struct{}

func (notAfterDot) Name() string { return "not-after-dot" }

func (notAfterDot) Valid(doc *Document, keyword string, start, end int) bool {
	r, _, ok := doc.PrevNonSpace(start)
	return !ok || r != '.'
}

// notLabel rejects a keyword used as a named-argument / keyword-list key:
// the label separator must abut the keyword with no space (`if: x` is a
// label, `if :x` tests a symbol).
type notLabel struct{}

func (notLabel) Name() string { return "not-label" }

func (notLabel) Valid(doc *Document, keyword string, start, end int) bool {
	return doc.RuneAt(end) != ':' || doc.RuneAt(end+1) == ':'
}

// statement-leading context: runes and keywords after which a block keyword
// is primary rather than a postfix modifier.
const postfixContextRunes = "=([{|;,&+-*/%<>!?^:"

var postfixContextWords = map[string]bool{
	"then": true, "do": true, "else": true, "elsif": true, "begin": true,
	"ensure": true, "rescue": true, "when": true, "in": true,
	"and": true, "or": true, "not": true,
}

// notPostfix rejects trailing statement modifiers (`do_x if y`). The keyword
// is primary when it starts its logical line or follows an operator,
// separator, or statement-introducing keyword.
type notPostfix struct{}

func (notPostfix) Name() string { return "not-postfix" }

func (notPostfix) Valid(doc *Document, keyword string, start, end int) bool {
	ls := doc.LogicalLineStart(start)
	i := start - 1
	for i >= ls && isBlankRune(doc.Src[i]) {
		i--
	}
	if i < ls {
		return true
	}
	r := doc.Src[i]
	if strings.ContainsRune(postfixContextRunes, r) {
		return true
	}
	if isWordRune(r) {
		j := i
		for j >= ls && isWordRune(doc.Src[j]) {
			j--
		}
		return postfixContextWords[string(doc.Src[j+1:i+1])]
	}
	return false
}

// notEndlessDef rejects Ruby 3 endless method definitions
// (`def f(x) = x * 2`), which take no end.
type notEndlessDef struct{}

func (notEndlessDef) Name() string { return "not-endless-def" }

func (notEndlessDef) Valid(doc *Document, keyword string, start, end int) bool {
	i := end
	for i < len(doc.Src) && isBlankRune(doc.Src[i]) {
		i++
	}
	// method name, possibly self.name, possibly with ? ! suffix
	for i < len(doc.Src) && (isWordRune(doc.Src[i]) || doc.Src[i] == '.' ||
		doc.Src[i] == '?' || doc.Src[i] == '!') {
		i++
	}
	for i < len(doc.Src) && isBlankRune(doc.Src[i]) {
		i++
	}
	if i < len(doc.Src) && doc.Src[i] == '(' {
		depth := 0
		for i < len(doc.Src) {
			switch doc.Src[i] {
			case '(':
				depth++
			case ')':
				depth--
			case '\n', '\r':
				return true
			}
			i++
			if depth == 0 {
				break
			}
		}
		for i < len(doc.Src) && isBlankRune(doc.Src[i]) {
			i++
		}
	}
	if i < len(doc.Src) && doc.Src[i] == '=' {
		next := doc.RuneAt(i + 1)
		if next != '=' && next != '~' {
			return false
		}
	}
	return true
}

// requireTrailingDo accepts an opener only when a companion `do` appears
// within a bounded lookahead window, before any other block keyword and
// before `end` (which would consume the `do` instead). A `do:` keyword-list
// form rejects the opener outright (`if x, do: y` is a one-liner). The
// line bound is a tuned heuristic, not a language rule.
type requireTrailingDo struct {
	maxLines int
	stoppers map[string]bool
}

func (v requireTrailingDo) Name() string { return "require-trailing-do" }

func (v requireTrailingDo) Valid(doc *Document, keyword string, start, end int) bool {
	lines := 0
	i := end
	for i < len(doc.Src) {
		if doc.Excluded(i) {
			i = doc.RegionEnd(i)
			continue
		}
		r := doc.Src[i]
		if r == '\n' || r == '\r' {
			if r == '\r' && doc.RuneAt(i+1) == '\n' {
				i++
			}
			lines++
			if lines > v.maxLines {
				return false
			}
			i++
			continue
		}
		if isWordRune(r) && !isWordRune(doc.RuneAt(i-1)) {
			j := i
			for j < len(doc.Src) && isWordRune(doc.Src[j]) {
				j++
			}
			w := string(doc.Src[i:j])
			if w == "do" {
				return doc.RuneAt(j) != ':'
			}
			if w == "end" || v.stoppers[w] {
				return false
			}
			i = j
			continue
		}
		i++
	}
	return false
}

// notChainedAfterControl rejects a body-introducing keyword whose terminator
// belongs to a control keyword earlier on the same logical line: in Ruby
// `while cond do`, the `while` owns the `end`.
type notChainedAfterControl struct {
	heads map[string]bool
}

func (v notChainedAfterControl) Name() string { return "not-chained" }

func (v notChainedAfterControl) Valid(doc *Document, keyword string, start, end int) bool {
	i := doc.LogicalLineStart(start)
	for i < start {
		if doc.Excluded(i) {
			i = doc.RegionEnd(i)
			continue
		}
		if isWordRune(doc.Src[i]) && !isWordRune(doc.RuneAt(i-1)) {
			j := i
			for j < start && isWordRune(doc.Src[j]) {
				j++
			}
			if v.heads[string(doc.Src[i:j])] {
				return false
			}
			i = j
			continue
		}
		i++
	}
	return true
}

// notIndexPosition rejects a keyword used as an index expression:
// Julia `a[end]`, `a[2:end]`, `v[begin+1]`. Only the same line is consulted,
// and only runes that occur inside indexing count, so `x = begin` still
// opens a block.
type notIndexPosition struct{}

func (notIndexPosition) Name() string { return "not-index" }

func (notIndexPosition) Valid(doc *Document, keyword string, start, end int) bool {
	r, _, ok := doc.PrevNonSpace(start)
	return !ok || !strings.ContainsRune("[:,+-*/^", r)
}

// notInBrackets rejects a keyword inside an unclosed bracket on its own
// line: Julia comprehensions (`[x for x in xs if x > 0]`) take no end.
type notInBrackets struct{}

func (notInBrackets) Name() string { return "not-in-brackets" }

func (notInBrackets) Valid(doc *Document, keyword string, start, end int) bool {
	depth := 0
	i := doc.LineStart(start)
	for i < start {
		if doc.Excluded(i) {
			i = doc.RegionEnd(i)
			continue
		}
		switch doc.Src[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		}
		i++
	}
	return depth <= 0
}

// noTrailingWord rejects an opener when a given companion word appears later
// on the same line: AppleScript `tell app "x" to activate` is a one-liner,
// not a block.
type noTrailingWord struct {
	word string
}

func (v noTrailingWord) Name() string { return "no-trailing-" + v.word }

func (v noTrailingWord) Valid(doc *Document, keyword string, start, end int) bool {
	_, found := findWordOnLine(doc, end, v.word)
	return !found
}

// blockTerminalWord accepts an opener only when a companion word, if present
// on the same line, ends the line: AppleScript `if x then` opens a block,
// `if x then beep` does not. A missing companion also opens a block
// (`considering`, bare `tell ... \n`).
type blockTerminalWord struct {
	word string
}

func (v blockTerminalWord) Name() string { return "terminal-" + v.word }

func (v blockTerminalWord) Valid(doc *Document, keyword string, start, end int) bool {
	at, found := findWordOnLine(doc, end, v.word)
	if !found {
		return true
	}
	i := at + len(v.word)
	le := doc.LineEnd(end)
	for i < le {
		if doc.Excluded(i) {
			i = doc.RegionEnd(i)
			continue
		}
		if !isBlankRune(doc.Src[i]) {
			return false
		}
		i++
	}
	return true
}

// findWordOnLine locates a case-folded word between pos and end of line,
// skipping excluded regions.
func findWordOnLine(doc *Document, pos int, word string) (int, bool) {
	le := doc.LineEnd(pos)
	i := pos
	for i < le {
		if doc.Excluded(i) {
			i = doc.RegionEnd(i)
			continue
		}
		if isWordRune(doc.Src[i]) && !isWordRune(doc.RuneAt(i-1)) {
			j := i
			for j < le && isWordRune(doc.Src[j]) {
				j++
			}
			if strings.EqualFold(string(doc.Src[i:j]), word) {
				return i, true
			}
			i = j
			continue
		}
		i++
	}
	return 0, false
}
