package parser

import (
	"sort"
	"strings"

	"github.com/jarredhawkins/blocknav/internal/types"
)

// keywordEntry is a precompiled keyword: folded text for matching plus its
// classification. Entries are ordered longest first so multi-word keywords
// ("end tell", "using terms from") win over their prefixes.
type keywordEntry struct {
	text  []rune
	ttype types.TokenType
}

func buildKeywordEntries(g *Grammar) []keywordEntry {
	var entries []keywordEntry
	add := func(kws []string, t types.TokenType) {
		for _, kw := range kws {
			text := kw
			if g.CaseInsensitive {
				text = strings.ToLower(text)
			}
			entries = append(entries, keywordEntry{text: []rune(text), ttype: t})
		}
	}
	add(g.Open, types.TokenOpen)
	add(g.Middle, types.TokenMiddle)
	add(g.Close, types.TokenClose)
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].text) > len(entries[j].text)
	})
	return entries
}

// tokenize walks the document, skipping excluded regions, and emits every
// validated keyword occurrence in source order. A raw match that fails
// validation resumes scanning at the next character, not past the keyword,
// so overlapping candidates in pathological input are still seen.
func (p *Parser) tokenize(doc *Document) []types.Token {
	g := p.grammar
	var tokens []types.Token
	ri := 0
	pos := 0
	for pos < len(doc.Src) {
		for ri < len(doc.Regions) && pos >= doc.Regions[ri].End {
			ri++
		}
		if ri < len(doc.Regions) && pos >= doc.Regions[ri].Start {
			pos = doc.Regions[ri].End
			continue
		}
		if !p.atWordBoundary(doc, pos) {
			pos++
			continue
		}
		matched := false
		for _, e := range p.entries {
			end, ok := p.matchKeyword(doc, pos, e)
			if !ok {
				continue
			}
			value := string(doc.Src[pos:end])
			if !p.validate(doc, e.ttype, g.canon(value), pos, end) {
				continue
			}
			line, col := doc.Position(pos)
			tokens = append(tokens, types.Token{
				Type:   e.ttype,
				Value:  value,
				Line:   line,
				Column: col,
				Offset: pos,
				Length: end - pos,
			})
			pos = end
			matched = true
			break
		}
		if !matched {
			pos++
		}
	}
	return tokens
}

func (p *Parser) atWordBoundary(doc *Document, pos int) bool {
	prev := doc.RuneAt(pos - 1)
	return prev == 0 || !isWordRune(prev)
}

// matchKeyword matches one keyword entry at pos. A space inside a multi-word
// keyword matches any run of blanks; the match must end at a word boundary
// and must not be extended by a suffix rune (`end?` is an identifier in
// Ruby, not `end`).
func (p *Parser) matchKeyword(doc *Document, pos int, e keywordEntry) (int, bool) {
	i := pos
	for _, kr := range e.text {
		if kr == ' ' {
			if i >= len(doc.Src) || !isBlankRune(doc.Src[i]) {
				return 0, false
			}
			for i < len(doc.Src) && isBlankRune(doc.Src[i]) {
				i++
			}
			continue
		}
		if i >= len(doc.Src) || p.fold(doc.Src[i]) != kr {
			return 0, false
		}
		i++
	}
	if next := doc.RuneAt(i); next != 0 {
		if isWordRune(next) || strings.ContainsRune(p.grammar.SuffixRunes, next) {
			return 0, false
		}
	}
	return i, true
}

func (p *Parser) validate(doc *Document, t types.TokenType, keyword string, start, end int) bool {
	var rules []Rule
	switch t {
	case types.TokenOpen:
		rules = p.grammar.OpenRules
	case types.TokenMiddle:
		rules = p.grammar.MiddleRules
	case types.TokenClose:
		rules = p.grammar.CloseRules
	}
	for _, v := range p.grammar.rulesFor(rules, keyword) {
		if !v.Valid(doc, keyword, start, end) {
			return false
		}
	}
	return true
}

func (p *Parser) fold(r rune) rune {
	if p.grammar.CaseInsensitive && r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
