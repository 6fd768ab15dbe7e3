// Package parser implements the block-pairing engine: per-language excluded
// region scanning, keyword tokenization, and stack-based open/middle/close
// matching. One Parser per language; all entry points are pure functions of
// the input string and never fail, because the typical caller is an editor
// holding syntactically incomplete code.
package parser

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"

	"github.com/jarredhawkins/blocknav/internal/types"
)

// Parser composes the scanner, tokenizer, validators, and block matcher for
// one language. It is stateless across calls and safe for concurrent use.
type Parser struct {
	grammar  *Grammar
	entries  []keywordEntry
	strategy BlockMatchStrategy

	// keyword prefilter: skip tokenization entirely when the document does
	// not contain any keyword text at all. The Aho-Corasick matcher keeps
	// per-call scratch state, hence the mutex.
	prefilterMu sync.Mutex
	prefilter   *ahocorasick.Matcher
}

// New builds a parser for the grammar.
func New(g *Grammar) *Parser {
	p := &Parser{
		grammar:  g,
		entries:  buildKeywordEntries(g),
		strategy: g.Strategy,
	}
	if p.strategy == nil {
		p.strategy = StackMatcher{}
	}
	keywords := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		// multi-word keywords contribute their first word, since interior
		// whitespace is flexible at match time
		kw := strings.ToLower(string(e.text))
		if i := strings.IndexByte(kw, ' '); i >= 0 {
			kw = kw[:i]
		}
		keywords = append(keywords, kw)
	}
	p.prefilter = ahocorasick.NewStringMatcher(keywords)
	return p
}

// Grammar returns the parser's language configuration.
func (p *Parser) Grammar() *Grammar { return p.grammar }

// ExcludedRegions returns the source spans (comments, literals, heredoc
// bodies, ...) ignored by keyword matching, sorted and non-overlapping.
func (p *Parser) ExcludedRegions(source string) []types.ExcludedRegion {
	return scanRegions([]rune(source), p.grammar.Regions)
}

// Tokens returns the validated keyword occurrences in source order.
func (p *Parser) Tokens(source string) []types.Token {
	if !p.mayContainKeywords(source) {
		return nil
	}
	src := []rune(source)
	doc := NewDocument(src, scanRegions(src, p.grammar.Regions))
	return p.tokenize(doc)
}

// Parse matches the token stream into block pairs. Ordering follows the
// close order of the stack machine (inner pairs first), not source order.
func (p *Parser) Parse(source string) []types.BlockPair {
	tokens := p.Tokens(source)
	if len(tokens) == 0 {
		return nil
	}
	return p.strategy.Match(p.grammar, tokens)
}

func (p *Parser) mayContainKeywords(source string) bool {
	p.prefilterMu.Lock()
	defer p.prefilterMu.Unlock()
	return len(p.prefilter.Match([]byte(strings.ToLower(source)))) > 0
}
