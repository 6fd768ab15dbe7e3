package parser

import (
	"path/filepath"
	"strings"
)

// Grammar is the complete, immutable rule set for one language: keyword
// tables, excluded-region matchers, validator strategies, and the matcher
// configuration. Grammars are built once (see RegisterDefaults) and shared
// read-only across goroutines; dialects are expressed by building a new
// Grammar from shared pieces rather than by subclassing anything.
type Grammar struct {
	Name       string
	Extensions []string

	// CaseInsensitive folds keywords with simple ASCII lowercasing
	// (AppleScript, Verilog directives stay case-sensitive).
	CaseInsensitive bool

	Open   []string
	Middle []string
	Close  []string

	// SuffixRunes extend an identifier when trailing it, so `end?` never
	// matches `end` (Ruby and friends use "?!").
	SuffixRunes string

	// Regions are tried in order at each position; the first that consumes
	// text wins.
	Regions []RegionMatcher

	OpenRules   []Rule
	MiddleRules []Rule
	CloseRules  []Rule

	// MiddleFor restricts which openers accept a middle keyword. A missing
	// entry means the middle attaches to any open block.
	MiddleFor map[string][]string

	// CloserFor restricts which openers a close keyword may terminate. A
	// missing entry means the closer is generic.
	CloserFor map[string][]string

	// ChainedCloses lets one physical close token terminate an inner
	// body-block and the control frame directly beneath it (Lua
	// `while c do ... end`).
	ChainedCloses []ChainRule

	// Strategy overrides the default stack matcher when non-nil.
	Strategy BlockMatchStrategy
}

// Rule attaches a validator to a subset of a keyword set. A nil Keywords
// slice applies the validator to every keyword in the set.
type Rule struct {
	Keywords  []string
	Validator TokenValidator
}

// ChainRule describes a chained close: after the closer pops a frame opened
// by an Inner keyword, a frame opened by an Outer keyword directly beneath it
// is popped as well, yielding a second pair that shares the close token.
type ChainRule struct {
	Inner []string
	Outer []string
}

// TokenValidator accepts or rejects a raw keyword occurrence based on its
// surrounding context. start/end delimit the matched keyword in doc.Src.
type TokenValidator interface {
	Name() string
	Valid(doc *Document, keyword string, start, end int) bool
}

// RegionMatcher recognizes one excluded-region construct starting at pos.
// On success it returns the offset just past the consumed text; the scan
// records [pos, end) as excluded. Matchers may queue deferred work on the
// scanner (heredoc bodies) instead of, or in addition to, consuming text.
type RegionMatcher interface {
	Name() string
	Match(s *scanner, pos int) (end int, ok bool)
}

// canon normalizes a keyword occurrence for table lookups: case folding for
// case-insensitive grammars and collapsing interior blank runs in multi-word
// keywords.
func (g *Grammar) canon(s string) string {
	if g.CaseInsensitive {
		s = strings.ToLower(s)
	}
	if !strings.ContainsAny(s, " \t") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

func (g *Grammar) rulesFor(rules []Rule, keyword string) []TokenValidator {
	var out []TokenValidator
	for _, r := range rules {
		if r.Keywords == nil {
			out = append(out, r.Validator)
			continue
		}
		for _, k := range r.Keywords {
			if k == keyword {
				out = append(out, r.Validator)
				break
			}
		}
	}
	return out
}

// Registry maps language names and file extensions to parsers.
type Registry struct {
	parsers []*Parser
	byName  map[string]*Parser
	byExt   map[string]*Parser
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Parser),
		byExt:  make(map[string]*Parser),
	}
}

// Register builds a parser for the grammar and indexes it by name and
// extension.
func (r *Registry) Register(g *Grammar) {
	p := New(g)
	r.parsers = append(r.parsers, p)
	r.byName[g.Name] = p
	for _, ext := range g.Extensions {
		r.byExt[ext] = p
	}
}

// ForName returns the parser registered under the language name, or nil.
func (r *Registry) ForName(name string) *Parser {
	return r.byName[name]
}

// ForPath returns the parser for the file's extension, or nil when the
// extension is not registered.
func (r *Registry) ForPath(path string) *Parser {
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// Parsers returns all registered parsers.
func (r *Registry) Parsers() []*Parser {
	return r.parsers
}

// Extensions returns every registered file extension.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

// RegisterDefaults adds the built-in language grammars to the registry.
func RegisterDefaults(r *Registry) {
	r.Register(Ruby())
	r.Register(Crystal())
	r.Register(Elixir())
	r.Register(Lua())
	r.Register(Julia())
	r.Register(Bash())
	r.Register(Verilog())
	r.Register(AppleScript())
}
