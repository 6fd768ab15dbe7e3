package parser

// Crystal returns the Crystal grammar.
//
// Crystal is a Ruby dialect at the block level: same open/middle/close
// discipline with extra type-level openers, no `=begin` blocks, no `?c`
// char literals ('c' takes that role), and no endless defs. The grammar is
// built from the same matcher and validator pieces as Ruby rather than by
// extending it, so dialect differences stay additive.
func Crystal() *Grammar {
	return &Grammar{
		Name:        "crystal",
		Extensions:  []string{".cr"},
		Open:        []string{"module", "class", "struct", "def", "do", "if", "unless", "case", "while", "until", "begin", "lib", "enum", "macro", "union", "annotation"},
		Middle:      []string{"else", "elsif", "when", "in", "rescue", "ensure"},
		Close:       []string{"end"},
		SuffixRunes: "?!",
		Regions: []RegionMatcher{
			newRubyHeredoc(),
			newLineComment("#"),
			&percentLit{},
			&regexLit{},
			newString('"', true, rubyInterp()),
			newString('\'', true, nil),
			newString('`', true, rubyInterp()),
			newSymbol(true, true),
		},
		OpenRules: []Rule{
			{Validator: notAfterDot{}},
			{Validator: notLabel{}},
			{Keywords: []string{"if", "unless", "while", "until"}, Validator: notPostfix{}},
		},
		MiddleRules: []Rule{
			{Validator: notAfterDot{}},
			{Validator: notLabel{}},
		},
		CloseRules: []Rule{
			{Validator: notAfterDot{}},
			{Validator: notLabel{}},
		},
		MiddleFor: map[string][]string{
			"elsif":  {"if", "unless"},
			"else":   {"if", "unless", "case", "begin", "do", "def"},
			"when":   {"case"},
			"in":     {"case"},
			"rescue": {"begin", "def", "do", "class", "module"},
			"ensure": {"begin", "def", "do", "class", "module"},
		},
	}
}
