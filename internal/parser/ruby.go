package parser

// Ruby returns the Ruby grammar.
//
// Ruby has the full excluded-region family: `=begin` comment blocks, `?c`
// char literals, heredocs (plain, dashed, squiggly, quoted), percent
// literals, regex literals, interpolated strings, and symbols. Its main
// keyword ambiguities are postfix modifiers (`x if y`), member access
// (`obj.class`), hash labels (`if: 1`), endless defs, and the optional `do`
// on loop headers, which belongs to the loop.
func Ruby() *Grammar {
	return &Grammar{
		Name:        "ruby",
		Extensions:  []string{".rb", ".rake", ".gemspec", ".ru"},
		Open:        []string{"module", "class", "def", "do", "if", "unless", "case", "while", "until", "for", "begin"},
		Middle:      []string{"else", "elsif", "when", "in", "rescue", "ensure"},
		Close:       []string{"end"},
		SuffixRunes: "?!",
		Regions: []RegionMatcher{
			newAnchoredBlockComment("=begin", "=end"),
			&charLit{},
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
			{Keywords: []string{"def"}, Validator: notEndlessDef{}},
			{Keywords: []string{"do"}, Validator: notChainedAfterControl{
				heads: map[string]bool{"while": true, "until": true, "for": true},
			}},
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
