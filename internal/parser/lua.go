package parser

// Lua returns the Lua grammar.
//
// `while cond do ... end` and `for x in xs do ... end` tokenize both the
// loop keyword and the `do`; the single `end` multi-pops the chained pair
// (spec'd as two pairs sharing one close token). `until` only ever closes
// `repeat`, and `end` never does.
func Lua() *Grammar {
	return &Grammar{
		Name:       "lua",
		Extensions: []string{".lua"},
		Open:       []string{"function", "if", "do", "while", "for", "repeat"},
		Middle:     []string{"else", "elseif"},
		Close:      []string{"end", "until"},
		Regions: []RegionMatcher{
			newLongBracket("--"),
			newLineComment("--"),
			newLongBracket(""),
			newString('"', true, nil),
			newString('\'', true, nil),
		},
		OpenRules: []Rule{
			{Validator: notAfterDot{}},
		},
		MiddleFor: map[string][]string{
			"else":   {"if"},
			"elseif": {"if"},
		},
		CloserFor: map[string][]string{
			"end":   {"function", "if", "do", "while", "for"},
			"until": {"repeat"},
		},
		ChainedCloses: []ChainRule{
			{Inner: []string{"do"}, Outer: []string{"while", "for"}},
		},
	}
}
