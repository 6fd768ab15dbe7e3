package parser

// Julia returns the Julia grammar.
//
// `end` doubles as a last-index expression (`a[end]`, `a[2:end]`) and
// `begin` as a first-index one, so both carry an index-position guard.
// `for`/`if` inside an unclosed bracket are comprehension clauses, not
// blocks. `#= =#` comments nest; `'` is a char quote only when it is not a
// postfix transpose.
func Julia() *Grammar {
	juliaInterp := []interpMarker{{marker: []rune("$("), open: '(', close: ')'}}
	return &Grammar{
		Name:       "julia",
		Extensions: []string{".jl"},
		Open: []string{
			"if", "for", "while", "function", "macro", "struct",
			"mutable struct", "abstract type", "primitive type",
			"let", "quote", "try", "begin", "do", "module", "baremodule",
		},
		Middle: []string{"elseif", "else", "catch", "finally"},
		Close:  []string{"end"},
		Regions: []RegionMatcher{
			newBlockComment("#=", "=#", true),
			newLineComment("#"),
			newTripleQuote('"', true),
			newString('"', true, juliaInterp),
			newString('`', true, juliaInterp),
			&stringLit{quote: '\'', escape: true, rejectAfterValue: true},
			newSymbol(false, true),
		},
		OpenRules: []Rule{
			{Validator: notAfterDot{}},
			{Keywords: []string{"begin"}, Validator: notIndexPosition{}},
			{Keywords: []string{"for", "if"}, Validator: notInBrackets{}},
		},
		CloseRules: []Rule{
			{Validator: notAfterDot{}},
			{Validator: notIndexPosition{}},
		},
		MiddleFor: map[string][]string{
			"elseif":  {"if"},
			"else":    {"if", "try"},
			"catch":   {"try"},
			"finally": {"try"},
		},
	}
}
