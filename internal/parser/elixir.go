package parser

// elixirDoOpeners are the keywords whose block form requires a trailing
// `do`. They double as the stop set for the lookahead: hitting another one
// of them (or `fn`/`end`) before a `do` means that keyword owns the `do`.
var elixirDoOpeners = []string{
	"defmodule", "defprotocol", "defimpl", "def", "defp",
	"defmacro", "defmacrop", "if", "unless", "case", "cond",
	"for", "receive", "try", "with", "quote",
}

// Elixir returns the Elixir grammar.
//
// Every `do ... end` block in Elixir hangs off an opener keyword, so the
// openers themselves are only valid with a trailing `do` within a bounded
// lookahead; the `, do: expr` keyword-list form is a one-liner and opens
// nothing. `fn ... end` is the exception: it is always a block.
func Elixir() *Grammar {
	stoppers := make(map[string]bool, len(elixirDoOpeners)+1)
	for _, kw := range elixirDoOpeners {
		stoppers[kw] = true
	}
	stoppers["fn"] = true

	return &Grammar{
		Name:        "elixir",
		Extensions:  []string{".ex", ".exs"},
		Open:        append(append([]string{}, elixirDoOpeners...), "fn"),
		Middle:      []string{"else", "rescue", "catch", "after"},
		Close:       []string{"end"},
		SuffixRunes: "?!",
		Regions: []RegionMatcher{
			&charLit{},
			newLineComment("#"),
			newTripleQuote('"', true),
			newTripleQuote('\'', true),
			&sigilLit{},
			newString('"', true, rubyInterp()),
			newString('\'', true, rubyInterp()),
			newSymbol(true, true),
		},
		OpenRules: []Rule{
			{Validator: notAfterDot{}},
			{Validator: notLabel{}},
			{Keywords: elixirDoOpeners, Validator: requireTrailingDo{
				maxLines: 8,
				stoppers: stoppers,
			}},
		},
		MiddleRules: []Rule{
			{Validator: notLabel{}},
		},
		CloseRules: []Rule{
			{Validator: notAfterDot{}},
			{Validator: notLabel{}},
		},
		MiddleFor: map[string][]string{
			"else":   {"if", "unless", "try", "with"},
			"rescue": {"try", "def", "defp", "defmacro", "defmacrop"},
			"catch":  {"try", "def", "defp"},
			"after":  {"try", "receive", "def", "defp"},
		},
	}
}
