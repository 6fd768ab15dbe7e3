package parser

// Bash returns the shell grammar.
//
// Shell keywords are only keywords at command position, so openers, body
// middles, and closers all carry the statement-context guard (`echo done`
// closes nothing). Command substitution `$(...)` is live code and is never
// excluded; quoting and heredocs are. Every closer spelling is restricted
// to its own opener family.
func Bash() *Grammar {
	return &Grammar{
		Name:       "bash",
		Extensions: []string{".sh", ".bash"},
		Open:       []string{"if", "for", "while", "until", "case", "select"},
		Middle:     []string{"then", "elif", "else", "do", "in"},
		Close:      []string{"fi", "done", "esac"},
		Regions: []RegionMatcher{
			newShellHeredoc(),
			newAnchoredLineComment("#"),
			newPrefixedString("$'", '\'', true),
			newString('\'', false, nil),
			newString('"', true, shellInterp()),
			newString('`', true, nil),
		},
		OpenRules: []Rule{
			{Validator: notPostfix{}},
		},
		MiddleRules: []Rule{
			{Keywords: []string{"then", "elif", "else", "do"}, Validator: notPostfix{}},
		},
		CloseRules: []Rule{
			{Validator: notPostfix{}},
		},
		MiddleFor: map[string][]string{
			"then": {"if"},
			"elif": {"if"},
			"else": {"if", "case"},
			"do":   {"for", "while", "until", "select"},
			"in":   {"case", "for", "select"},
		},
		CloserFor: map[string][]string{
			"fi":   {"if"},
			"done": {"for", "while", "until", "select"},
			"esac": {"case"},
		},
	}
}
