package parser

// AppleScript returns the AppleScript grammar.
//
// Keywords are case-insensitive and frequently multi-word ("using terms
// from", "end tell", "on error"); the tokenizer's longest-first matching
// keeps "end tell" from decaying into a generic "end". One-liner forms
// (`tell app "X" to activate`, `if x then beep`) open nothing.
func AppleScript() *Grammar {
	return &Grammar{
		Name:            "applescript",
		Extensions:      []string{".applescript", ".scpt"},
		CaseInsensitive: true,
		Open: []string{
			"tell", "if", "repeat", "try", "considering", "ignoring",
			"script", "on", "using terms from", "with timeout", "with transaction",
		},
		Middle: []string{"else if", "else", "on error"},
		Close: []string{
			"end tell", "end if", "end repeat", "end try", "end considering",
			"end ignoring", "end script", "end using terms from",
			"end timeout", "end transaction", "end",
		},
		Regions: []RegionMatcher{
			newBlockComment("(*", "*)", true),
			newLineComment("--"),
			newLineComment("#"),
			newString('"', true, nil),
		},
		OpenRules: []Rule{
			{Keywords: []string{"tell"}, Validator: noTrailingWord{word: "to"}},
			{Keywords: []string{"if"}, Validator: blockTerminalWord{word: "then"}},
			{Keywords: []string{"on"}, Validator: notPostfix{}},
		},
		MiddleFor: map[string][]string{
			"else if":  {"if"},
			"else":     {"if"},
			"on error": {"try"},
		},
		CloserFor: map[string][]string{
			"end tell":            {"tell"},
			"end if":              {"if"},
			"end repeat":          {"repeat"},
			"end try":             {"try"},
			"end considering":     {"considering"},
			"end ignoring":        {"ignoring"},
			"end script":          {"script"},
			"end using terms from": {"using terms from"},
			"end timeout":         {"with timeout"},
			"end transaction":     {"with transaction"},
		},
	}
}
