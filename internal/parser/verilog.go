package parser

// Verilog returns the Verilog/SystemVerilog grammar.
//
// Every closer has its own spelling and only terminates its own opener, so
// the matcher's compatibility table does all the work; `/* */` does not
// nest (first closer wins).
func Verilog() *Grammar {
	return &Grammar{
		Name:       "verilog",
		Extensions: []string{".v", ".vh", ".sv", ".svh"},
		Open: []string{
			"begin", "module", "case", "casex", "casez", "function",
			"task", "generate", "fork", "specify", "primitive",
		},
		Close: []string{
			"end", "endmodule", "endcase", "endfunction", "endtask",
			"endgenerate", "join", "endspecify", "endprimitive",
		},
		Regions: []RegionMatcher{
			newLineComment("//"),
			newBlockComment("/*", "*/", false),
			newString('"', true, nil),
		},
		CloserFor: map[string][]string{
			"end":          {"begin"},
			"endmodule":    {"module"},
			"endcase":      {"case", "casex", "casez"},
			"endfunction":  {"function"},
			"endtask":      {"task"},
			"endgenerate":  {"generate"},
			"join":         {"fork"},
			"endspecify":   {"specify"},
			"endprimitive": {"primitive"},
		},
	}
}
