package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrystalBlocks(t *testing.T) {
	p := parserFor(t, "crystal")

	tests := []struct {
		name  string
		src   string
		pairs int
	}{
		{"class with method", "class Greeter\n  def hello\n    puts \"hi\"\n  end\nend\n", 2},
		{"struct", "struct Point\n  getter x : Int32\nend\n", 1},
		{"enum", "enum Color\n  Red\n  Green\nend\n", 1},
		{"lib binding", "lib LibC\n  fun getch : Int32\nend\n", 1},
		{"macro", "macro define(name)\n  def {{name}}\n  end\nend\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, p.Parse(tt.src), tt.pairs)
		})
	}
}

func TestCrystalDifferencesFromRuby(t *testing.T) {
	p := parserFor(t, "crystal")

	// =begin is not a comment block
	src := "=begin\nif x\nend\n"
	assert.NotEmpty(t, p.Tokens(src))

	// 'c' is a char literal, not the ? form
	assert.Empty(t, p.Tokens("c = 'e'\n"))

	// postfix modifiers still rejected
	assert.Empty(t, p.Tokens("x = 1 if y\n"))
}

func TestCrystalHeredoc(t *testing.T) {
	src := "html = <<-HTML\n  if x then end\n  HTML\nif y\nend\n"
	pairs := parserFor(t, "crystal").Parse(src)
	require.Len(t, pairs, 1)
	assert.Equal(t, 3, pairs[0].Open.Line)
}
