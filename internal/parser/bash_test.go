package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBashConditionals(t *testing.T) {
	p := parserFor(t, "bash")

	t.Run("if then fi", func(t *testing.T) {
		pairs := p.Parse("if test -f x; then\n  cat x\nfi\n")
		require.Len(t, pairs, 1)
		require.Len(t, pairs[0].Intermediates, 1)
		assert.Equal(t, "then", pairs[0].Intermediates[0].Value)
	})

	t.Run("elif else", func(t *testing.T) {
		pairs := p.Parse("if a; then\n  1\nelif b; then\n  2\nelse\n  3\nfi\n")
		require.Len(t, pairs, 1)
		assert.Len(t, pairs[0].Intermediates, 4)
	})

	t.Run("single line", func(t *testing.T) {
		pairs := p.Parse("if t; then echo y; fi\n")
		require.Len(t, pairs, 1)
	})
}

func TestBashLoops(t *testing.T) {
	p := parserFor(t, "bash")

	pairs := p.Parse("for f in a b c; do\n  echo \"$f\"\ndone\n")
	require.Len(t, pairs, 1)
	require.Len(t, pairs[0].Intermediates, 2)
	assert.Equal(t, "in", pairs[0].Intermediates[0].Value)
	assert.Equal(t, "do", pairs[0].Intermediates[1].Value)

	pairs = p.Parse("while read line; do\n  echo \"$line\"\ndone < input\n")
	require.Len(t, pairs, 1)
	assert.Equal(t, "while", pairs[0].Open.Value)
}

func TestBashCase(t *testing.T) {
	src := "case \"$1\" in\n  start) run ;;\n  stop) halt ;;\nesac\n"
	pairs := parserFor(t, "bash").Parse(src)
	require.Len(t, pairs, 1)
	assert.Equal(t, "case", pairs[0].Open.Value)
	assert.Equal(t, "esac", pairs[0].Close.Value)
}

func TestBashCommandPosition(t *testing.T) {
	p := parserFor(t, "bash")

	// keyword text as a command argument closes nothing
	pairs := p.Parse("echo done\nwhile t; do\n  f\ndone\n")
	require.Len(t, pairs, 1)
	assert.Equal(t, 3, pairs[0].Close.Line)

	assert.Empty(t, p.Tokens("echo fi\n"))
	assert.Empty(t, p.Tokens("make done\n"))
	assert.Empty(t, p.Parse("echo if then fi\n"))
}

func TestBashCloserSpellings(t *testing.T) {
	p := parserFor(t, "bash")

	// each closer only terminates its own construct
	assert.Empty(t, p.Parse("if t; then\n  x\ndone\n"), "done cannot close if")
	assert.Empty(t, p.Parse("while t; do\n  x\nfi\n"), "fi cannot close while")
	assert.Empty(t, p.Parse("case a in\nesac_typo\n"))
}

func TestBashHeredocs(t *testing.T) {
	p := parserFor(t, "bash")

	t.Run("body excluded", func(t *testing.T) {
		src := "cat <<EOF\nif x; then\nEOF\nif y; then\n  z\nfi\n"
		pairs := p.Parse(src)
		require.Len(t, pairs, 1)
		assert.Equal(t, 3, pairs[0].Open.Line)
	})

	t.Run("indented terminator", func(t *testing.T) {
		src := "cat <<-EOF\n\tif x; then\n\tEOF\nfi\n"
		assert.Empty(t, p.Parse(src), "orphan fi after excluded body")
	})

	t.Run("herestring is not a heredoc", func(t *testing.T) {
		src := "grep x <<< \"$data\"\nif t; then\n  y\nfi\n"
		pairs := p.Parse(src)
		require.Len(t, pairs, 1)
	})
}

func TestBashSubstitutionIsLiveCode(t *testing.T) {
	p := parserFor(t, "bash")

	pairs := p.Parse("out=$(if true; then echo y; fi)\n")
	require.Len(t, pairs, 1, "command substitution contents are parsed")
	assert.Equal(t, "if", pairs[0].Open.Value)
}

func TestBashQuotingAndComments(t *testing.T) {
	p := parserFor(t, "bash")

	tests := []struct {
		name string
		src  string
	}{
		{"double quoted", "msg=\"if then fi\"\n"},
		{"single quoted", "msg='while do done'\n"},
		{"ansi c quoted", "msg=$'if\\tthen'\n"},
		{"comment", "# if then fi\n"},
		{"backtick", "out=`echo done`\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, p.Tokens(tt.src))
		})
	}

	// a hash inside a word is not a comment
	pairs := p.Parse("tag=v1#rc\nif t; then\n  y\nfi\n")
	require.Len(t, pairs, 1)
}
