package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJuliaBasicBlocks(t *testing.T) {
	p := parserFor(t, "julia")

	tests := []struct {
		name  string
		src   string
		pairs int
	}{
		{"function with if", "function f(x)\n  if x > 0\n    x\n  end\nend\n", 2},
		{"module", "module Geometry\n  area(r) = pi * r^2\nend\n", 1},
		{"let block", "let x = 1\n  x + 1\nend\n", 1},
		{"do block", "map(xs) do x\n  x + 1\nend\n", 1},
		{"try catch finally", "try\n  risky()\ncatch e\n  log(e)\nfinally\n  cleanup()\nend\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, p.Parse(tt.src), tt.pairs)
		})
	}
}

func TestJuliaMultiWordOpeners(t *testing.T) {
	p := parserFor(t, "julia")

	pairs := p.Parse("mutable struct Point\n  x::Int\n  y::Int\nend\n")
	require.Len(t, pairs, 1)
	assert.Equal(t, "mutable struct", pairs[0].Open.Value)

	pairs = p.Parse("abstract type Shape end\n")
	require.Len(t, pairs, 1)
	assert.Equal(t, "abstract type", pairs[0].Open.Value)
}

func TestJuliaIndexKeywords(t *testing.T) {
	p := parserFor(t, "julia")

	assert.Empty(t, p.Tokens("last = a[end]\n"))
	assert.Empty(t, p.Tokens("tail = a[2:end]\n"))
	assert.Empty(t, p.Tokens("first = a[begin]\n"))
	assert.Empty(t, p.Tokens("x = a[end-1]\n"))

	// assignment position still opens a block
	pairs := p.Parse("result = begin\n  compute()\nend\n")
	require.Len(t, pairs, 1)
	assert.Equal(t, "begin", pairs[0].Open.Value)
}

func TestJuliaComprehensions(t *testing.T) {
	p := parserFor(t, "julia")

	assert.Empty(t, p.Tokens("squares = [x^2 for x in xs]\n"))
	assert.Empty(t, p.Tokens("evens = [x for x in xs if x % 2 == 0]\n"))

	// a loop after a closed bracket pair is a real block
	pairs := p.Parse("f(a)\nfor x in xs\n  g(x)\nend\n")
	require.Len(t, pairs, 1)
}

func TestJuliaNestedComments(t *testing.T) {
	p := parserFor(t, "julia")

	src := "#= outer #= inner =# still outer =#\nif x\nend\n"
	regions := p.ExcludedRegions(src)
	require.NotEmpty(t, regions)
	assert.Equal(t, 0, regions[0].Start)

	pairs := p.Parse(src)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].Open.Line)
}

func TestJuliaTransposeVsChar(t *testing.T) {
	p := parserFor(t, "julia")

	// postfix transpose must not start a character literal
	pairs := p.Parse("B = A'\nif x\nend\n")
	require.Len(t, pairs, 1)

	// a real char literal is excluded
	assert.Empty(t, p.Tokens("c = 'e'\nd = '\\n'\n"))
}

func TestJuliaStrings(t *testing.T) {
	p := parserFor(t, "julia")

	tests := []struct {
		name string
		src  string
	}{
		{"plain", "s = \"if x end\"\n"},
		{"triple quoted", "s = \"\"\"\nif x\nend\n\"\"\"\n"},
		{"interpolated", "s = \"value: $(x)\"\n"},
		{"command", "run(`grep end file`)\n"},
		{"comment", "# if x end\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, p.Tokens(tt.src))
		})
	}
}
