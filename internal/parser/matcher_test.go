package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarredhawkins/blocknav/internal/types"
)

type tokSpec struct {
	t types.TokenType
	v string
}

func tk(t types.TokenType, v string) tokSpec { return tokSpec{t, v} }

// toks builds a token stream positioned by slice index, which is all the
// matcher looks at.
func toks(specs ...tokSpec) []types.Token {
	out := make([]types.Token, len(specs))
	for i, s := range specs {
		out[i] = types.Token{Type: s.t, Value: s.v, Line: i, Offset: i * 10, Length: len(s.v)}
	}
	return out
}

func TestStackMatcherBasic(t *testing.T) {
	g := &Grammar{}
	pairs := StackMatcher{}.Match(g, toks(
		tk(types.TokenOpen, "if"),
		tk(types.TokenMiddle, "else"),
		tk(types.TokenClose, "end"),
	))
	require.Len(t, pairs, 1)
	assert.Equal(t, "if", pairs[0].Open.Value)
	assert.Equal(t, "end", pairs[0].Close.Value)
	require.Len(t, pairs[0].Intermediates, 1)
	assert.Equal(t, "else", pairs[0].Intermediates[0].Value)
	assert.Equal(t, 0, pairs[0].NestLevel)
}

func TestStackMatcherCloserRestriction(t *testing.T) {
	g := &Grammar{
		CloserFor: map[string][]string{
			"endmodule": {"module"},
			"end":       {"begin"},
		},
	}

	// a restricted closer skips incompatible frames and abandons them
	pairs := StackMatcher{}.Match(g, toks(
		tk(types.TokenOpen, "module"),
		tk(types.TokenOpen, "begin"),
		tk(types.TokenClose, "endmodule"),
	))
	require.Len(t, pairs, 1)
	assert.Equal(t, "module", pairs[0].Open.Value)

	// a closer with no compatible frame is dropped
	pairs = StackMatcher{}.Match(g, toks(
		tk(types.TokenOpen, "module"),
		tk(types.TokenClose, "end"),
		tk(types.TokenClose, "endmodule"),
	))
	require.Len(t, pairs, 1)
	assert.Equal(t, "module", pairs[0].Open.Value)
	assert.Equal(t, "endmodule", pairs[0].Close.Value)
}

func TestStackMatcherMiddleRestriction(t *testing.T) {
	g := &Grammar{
		MiddleFor: map[string][]string{
			"when": {"case"},
		},
	}
	pairs := StackMatcher{}.Match(g, toks(
		tk(types.TokenOpen, "if"),
		tk(types.TokenMiddle, "when"),
		tk(types.TokenMiddle, "other"),
		tk(types.TokenClose, "end"),
	))
	require.Len(t, pairs, 1)
	require.Len(t, pairs[0].Intermediates, 1, "restricted middle must not attach to if")
	assert.Equal(t, "other", pairs[0].Intermediates[0].Value)
}

func TestStackMatcherOrphanMiddle(t *testing.T) {
	pairs := StackMatcher{}.Match(&Grammar{}, toks(
		tk(types.TokenMiddle, "else"),
		tk(types.TokenOpen, "if"),
		tk(types.TokenClose, "end"),
	))
	require.Len(t, pairs, 1)
	assert.Empty(t, pairs[0].Intermediates)
}

func TestStackMatcherChainedClose(t *testing.T) {
	g := &Grammar{
		CloserFor: map[string][]string{
			"end": {"do", "while"},
		},
		ChainedCloses: []ChainRule{
			{Inner: []string{"do"}, Outer: []string{"while"}},
		},
	}
	pairs := StackMatcher{}.Match(g, toks(
		tk(types.TokenOpen, "while"),
		tk(types.TokenOpen, "do"),
		tk(types.TokenClose, "end"),
	))
	require.Len(t, pairs, 2)
	assert.Equal(t, "do", pairs[0].Open.Value)
	assert.Equal(t, 1, pairs[0].NestLevel)
	assert.Equal(t, "while", pairs[1].Open.Value)
	assert.Equal(t, 0, pairs[1].NestLevel)
	assert.Equal(t, pairs[0].Close, pairs[1].Close, "chained pairs share the close token")
}

func TestStackMatcherChainSkipsUnrelatedOuter(t *testing.T) {
	g := &Grammar{
		CloserFor: map[string][]string{
			"end": {"do", "while", "function"},
		},
		ChainedCloses: []ChainRule{
			{Inner: []string{"do"}, Outer: []string{"while"}},
		},
	}
	pairs := StackMatcher{}.Match(g, toks(
		tk(types.TokenOpen, "function"),
		tk(types.TokenOpen, "do"),
		tk(types.TokenClose, "end"),
	))
	require.Len(t, pairs, 1, "function beneath do is not chained")
	assert.Equal(t, "do", pairs[0].Open.Value)
}
