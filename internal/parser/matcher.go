package parser

import "github.com/jarredhawkins/blocknav/internal/types"

// BlockMatchStrategy turns a validated token stream into matched pairs.
// Grammars may override the default stack machine.
type BlockMatchStrategy interface {
	Match(g *Grammar, tokens []types.Token) []types.BlockPair
}

// openBlock is a stack frame for a still-unmatched opener and the middle
// keywords collected under it so far.
type openBlock struct {
	token         types.Token
	intermediates []types.Token
}

// StackMatcher is the default matching algorithm: opens push, middles attach
// to the top frame (subject to the grammar's middle restriction table),
// closes pop the nearest compatible frame. Unmatched closers are discarded
// and frames still open at end of input produce no pair. Pairs are emitted
// in close order, inner before outer.
type StackMatcher struct{}

func (StackMatcher) Match(g *Grammar, tokens []types.Token) []types.BlockPair {
	var stack []openBlock
	var pairs []types.BlockPair

	for _, tok := range tokens {
		switch tok.Type {
		case types.TokenOpen:
			stack = append(stack, openBlock{token: tok})

		case types.TokenMiddle:
			if len(stack) == 0 {
				continue
			}
			top := &stack[len(stack)-1]
			if !middleAllowed(g, tok, top.token) {
				continue
			}
			top.intermediates = append(top.intermediates, tok)

		case types.TokenClose:
			idx := findCompatible(g, stack, tok)
			if idx < 0 {
				continue
			}
			frame := stack[idx]
			stack = stack[:idx]
			pairs = append(pairs, types.BlockPair{
				Open:          frame.token,
				Close:         tok,
				Intermediates: frame.intermediates,
				NestLevel:     len(stack),
			})
			if outer, ok := chainPop(g, frame, stack); ok {
				stack = stack[:len(stack)-1]
				pairs = append(pairs, types.BlockPair{
					Open:          outer.token,
					Close:         tok,
					Intermediates: outer.intermediates,
					NestLevel:     len(stack),
				})
			}
		}
	}
	return pairs
}

func middleAllowed(g *Grammar, middle, open types.Token) bool {
	allowed, restricted := g.MiddleFor[g.canon(middle.Value)]
	if !restricted {
		return true
	}
	return inKeywordSet(allowed, g.canon(open.Value))
}

// findCompatible returns the index of the nearest frame (top down) the
// closer may terminate, or -1. Frames skipped over are abandoned: they were
// never going to close once a deeper block did.
func findCompatible(g *Grammar, stack []openBlock, close types.Token) int {
	allowed, restricted := g.CloserFor[g.canon(close.Value)]
	for i := len(stack) - 1; i >= 0; i-- {
		if !restricted || inKeywordSet(allowed, g.canon(stack[i].token.Value)) {
			return i
		}
	}
	return -1
}

// chainPop reports whether the grammar's chained-close rules pop a second
// frame beneath the one just closed (Lua: `end` closing a `do` also closes
// the `while` or `for` directly under it).
func chainPop(g *Grammar, popped openBlock, stack []openBlock) (openBlock, bool) {
	if len(stack) == 0 {
		return openBlock{}, false
	}
	inner := g.canon(popped.token.Value)
	outer := g.canon(stack[len(stack)-1].token.Value)
	for _, cr := range g.ChainedCloses {
		if inKeywordSet(cr.Inner, inner) && inKeywordSet(cr.Outer, outer) {
			return stack[len(stack)-1], true
		}
	}
	return openBlock{}, false
}

func inKeywordSet(set []string, kw string) bool {
	for _, s := range set {
		if s == kw {
			return true
		}
	}
	return false
}
