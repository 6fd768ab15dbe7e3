package lsp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"

	"github.com/jarredhawkins/blocknav/internal/parser"
	"github.com/jarredhawkins/blocknav/internal/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	registry := parser.NewRegistry()
	parser.RegisterDefaults(registry)
	return NewServer(registry)
}

// call dispatches one request through the server's handler and returns the
// reply result.
func call(t *testing.T, s *Server, method string, params interface{}) interface{} {
	t.Helper()
	req, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), method, params)
	require.NoError(t, err)

	var got interface{}
	replier := func(ctx context.Context, result interface{}, err error) error {
		require.NoError(t, err)
		got = result
		return nil
	}
	require.NoError(t, s.handler(context.Background(), replier, req))
	return got
}

func TestInitializeCapabilities(t *testing.T) {
	s := newTestServer(t)
	got := call(t, s, "initialize", struct{}{})

	result, ok := got.(InitializeResult)
	require.True(t, ok)
	assert.True(t, result.Capabilities.DocumentHighlightProvider)
	assert.True(t, result.Capabilities.FoldingRangeProvider)
	require.NotNil(t, result.Capabilities.TextDocumentSync)
	assert.Equal(t, TextDocumentSyncKindFull, result.Capabilities.TextDocumentSync.Change)
}

func TestDocumentHighlightInnermostBlock(t *testing.T) {
	s := newTestServer(t)
	uri := "file:///test.rb"
	s.documents.Open(uri, 1, "def f\n  if x\n    y\n  end\nend\n")

	got := call(t, s, "textDocument/documentHighlight", DocumentHighlightParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 2, Character: 4},
		},
	})

	highlights, ok := got.([]DocumentHighlight)
	require.True(t, ok)
	require.Len(t, highlights, 2, "inner if block wins over def")
	assert.Equal(t, uint32(1), highlights[0].Range.Start.Line)
	assert.Equal(t, uint32(3), highlights[1].Range.Start.Line)
}

func TestDocumentHighlightOutsideAnyBlock(t *testing.T) {
	s := newTestServer(t)
	uri := "file:///test.rb"
	s.documents.Open(uri, 1, "x = 1\nif y\nend\n")

	got := call(t, s, "textDocument/documentHighlight", DocumentHighlightParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, got)
}

func TestDocumentHighlightUnknownLanguage(t *testing.T) {
	s := newTestServer(t)
	uri := "file:///test.unknown"
	s.documents.Open(uri, 1, "if x\nend\n")

	got := call(t, s, "textDocument/documentHighlight", DocumentHighlightParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, got)
}

func TestFoldingRanges(t *testing.T) {
	s := newTestServer(t)
	uri := "file:///test.rb"
	s.documents.Open(uri, 1, "def f\n  if x\n    y\n  end\nend\nz = 1 if q\n")

	got := call(t, s, "textDocument/foldingRange", FoldingRangeParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})

	ranges, ok := got.([]FoldingRange)
	require.True(t, ok)
	require.Len(t, ranges, 2)
	assert.Equal(t, uint32(1), ranges[0].StartLine)
	assert.Equal(t, uint32(3), ranges[0].EndLine)
	assert.Equal(t, uint32(0), ranges[1].StartLine)
	assert.Equal(t, uint32(4), ranges[1].EndLine)
}

func TestFoldingSkipsSingleLineBlocks(t *testing.T) {
	s := newTestServer(t)
	uri := "file:///test.lua"
	s.documents.Open(uri, 1, "if x then f() end\nwhile y do\n  g()\nend\n")

	got := call(t, s, "textDocument/foldingRange", FoldingRangeParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})

	ranges, ok := got.([]FoldingRange)
	require.True(t, ok)
	for _, r := range ranges {
		assert.Greater(t, r.EndLine, r.StartLine)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	s := newTestServer(t)
	uri := "file:///test.rb"

	var parsed string
	record := func(content string) []types.BlockPair {
		parsed = content
		return nil
	}

	call(t, s, "textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, Version: 1, Text: "if a\nend\n"},
	})
	_, ok := s.documents.Pairs(uri, record)
	require.True(t, ok)
	assert.Equal(t, "if a\nend\n", parsed)

	call(t, s, "textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument: VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "while b\nend\n"}},
	})
	_, ok = s.documents.Pairs(uri, record)
	require.True(t, ok)
	assert.Equal(t, "while b\nend\n", parsed)

	call(t, s, "textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})
	_, ok = s.documents.Pairs(uri, record)
	assert.False(t, ok)
}

func TestHighlightTracksEdits(t *testing.T) {
	s := newTestServer(t)
	uri := "file:///test.rb"
	highlight := func() interface{} {
		return call(t, s, "textDocument/documentHighlight", DocumentHighlightParams{
			TextDocumentPositionParams: TextDocumentPositionParams{
				TextDocument: TextDocumentIdentifier{URI: uri},
				Position:     Position{Line: 0, Character: 1},
			},
		})
	}

	call(t, s, "textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, Version: 1, Text: "if a\nend\n"},
	})
	highlights, ok := highlight().([]DocumentHighlight)
	require.True(t, ok)
	assert.Len(t, highlights, 2)

	// the edit pushes the block off line 0, so the same cursor position
	// must now miss it
	call(t, s, "textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument: VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "x = 1\nif a\nend\n"}},
	})
	assert.Nil(t, highlight())
}

func TestClosedDocumentFallsBackToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.rb")
	require.NoError(t, os.WriteFile(path, []byte("if x\n  y\nend\n"), 0o644))

	s := newTestServer(t)
	got := call(t, s, "textDocument/foldingRange", FoldingRangeParams{
		TextDocument: TextDocumentIdentifier{URI: "file://" + path},
	})

	ranges, ok := got.([]FoldingRange)
	require.True(t, ok)
	assert.Len(t, ranges, 1)
}

func TestInnermostPairPicksFirstSurrounding(t *testing.T) {
	inner := types.BlockPair{
		Open:  types.Token{Line: 1, Column: 0, Length: 2},
		Close: types.Token{Line: 3, Column: 0, Length: 3},
	}
	outer := types.BlockPair{
		Open:  types.Token{Line: 0, Column: 0, Length: 3},
		Close: types.Token{Line: 4, Column: 0, Length: 3},
	}

	pair, ok := innermostPair([]types.BlockPair{inner, outer}, 2, 0)
	require.True(t, ok)
	assert.Equal(t, inner, pair)

	pair, ok = innermostPair([]types.BlockPair{inner, outer}, 4, 0)
	require.True(t, ok)
	assert.Equal(t, outer, pair)

	_, ok = innermostPair(nil, 0, 0)
	assert.False(t, ok)
}
