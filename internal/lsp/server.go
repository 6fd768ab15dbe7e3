// Package lsp exposes the block-pairing engine over the Language Server
// Protocol: documentHighlight lights up the keywords of the innermost block
// surrounding the cursor, and foldingRange reports one range per pair.
package lsp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
	"go.lsp.dev/jsonrpc2"

	"github.com/jarredhawkins/blocknav/internal/parser"
	"github.com/jarredhawkins/blocknav/internal/types"
)

// Server implements the LSP server
type Server struct {
	registry  *parser.Registry
	documents *DocumentStore
}

// NewServer creates a new LSP server
func NewServer(registry *parser.Registry) *Server {
	return &Server{
		registry:  registry,
		documents: NewDocumentStore(),
	}
}

// Serve starts the LSP server on the given reader/writer
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	conn.Go(ctx, s.handler)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-conn.Done():
		return conn.Err()
	}
}

func (s *Server) handler(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	log.Debug().Str("method", req.Method()).Msg("lsp request")

	switch req.Method() {
	case "initialize":
		return s.handleInitialize(ctx, reply, req)
	case "initialized":
		return reply(ctx, nil, nil)
	case "shutdown":
		return reply(ctx, nil, nil)
	case "exit":
		return nil
	case "textDocument/documentHighlight":
		return s.handleDocumentHighlight(ctx, reply, req)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(ctx, reply, req)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.handleDidClose(ctx, reply, req)
	default:
		// Method not found
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.MethodNotFound,
			Message: "method not supported: " + req.Method(),
		})
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
			},
			DocumentHighlightProvider: true,
			FoldingRangeProvider:      true,
		},
		ServerInfo: &ServerInfo{
			Name:    "blocknav",
			Version: "0.1.0",
		},
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleDocumentHighlight(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DocumentHighlightParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidParams,
			Message: err.Error(),
		})
	}

	uri := params.TextDocument.URI
	p := s.registry.ForPath(uriToPath(uri))
	if p == nil {
		return reply(ctx, nil, nil)
	}

	pairs, ok := s.pairsFor(uri, p)
	if !ok {
		return reply(ctx, nil, nil)
	}

	line := int(params.Position.Line)
	char := int(params.Position.Character)

	pair, found := innermostPair(pairs, line, char)
	if !found {
		return reply(ctx, nil, nil)
	}

	tokens := pair.Tokens()
	highlights := make([]DocumentHighlight, len(tokens))
	for i, tok := range tokens {
		highlights[i] = DocumentHighlight{
			Range: tokenRange(tok),
			Kind:  DocumentHighlightKindText,
		}
	}
	return reply(ctx, highlights, nil)
}

func (s *Server) handleFoldingRange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params FoldingRangeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidParams,
			Message: err.Error(),
		})
	}

	uri := params.TextDocument.URI
	p := s.registry.ForPath(uriToPath(uri))
	if p == nil {
		return reply(ctx, nil, nil)
	}

	pairs, ok := s.pairsFor(uri, p)
	if !ok {
		return reply(ctx, nil, nil)
	}

	var ranges []FoldingRange
	for _, pair := range pairs {
		// single-line blocks have nothing to fold
		if pair.Close.Line <= pair.Open.Line {
			continue
		}
		ranges = append(ranges, FoldingRange{
			StartLine:      uint32(pair.Open.Line),
			StartCharacter: uint32(pair.Open.EndColumn()),
			EndLine:        uint32(pair.Close.Line),
			EndCharacter:   uint32(pair.Close.Column),
			Kind:           "region",
		})
	}
	return reply(ctx, ranges, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.documents.Open(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	if len(params.ContentChanges) > 0 {
		// Full sync mode - just take the last content
		s.documents.Update(params.TextDocument.URI, params.TextDocument.Version,
			params.ContentChanges[len(params.ContentChanges)-1].Text)
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.documents.Close(params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

// pairsFor resolves a document's block pairs, preferring the store's
// version-keyed cache and falling back to a disk read for files not open
// in the editor.
func (s *Server) pairsFor(uri string, p *parser.Parser) ([]types.BlockPair, bool) {
	if pairs, ok := s.documents.Pairs(uri, p.Parse); ok {
		return pairs, true
	}

	path := uriToPath(uri)
	content, err := readFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to read file")
		return nil, false
	}
	return p.Parse(content), true
}

// innermostPair picks the tightest pair surrounding the cursor. Pairs come
// out of the matcher in close order, inner before outer, so the first
// surrounding pair wins.
func innermostPair(pairs []types.BlockPair, line, char int) (types.BlockPair, bool) {
	for _, pair := range pairs {
		if pair.Surrounds(line, char) {
			return pair, true
		}
	}
	return types.BlockPair{}, false
}

func tokenRange(tok types.Token) Range {
	return Range{
		Start: Position{Line: uint32(tok.Line), Character: uint32(tok.Column)},
		End:   Position{Line: uint32(tok.Line), Character: uint32(tok.EndColumn())},
	}
}

// readWriteCloser wraps reader and writer into a ReadWriteCloser
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	return nil
}
