package lsp

import (
	"sync"

	"github.com/jarredhawkins/blocknav/internal/types"
)

// DocumentStore tracks open documents and caches each one's block pairs,
// keyed by document version. Highlight and folding requests against an
// unchanged document reuse the cached pairs instead of re-running the
// engine.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]*document
}

type document struct {
	version int
	content string

	// pairs holds the parse result for parsedVersion; it is stale
	// whenever parsedVersion != version.
	parsed        bool
	parsedVersion int
	pairs         []types.BlockPair
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]*document),
	}
}

// Open adds or replaces a document.
func (ds *DocumentStore) Open(uri string, version int, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = &document{
		version: version,
		content: content,
	}
}

// Update replaces a document's content. The cached pairs for the previous
// version become stale.
func (ds *DocumentStore) Update(uri string, version int, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if doc, ok := ds.docs[uri]; ok {
		doc.version = version
		doc.content = content
	}
}

// Close removes a document.
func (ds *DocumentStore) Close(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

// Pairs returns the block pairs for an open document, running parse at
// most once per document version. parse must be a pure function of the
// content; it runs under the store lock.
func (ds *DocumentStore) Pairs(uri string, parse func(string) []types.BlockPair) ([]types.BlockPair, bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	doc, ok := ds.docs[uri]
	if !ok {
		return nil, false
	}
	if !doc.parsed || doc.parsedVersion != doc.version {
		doc.pairs = parse(doc.content)
		doc.parsed = true
		doc.parsedVersion = doc.version
	}
	return doc.pairs, true
}
