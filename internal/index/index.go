// Package index maintains a workspace-wide cache of parsed block pairs,
// keyed by file path. The LSP server consults it for files that are not
// open in the editor, and the watcher keeps it current.
package index

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gitlab.com/tozd/go/errors"

	"github.com/jarredhawkins/blocknav/internal/parser"
	"github.com/jarredhawkins/blocknav/internal/types"
)

// FileEntry is the cached parse result for one file.
type FileEntry struct {
	Path     string
	Language string
	Pairs    []types.BlockPair
	Tokens   []types.Token
}

// Index caches block pairs for every recognized file under a root path.
type Index struct {
	mu     sync.RWMutex
	byFile map[string]*FileEntry

	rootPath string
	registry *parser.Registry
}

// New creates an empty index for the given root path.
func New(rootPath string, registry *parser.Registry) *Index {
	return &Index{
		byFile:   make(map[string]*FileEntry),
		rootPath: rootPath,
		registry: registry,
	}
}

// Build walks the root path and parses every file with a registered
// extension. Unreadable files are logged and skipped.
func (idx *Index) Build(ctx context.Context) error {
	log.Info().Str("root", idx.rootPath).Msg("building index")

	var files []string
	err := filepath.WalkDir(idx.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}

		if idx.registry.ForPath(path) != nil {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return errors.WithMessage(err, "walking workspace")
	}

	log.Info().Int("files", len(files)).Msg("found source files")

	// Parse files concurrently
	var wg sync.WaitGroup
	sem := make(chan struct{}, 8) // Limit concurrency

	for _, file := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := idx.AddFile(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to index file")
			}
		}(file)
	}

	wg.Wait()

	files2, pairs := idx.Stats()
	log.Info().Int("files", files2).Int("pairs", pairs).Msg("index built")
	return nil
}

// AddFile parses a single file and stores its block pairs.
func (idx *Index) AddFile(path string) error {
	p := idx.registry.ForPath(path)
	if p == nil {
		return errors.Errorf("no grammar registered for %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}

	source := string(content)
	entry := &FileEntry{
		Path:     path,
		Language: p.Grammar().Name,
		Pairs:    p.Parse(source),
		Tokens:   p.Tokens(source),
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byFile[path] = entry
	return nil
}

// RemoveFile drops a file from the cache.
func (idx *Index) RemoveFile(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.byFile, path)
}

// UpdateFile re-parses a file, replacing its cached entry.
func (idx *Index) UpdateFile(path string) error {
	return idx.AddFile(path)
}

// Entry returns the cached entry for a file, or nil when the file is not
// indexed.
func (idx *Index) Entry(path string) *FileEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.byFile[path]
}

// PairsForFile returns the cached block pairs for a file.
func (idx *Index) PairsForFile(path string) []types.BlockPair {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if e, ok := idx.byFile[path]; ok {
		result := make([]types.BlockPair, len(e.Pairs))
		copy(result, e.Pairs)
		return result
	}
	return nil
}

// Stats returns the number of indexed files and the total pair count.
func (idx *Index) Stats() (files, pairs int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, e := range idx.byFile {
		files++
		pairs += len(e.Pairs)
	}
	return files, pairs
}

// LanguageStats is the per-language slice of the index.
type LanguageStats struct {
	Files int
	Pairs int
}

// StatsByLanguage breaks the index down per language name.
func (idx *Index) StatsByLanguage() map[string]LanguageStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string]LanguageStats)
	for _, e := range idx.byFile {
		s := out[e.Language]
		s.Files++
		s.Pairs += len(e.Pairs)
		out[e.Language] = s
	}
	return out
}

// RootPath returns the root path of the index.
func (idx *Index) RootPath() string {
	return idx.rootPath
}
