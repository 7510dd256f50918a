package ast

import (
	"fmt"
	"sort"
	"sync"
)

// ParserFactory builds a FileParser rooted at a repository directory.
type ParserFactory func(repoRoot string) FileParser

// ParserRegistry maps language names and file extensions to parser
// factories. Language front ends register themselves at init time and
// the registry is read concurrently after that, so access is guarded
// by a read-write mutex.
type ParserRegistry struct {
	mu        sync.RWMutex
	factories map[string]ParserFactory
	byExt     map[string]string // extension → parser name
}

// NewParserRegistry returns an empty registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		factories: make(map[string]ParserFactory),
		byExt:     make(map[string]string),
	}
}

// Register adds a parser under the given name and claims each extension
// not already claimed by an earlier registration. Extensions carry the
// leading dot, as returned by filepath.Ext.
func (r *ParserRegistry) Register(name string, extensions []string, factory ParserFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = factory
	for _, ext := range extensions {
		if _, claimed := r.byExt[ext]; !claimed {
			r.byExt[ext] = name
		}
	}
}

// GetParserName resolves a file extension to the parser that claimed it.
func (r *ParserRegistry) GetParserName(ext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byExt[ext]
	return name, ok
}

// HasParser reports whether a parser is registered under name.
func (r *ParserRegistry) HasParser(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// CreateParser instantiates the named parser rooted at repoRoot.
func (r *ParserRegistry) CreateParser(name, repoRoot string) (FileParser, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("parser not registered: %s", name)
	}
	return factory(repoRoot), nil
}

// CreateParserForExtension instantiates the parser that claimed the
// given file extension.
func (r *ParserRegistry) CreateParserForExtension(ext, repoRoot string) (FileParser, error) {
	name, ok := r.GetParserName(ext)
	if !ok {
		return nil, fmt.Errorf("no parser registered for extension: %s", ext)
	}
	return r.CreateParser(name, repoRoot)
}

// ListParsers returns the registered parser names in sorted order.
func (r *ParserRegistry) ListParsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListExtensions returns every claimed file extension in sorted order.
func (r *ParserRegistry) ListExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// GetExtensionsForParser returns the extensions claimed by the named
// parser in sorted order. Extensions lost to an earlier registration
// are not included.
func (r *ParserRegistry) GetExtensionsForParser(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var exts []string
	for ext, owner := range r.byExt {
		if owner == name {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// DefaultRegistry is the process-wide registry that language front ends
// add themselves to from their init functions.
var DefaultRegistry = NewParserRegistry()
