package ast

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	defaultDebounce  = 100 * time.Millisecond
	eventChannelSize = 100
)

// WatcherConfig configures a repository watcher.
type WatcherConfig struct {
	// RepoRoot is the directory tree to watch.
	RepoRoot string

	// Registry supplies parsers per extension. Defaults to DefaultRegistry.
	Registry *ParserRegistry

	// DebounceDelay is how long changes accumulate before a batch is
	// parsed. Zero means the 100ms default.
	DebounceDelay time.Duration

	Logger *slog.Logger
}

// WatchEvent is one observed change to a source file.
type WatchEvent struct {
	// Path is relative to the repository root.
	Path string

	Operation WatchOperation

	// File holds the parse result. It is nil for deletes and when
	// Error is set.
	File *File

	// Error reports a parse failure for the changed file.
	Error error
}

// WatchOperation classifies a change.
type WatchOperation string

const (
	OpCreate WatchOperation = "create"
	OpModify WatchOperation = "modify"
	OpDelete WatchOperation = "delete"
)

// Watcher follows a repository tree through fsnotify and emits a parsed
// WatchEvent for every settled change to a file a registered front end
// understands. Raw notifications are debounced so a burst of editor
// writes parses once.
type Watcher struct {
	config   WatcherConfig
	registry *ParserRegistry
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	// Parser instances, created lazily per language.
	parserMu sync.Mutex
	parsers  map[string]FileParser

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → latest raw op

	// Content hashes from previous parses, for suppressing no-op saves.
	hashMu sync.RWMutex
	hashes map[string]string

	events chan WatchEvent
}

// NewWatcher creates a watcher for the configured repository root.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := config.Registry
	if registry == nil {
		registry = DefaultRegistry
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = defaultDebounce
	}

	return &Watcher{
		config:   config,
		registry: registry,
		fsw:      fsw,
		logger:   logger,
		parsers:  make(map[string]FileParser),
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		events:   make(chan WatchEvent, eventChannelSize),
	}, nil
}

// Events returns the channel watch events are delivered on.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start registers watches on every directory under the root and begins
// processing changes until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watchTree(w.config.RepoRoot); err != nil {
		return err
	}

	go w.run(ctx)

	w.logger.Info("Watching repository",
		"root", w.config.RepoRoot,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop closes the event channel and releases the fsnotify handles.
func (w *Watcher) Stop() error {
	close(w.events)
	return w.fsw.Close()
}

// watchTree adds a watch for root and every non-hidden, non-vendor
// directory below it. fsnotify watches are not recursive, so each
// directory needs its own.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(filepath.Base(path)) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("Cannot watch directory", "path", path, "error", err)
		} else {
			w.logger.Debug("Added directory watch", "path", path)
		}
		return nil
	})
}

func skipDir(base string) bool {
	return base == "vendor" || strings.HasPrefix(base, ".")
}

// run multiplexes raw fsnotify traffic with the debounce tick.
func (w *Watcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.observe(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Filesystem watch error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// observe records a raw event for the next flush. Paths without a
// registered parser are ignored, except that newly created directories
// get a watch of their own.
func (w *Watcher) observe(ev fsnotify.Event) {
	path := ev.Name
	if _, ok := w.registry.GetParserName(filepath.Ext(path)); !ok {
		if ev.Has(fsnotify.Create) {
			w.watchNewDir(path)
		}
		return
	}

	relPath, _ := filepath.Rel(w.config.RepoRoot, path)
	if strings.Contains(relPath, "vendor/") {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = ev.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Change recorded", "path", relPath, "op", ev.Op.String())
}

func (w *Watcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skipDir(filepath.Base(path)) {
		return
	}

	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("Cannot watch new directory", "path", path, "error", err)
	} else {
		w.logger.Debug("Watching new directory", "path", path)
	}
}

// flush takes the accumulated batch and emits an event per settled
// change.
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range batch {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.emitChange(ctx, path, op)
	}
}

// emitChange turns one debounced filesystem change into a WatchEvent.
// Renames count as deletes; fsnotify reports the new name as a separate
// create.
func (w *Watcher) emitChange(ctx context.Context, path string, op fsnotify.Op) {
	relPath, _ := filepath.Rel(w.config.RepoRoot, path)
	event := WatchEvent{Path: relPath}

	gone := op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
	if !gone {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			gone = true
		}
	}
	if gone {
		event.Operation = OpDelete
		w.forgetHash(relPath)
		w.emit(event)
		return
	}

	parser := w.parserForPath(path)
	if parser == nil {
		return
	}

	file, err := parser.ParseFile(ctx, path)
	if err != nil {
		event.Error = err
		w.emit(event)
		return
	}

	oldHash, seen := w.hashFor(relPath)
	if seen && oldHash == file.Hash {
		return // touched but unchanged
	}
	w.storeHash(relPath, file.Hash)

	if op.Has(fsnotify.Create) || !seen {
		event.Operation = OpCreate
	} else {
		event.Operation = OpModify
	}
	event.File = file
	w.emit(event)
}

// parserForPath returns a parser for the file's extension, or nil when
// none is registered. Instances are cached per language.
func (w *Watcher) parserForPath(path string) FileParser {
	name, ok := w.registry.GetParserName(filepath.Ext(path))
	if !ok {
		return nil
	}

	w.parserMu.Lock()
	defer w.parserMu.Unlock()
	if parser, ok := w.parsers[name]; ok {
		return parser
	}
	parser, err := w.registry.CreateParser(name, w.config.RepoRoot)
	if err != nil {
		return nil
	}
	w.parsers[name] = parser
	return parser
}

func (w *Watcher) hashFor(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

func (w *Watcher) storeHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func (w *Watcher) forgetHash(path string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	delete(w.hashes, path)
}

// emit delivers an event without blocking the watch loop. If the
// consumer has fallen behind far enough to fill the buffer, the event
// is dropped and logged.
func (w *Watcher) emit(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Emitted watch event", "path", event.Path, "op", event.Operation)
	default:
		w.logger.Warn("Dropping watch event, channel full", "path", event.Path)
	}
}
