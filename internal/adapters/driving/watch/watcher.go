// Package watch re-imports local documents into the vault when they change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/logger"
)

// Reload reports one re-import.
type Reload struct {
	// Path is the file that changed.
	Path string

	// URI is the request URI the document is stored under.
	URI string

	// Entity is the re-imported root, nil on error.
	Entity *domain.Entity

	// Err is set when the file could not be read or imported.
	Err error
}

// Watcher tracks local documents and re-imports them on change.
// Parent directories are watched rather than the files themselves so that
// editors which save by renaming a temp file are still picked up.
type Watcher struct {
	vault driving.Vault

	mu    sync.RWMutex
	files map[string]string // absolute path -> request URI
	dirs  map[string]struct{}
}

// New creates a watcher feeding vault.
func New(vault driving.Vault) *Watcher {
	return &Watcher{
		vault: vault,
		files: make(map[string]string),
		dirs:  make(map[string]struct{}),
	}
}

// Add tracks the document at uri, a plain path or file:// URI, and
// returns its absolute path.
func (w *Watcher) Add(uri string) (string, error) {
	path := strings.TrimPrefix(uri, "file://")
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", uri, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, abs)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, abs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = uri
	w.dirs[filepath.Dir(abs)] = struct{}{}
	return abs, nil
}

// Files returns the tracked absolute paths.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.files))
	for path := range w.files {
		out = append(out, path)
	}
	return out
}

// Run watches until ctx is cancelled, calling onReload after each re-import.
func (w *Watcher) Run(ctx context.Context, onReload func(Reload)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	w.mu.RLock()
	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.mu.RUnlock()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Debug("watch: watching %s", dir)
	}
	w.mu.RUnlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path, ok := w.handleEvent(event)
			if !ok {
				continue
			}
			reload := w.Reload(path)
			if onReload != nil {
				onReload(reload)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// handleEvent returns the tracked path an event should re-import.
// Removals and renames are ignored: the file is picked up again when it
// is recreated.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	path := filepath.Clean(event.Name)

	w.mu.RLock()
	_, tracked := w.files[path]
	w.mu.RUnlock()
	return path, tracked
}

// Reload reads the tracked file at path and imports it again.
func (w *Watcher) Reload(path string) Reload {
	w.mu.RLock()
	uri, ok := w.files[path]
	w.mu.RUnlock()
	if !ok {
		return Reload{Path: path, Err: fmt.Errorf("%w: %s is not watched", domain.ErrInvalidInput, path)}
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return Reload{Path: path, URI: uri, Err: fmt.Errorf("reading %s: %w", path, err)}
	}

	entity, err := w.vault.LoadSync(uri, body, driving.LoadOptions{})
	if err != nil {
		logger.Debug("watch: re-import of %s failed: %v", path, err)
	} else {
		logger.Info("watch: re-imported %s as %s", path, entity.ID)
	}
	return Reload{Path: path, URI: uri, Entity: entity, Err: err}
}
