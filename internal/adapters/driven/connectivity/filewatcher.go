package connectivity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// FileWatcher derives connectivity from a status file holding one of
// "available", "unavailable" or "unknown". A missing or unreadable file
// means unknown.
type FileWatcher struct {
	*Monitor

	path string
}

// NewFileWatcher creates a watcher for path, seeded with the file's
// current contents.
func NewFileWatcher(path string) *FileWatcher {
	path = filepath.Clean(path)
	return &FileWatcher{
		Monitor: NewMonitor(readState(path)),
		path:    path,
	}
}

// Run watches the status file until ctx is done. The parent directory is
// watched so that files replaced by rename are still seen.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	// Catch writes between construction and Add.
	w.Set(readState(w.path))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if state, changed := w.handleFsEvent(event); changed {
				logger.Info("connectivity: %s (from %s)", state, w.path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("connectivity: watch %s: %v", w.path, err)
		}
	}
}

// handleFsEvent re-reads the status file if the event concerns it.
func (w *FileWatcher) handleFsEvent(event fsnotify.Event) (domain.ConnectivityState, bool) {
	if filepath.Clean(event.Name) != w.path {
		return w.Current(), false
	}

	var state domain.ConnectivityState
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		state = domain.ConnectivityUnknown
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		state = readState(w.path)
	default:
		return w.Current(), false
	}
	return state, w.Set(state)
}

func readState(path string) domain.ConnectivityState {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ConnectivityUnknown
	}
	state, err := domain.ParseConnectivityState(string(data))
	if err != nil {
		logger.Warn("connectivity: %s: %v", path, err)
		return domain.ConnectivityUnknown
	}
	return state
}
