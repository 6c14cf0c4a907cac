package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"stashview/internal/stashservice"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "updated", "removed".
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the directories holding the
// configured source files and re-indexes a file whenever it changes,
// until ctx is cancelled. It calls cb (if non-nil) after each successful
// index mutation.
//
// Save files are typically rewritten whole (often via rename), so events
// are debounced: the re-scan runs a short interval after the last event
// for a file, not once per write.
func Watch(ctx context.Context, db *DB, svc *stashservice.Service, sources map[string]string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch parent directories: editors and game saves replace files by
	// rename, which would silently detach a watch on the file itself.
	watched := make(map[string]string, len(sources)) // abs path -> mode
	dirs := make(map[string]struct{})
	for path, mode := range sources {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}
		watched[abs] = mode
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.Int("sources", len(watched)))

	var debounce *time.Timer
	var debounceCh <-chan time.Time
	pending := make(map[string]string)

	schedule := func(path, mode string) {
		pending[path] = mode
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			for path, mode := range pending {
				if err := syncSource(db, svc, path, mode, logger); err != nil {
					logger.Warn("watcher: sync failed",
						slog.String("path", path), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: re-indexed", slog.String("path", path))
				if cb != nil {
					cb("updated", path)
				}
			}
			pending = make(map[string]string)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, absErr := filepath.Abs(ev.Name)
			if absErr != nil {
				continue
			}
			mode, ok := watched[abs]
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0:
				schedule(abs, mode)

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteSource(abs); delErr != nil {
					logger.Warn("watcher: delete failed",
						slog.String("path", abs), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: removed", slog.String("path", abs))
				if cb != nil {
					cb("removed", abs)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
