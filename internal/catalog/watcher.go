package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses bursts of writes (editors often write, chmod and
// rename in quick succession) into one reload.
const reloadDebounce = 200 * time.Millisecond

// ReloadCallback is called after the store has been swapped to a new table.
type ReloadCallback func(c *Catalog)

// Watch reloads the catalog file at path into store whenever it changes, until
// ctx is cancelled. The parent directory is watched so that atomic
// rename-into-place saves are picked up. A table that fails to parse is logged
// and the previous table keeps serving.
func Watch(ctx context.Context, store *Store, path string, logger *slog.Logger, cb ReloadCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("catalog: resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(abs), err)
	}

	logger.Info("catalog watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("catalog watcher: stopped")
			return nil

		case <-fire:
			fire = nil
			c, loadErr := LoadFile(abs)
			if loadErr != nil {
				logger.Warn("catalog watcher: reload failed", slog.String("error", loadErr.Error()))
				continue
			}
			store.Swap(c)
			logger.Info("catalog watcher: reloaded", slog.Int("entries", c.Len()))
			if cb != nil {
				cb(c)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("catalog watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
