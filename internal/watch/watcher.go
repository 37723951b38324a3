// Package watch re-runs a handler for data files that appear or change in a
// directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes one changed file.
type Handler func(ctx context.Context, path string) error

// Watch calls handle for every file in dir whose base name matches pattern
// once it has been created or written and then left alone for debounce.
// Handler errors are logged and do not stop the watcher. Watch returns when
// ctx is cancelled.
func Watch(ctx context.Context, dir, pattern string, debounce time.Duration, logger *slog.Logger, handle Handler) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid watch pattern %q: %w", pattern, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("watcher: started", slog.String("dir", dir), slog.String("pattern", pattern))

	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			for _, p := range paths {
				if err := handle(ctx, p); err != nil {
					logger.Warn("watcher: handler failed", slog.String("path", p), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: handled", slog.String("path", p))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if matched, _ := filepath.Match(pattern, filepath.Base(ev.Name)); !matched {
				continue
			}
			pending[ev.Name] = struct{}{}
			scheduleFlush()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
