package publish

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay batches rapid editor events (write + rename storms) into a
// single rebuild.
const debounceDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the input directory and rebuilds
// posts as they change until ctx is cancelled. The input directory is
// watched non-recursively, matching the batch scan.
func (s *Service) Watch(ctx context.Context, root string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	s.logger.Info("watcher: started", slog.String("root", root))

	dirty := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounceDelay)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			// Editors drop temp files next to the post; ignore them.
			if strings.HasPrefix(name, ".") || !s.in.Matches(name) {
				continue
			}
			dirty[name] = struct{}{}
			scheduleFlush()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher: error", slog.String("error", err.Error()))

		case <-flushCh:
			for path := range dirty {
				if err := s.process(ctx, path); err != nil {
					s.logger.Error("watcher: rebuild failed",
						slog.String("path", path), slog.String("error", err.Error()))
				}
			}
			clear(dirty)
		}
	}
}
