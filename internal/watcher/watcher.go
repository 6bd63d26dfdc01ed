package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/lecture-flow/internal/audiostore"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

type implWatcher struct {
	inboxDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settleDelay   time.Duration
	wg            sync.WaitGroup
}

// Start begins monitoring the inbox. New class folders are watched as they
// appear; new accepted files inside them are passed to the handler.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inboxDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(audiostore.AcceptedExtensions(), ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if err := w.handleCreate(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) handleCreate(ctx context.Context, path string) error {
	parent := filepath.Dir(path)

	if parent == w.inboxDir {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Error(ctx, "Failed to watch class folder %s: %v", path, err)
			} else {
				w.logger.Info(ctx, "Watching new class folder: %s", filepath.Base(path))
			}
		} else {
			w.logger.Debug(ctx, "Ignoring file outside a class folder: %s", path)
		}
		return nil
	}

	if filepath.Dir(parent) != w.inboxDir {
		return nil
	}
	class := filepath.Base(parent)
	if !audiostore.IsAccepted(path) || strings.HasPrefix(filepath.Base(path), ".") {
		w.logger.Debug(ctx, "Ignoring unsupported file: %s", path)
		return nil
	}

	w.logger.Info(ctx, "New recording detected for %s: %s", class, path)

	// Small delay to ensure file is fully written
	select {
	case <-time.After(w.settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	// Acquire semaphore slot (blocks if max concurrent reached)
	select {
	case w.semaphore <- struct{}{}:
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-w.semaphore }()

			if err := w.handler(ctx, class, path); err != nil {
				w.logger.Error(ctx, "Failed to process %s: %v", path, err)
			}
		}()
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
