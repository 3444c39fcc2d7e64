package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/se-bastiaan/captionconvert/internal/logging"
	"github.com/se-bastiaan/captionconvert/internal/subtitle"
)

// EventHandler handles one new or changed caption file.
type EventHandler func(ctx context.Context, filePath string) error

// Watcher converts caption files as they land in a directory.
type Watcher struct {
	inputDir  string
	handler   EventHandler
	logger    *logging.Logger
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	// time a file must stay quiet before it is handled
	settle time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New watches inputDir, running at most maxConcurrent handlers at once.
func New(
	inputDir string,
	handler EventHandler,
	logger *logging.Logger,
	maxConcurrent int,
) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(inputDir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Watcher{
		inputDir:  inputDir,
		handler:   handler,
		logger:    logger,
		watcher:   fsw,
		semaphore: make(chan struct{}, maxConcurrent),
		settle:    500 * time.Millisecond,
		pending:   make(map[string]*time.Timer),
	}, nil
}

// Start blocks until ctx is cancelled, then waits for running handlers
// and returns ctx.Err().
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Infow("Watching for caption files",
		"dir", w.inputDir,
		"max_concurrent", cap(w.semaphore),
	)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			w.wg.Wait()
			w.logger.Infow("Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !subtitle.IsCaptionFile(event.Name) {
				w.logger.Debugw("Ignoring non-caption file", "path", event.Name)
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Errorw("Watcher error", "error", err)
		}
	}
}

// schedule (re)arms the settle timer for path so a file being written in
// several chunks is handled once.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok && timer.Stop() {
		timer.Reset(w.settle)
		return
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.settle, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		w.run(ctx, path)
	})
	w.pending[path] = timer
}

func (w *Watcher) run(ctx context.Context, path string) {
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-w.semaphore }()

	w.logger.Infow("New caption file detected", "path", path)
	if err := w.handler(ctx, path); err != nil {
		w.logger.Errorw("Failed to process caption file",
			"path", path,
			"error", err,
		)
	}
}

// stopTimers cancels timers that have not fired yet.
func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
}

// Stop closes the file watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
