package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/handiism/ucdump/internal/model"
)

// Matcher recognizes cache file names. *cache.Locator implements it.
type Matcher interface {
	Match(name string) (identifier string, ok bool)
}

// Converter converts a batch of entries. *convert.Manager implements it.
type Converter interface {
	ConvertEntries(ctx context.Context, entries []model.CacheEntry) ([]model.Outcome, error)
}

// Watcher converts cache files as the music client writes them.
//
// Every Create or Write event for a matching file (re)starts a per-file
// quiet timer. When a file has not changed for the quiet period it is
// handed to the Converter on its own.
//
// Example:
//
//	w := watch.New(settings.CacheDir, settings.WatchQuietDuration(), manager.Locator(), manager, logger)
//	err := w.Run(ctx) // blocks until ctx is cancelled
type Watcher struct {
	dir       string
	quiet     time.Duration
	matcher   Matcher
	converter Converter
	logger    *slog.Logger

	ready   chan model.CacheEntry
	pending map[string]*time.Timer
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// New creates a Watcher for dir. A nil logger discards output.
func New(dir string, quiet time.Duration, matcher Matcher, converter Converter, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		dir:       filepath.Clean(dir),
		quiet:     quiet,
		matcher:   matcher,
		converter: converter,
		logger:    logger,
		ready:     make(chan model.CacheEntry),
		pending:   make(map[string]*time.Timer),
	}
}

// Run watches the directory until ctx is cancelled. Pending timers are
// dropped and in-flight conversions are awaited before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching cache directory", "dir", w.dir, "quiet_period", w.quiet)

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			w.wg.Wait()
			w.logger.Info("stopped watching cache directory", "dir", w.dir)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case entry := <-w.ready:
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				w.convert(ctx, entry)
			}()
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if filepath.Dir(event.Name) != w.dir {
		return
	}

	id, ok := w.matcher.Match(filepath.Base(event.Name))
	if !ok {
		w.logger.Debug("ignoring non-cache file", "file", event.Name, "op", event.Op.String())
		return
	}
	w.schedule(ctx, model.CacheEntry{Identifier: id, SourcePath: event.Name})
}

// schedule (re)starts the quiet timer for entry.
func (w *Watcher) schedule(ctx context.Context, entry model.CacheEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[entry.SourcePath]; ok {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(w.quiet, func() {
		w.mu.Lock()
		if w.pending[entry.SourcePath] == timer {
			delete(w.pending, entry.SourcePath)
		}
		w.mu.Unlock()

		select {
		case w.ready <- entry:
		case <-ctx.Done():
		}
	})
	w.pending[entry.SourcePath] = timer
	w.logger.Debug("scheduled conversion", "identifier", entry.Identifier, "file", entry.SourcePath, "in", w.quiet)
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// Pending returns the number of files waiting for their quiet period.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

func (w *Watcher) convert(ctx context.Context, entry model.CacheEntry) {
	outcomes, err := w.converter.ConvertEntries(ctx, []model.CacheEntry{entry})
	if err != nil {
		w.logger.Warn("conversion interrupted", "identifier", entry.Identifier, "error", err)
		return
	}
	for _, o := range outcomes {
		w.logger.Info("converted cache file",
			"identifier", o.Entry.Identifier,
			"status", string(o.Status()),
			"output", o.OutputPath,
		)
	}
}
