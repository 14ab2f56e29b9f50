// Package watcher re-reads a log file whenever it changes and hands the full
// content to a callback.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joshsymonds/rasa/pkg/logger"
)

// DefaultDebounce batches the bursts of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the whole file after each settled change.
type Handler func(ctx context.Context, content string) error

// Watcher follows one file.
type Watcher struct {
	logger     logger.Logger
	path       string
	debounce   time.Duration
	initialRun bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long to wait for events to settle.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithInitialRun makes Run call the handler once before waiting for changes.
func WithInitialRun() Option {
	return func(w *Watcher) {
		w.initialRun = true
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher for path, which must be an existing regular file.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("watching %s: not a regular file", path)
	}

	w := &Watcher{
		logger:   logger.WithComponent("watcher"),
		path:     abs,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled or handle returns an error. The parent
// directory is watched so editors that replace the file are followed too.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Warn("Failed to close file watcher", "error", cerr)
		}
	}()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("Following file", "path", w.path)

	if w.initialRun {
		if err := w.fire(ctx, handle); err != nil {
			return err
		}
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Watcher stopped", "path", w.path)
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("File event", "op", event.Op.String(), "path", event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", "error", err)

		case <-timer.C:
			if err := w.fire(ctx, handle); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func (w *Watcher) fire(ctx context.Context, handle Handler) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// mid-replace; the following Create event triggers another read
			w.logger.Debug("File vanished before read", "path", w.path)
			return nil
		}
		return fmt.Errorf("reading %s: %w", w.path, err)
	}

	if err := handle(ctx, string(data)); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}
