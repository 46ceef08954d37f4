// Package dropzone turns files landing in a directory into drop events.
package dropzone

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the directory must be quiet before pending
// files are emitted.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches one directory and reports files created or moved into it.
//
// Events arriving within the debounce window are batched, so a file copied
// in several writes, or several files dropped at once, arrive as one drop.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce sets the debounce duration. Zero keeps the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for dir. The directory is not opened until Run.
func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches until ctx is done, sending each batch of dropped paths to out
// in lexical order. It closes nothing; the caller owns out.
func (w *Watcher) Run(ctx context.Context, out chan<- []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dropzone: create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best effort close

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("dropzone: watch %s: %w", w.dir, err)
	}

	w.logger.Info("watching drop folder", zap.String("dir", w.dir))

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if hidden(event.Name) {
				continue
			}
			w.logger.Debug("drop folder changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))

			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)

			select {
			case out <- paths:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("drop folder watcher error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}

// hidden reports dot files, which includes the temp files SaveTags writes
// when the drop folder doubles as the music folder.
func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
