// Package watch reruns a callback when files under a set of roots change.
// Bursts of events are coalesced into a single call after a quiet window.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/fsutil"
	"github.com/phpnomad/documentation/internal/logfields"
)

// DefaultQuietWindow is how long the tree must stay unchanged before the
// callback runs.
const DefaultQuietWindow = 300 * time.Millisecond

// Watcher watches directory trees recursively.
type Watcher struct {
	roots   []string
	exclude []string
	quiet   time.Duration
	logger  *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithQuietWindow overrides DefaultQuietWindow.
func WithQuietWindow(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.quiet = d
		}
	}
}

// WithExclude ignores events below the given paths, e.g. the output directory.
func WithExclude(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				w.exclude = append(w.exclude, abs)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a Watcher over roots. Roots that do not exist are skipped when
// Run starts.
func New(roots []string, opts ...Option) *Watcher {
	w := &Watcher{
		quiet:  DefaultQuietWindow,
		logger: slog.Default(),
		ready:  make(chan struct{}),
	}
	for _, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			w.roots = append(w.roots, abs)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once every root is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run blocks until ctx is done, calling onChange after each burst of changes.
// onChange runs on the watching goroutine; events arriving meanwhile are
// queued and trigger one more call.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return derrors.FileSystem("watch", strings.Join(w.roots, ","), err)
	}
	defer func() { _ = fw.Close() }()

	for _, root := range w.roots {
		if !fsutil.IsDir(root) {
			w.logger.Warn("Watch root missing, skipped", logfields.Path(root))
			continue
		}
		w.addRecursive(fw, root)
	}
	w.readyOnce.Do(func() { close(w.ready) })
	w.logger.Info("Watching for changes", logfields.Count(len(fw.WatchList())))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.handle(fw, ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.quiet)
			} else {
				timer.Reset(w.quiet)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.logger.Info("Change detected; rebuilding")
			onChange(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// handle reports whether ev should schedule a callback. New directories are
// added to the watch list.
func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if w.excluded(ev.Name) || shouldIgnore(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addRecursive(fw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.excluded(p) {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) excluded(p string) bool {
	for _, ex := range w.exclude {
		if p == ex || strings.HasPrefix(p, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnore filters hidden files and editor temporaries.
func shouldIgnore(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return base == "Thumbs.db"
}
