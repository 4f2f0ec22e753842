// Package watch rebuilds the release-notes index whenever the release-notes
// directory changes.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/modernice/relnotes/internal"
	"golang.org/x/exp/slog"
)

// DefaultDebounce is the time a Watcher waits after the last change before
// it rebuilds.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls a build function once on start and again after every burst
// of changes to a directory.
type Watcher struct {
	dir      string
	build    func(context.Context) error
	debounce time.Duration
	log      *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger returns an Option that sets the logger of a Watcher.
func WithLogger(h slog.Handler) Option {
	return func(w *Watcher) {
		w.log = slog.New(h)
	}
}

// Debounce returns an Option that sets how long the Watcher waits for more
// changes before it rebuilds.
func Debounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New returns a Watcher for dir that calls build on changes.
func New(dir string, build func(context.Context) error, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		build:    build,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = internal.NopLogger()
	}
	return w
}

// Run watches the directory until ctx is canceled. Errors returned by the
// build function are logged and do not stop the Watcher; errors of the
// underlying filesystem watcher do.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.log.Info("Watching release notes ...", "dir", w.dir)

	w.rebuild(ctx)

	timer := time.NewTimer(w.debounce)
	stopTimer(timer)
	defer timer.Stop()

	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.Debug("Release notes changed", "file", event.Name, "op", event.Op.String())
			stopTimer(timer)
			timer.Reset(w.debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.dir, err)
		case <-fire:
			fire = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	if err := w.build(ctx); err != nil {
		w.log.Error("Build failed", "error", err)
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

// stopTimer stops t and drains its channel so that it can be reset.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
