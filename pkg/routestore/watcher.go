package routestore

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jsonecho/jsonecho/pkg/config"
	"github.com/jsonecho/jsonecho/pkg/logging"
)

// DefaultDebounce coalesces the bursts of filesystem events editors
// emit for a single save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads the configuration when its file changes and swaps
// the rebuilt store into a Handle. A failed reload keeps the previous
// store serving; the error is logged, not fatal.
type Watcher struct {
	handle   *Handle
	loader   *config.Loader
	path     string
	debounce time.Duration
	log      *slog.Logger

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the configuration file at path.
// Start must be called before any reloads happen.
func NewWatcher(handle *Handle, loader *config.Loader, path string) *Watcher {
	return &Watcher{
		handle:   handle,
		loader:   loader,
		path:     path,
		debounce: DefaultDebounce,
		log:      logging.Nop(),
	}
}

// SetLogger sets the logger.
func (w *Watcher) SetLogger(log *slog.Logger) {
	if log != nil {
		w.log = log
	}
}

// Start begins watching. The containing directory is watched rather
// than the file itself so atomic rename-over saves keep triggering
// events.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	full := w.loader.Resolver().Resolve(w.path)
	if err := fw.Add(filepath.Dir(full)); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.run(filepath.Base(full))

	w.log.Info("watching configuration", "path", full, "debounce", w.debounce)
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh
	return err
}

func (w *Watcher) run(base string) {
	defer close(w.doneCh)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-timerC:
			timerC = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(evt, base) {
				resetTimer()
			}
		}
	}
}

// relevant filters directory events down to ones touching the watched
// configuration file.
func (w *Watcher) relevant(evt fsnotify.Event, base string) bool {
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(evt.Name) == base
}

// reload loads a fresh configuration, builds a new store, and swaps it
// in. On failure the old store stays; serving stale configuration is a
// caller policy, not a crash.
func (w *Watcher) reload() {
	cfg, err := w.loader.Load(context.Background(), w.path)
	if err != nil {
		w.log.Warn("reload failed, keeping previous routes", "path", w.path, "error", err)
		return
	}

	next := New()
	if err := next.Populate(cfg.Routes); err != nil {
		w.log.Warn("reload failed, keeping previous routes", "path", w.path, "error", err)
		return
	}

	w.handle.Swap(next)
	w.log.Info("configuration reloaded", "path", w.path, "routes", next.Len())
}
