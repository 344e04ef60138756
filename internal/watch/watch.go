// Package watch triggers rebuilds while developing: filesystem events on the
// content tree (debounced) and an optional periodic full rebuild so
// time-dependent filters stay fresh.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Watcher monitors the content tree and invokes the rebuild callback.
type Watcher struct {
	root     string
	cfg      config.WatchConfig
	watcher  *fsnotify.Watcher
	rebuild  func(ctx context.Context)
	trigger  chan struct{}
	schedule gocron.Scheduler
}

// New creates a watcher over root. rebuild runs on the watcher goroutine;
// it must not be shared with another concurrent build.
func New(root string, cfg config.WatchConfig, rebuild func(ctx context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:    root,
		cfg:     cfg,
		watcher: fsw,
		rebuild: rebuild,
		trigger: make(chan struct{}, 1),
	}, nil
}

// Run blocks until ctx is canceled, rebuilding after debounced file events
// and, when configured, on the periodic schedule.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	if w.cfg.RebuildEvery > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(w.cfg.RebuildEvery),
			gocron.NewTask(func() { w.fire() }),
		)
		if err != nil {
			return err
		}
		scheduler.Start()
		w.schedule = scheduler
		defer func() { _ = scheduler.Shutdown() }()
	}

	slog.Info("Watching content tree", logfields.Path(w.root))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories must be watched as they appear.
				if err := w.addRecursive(event.Name); err != nil {
					slog.Debug("Failed to watch new path", logfields.Path(event.Name), logfields.Error(err))
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))

		case <-timerC:
			timerC = nil
			w.rebuild(ctx)

		case <-w.trigger:
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// addRecursive watches a directory and all its subdirectories. Watching the
// directories (rather than individual files) survives editor rename-on-save.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}
