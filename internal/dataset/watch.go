package dataset

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reload is the outcome of re-reading a watched dataset file.
type Reload struct {
	Dataset *Dataset
	Err     error
}

// Watcher reloads a dataset file whenever it changes on disk. Bursts of
// events within the debounce window collapse into one reload.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      *zap.Logger
	out      chan Reload
	done     chan struct{}
	running  bool
}

func NewWatcher(path string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: debounce,
		log:      log,
		out:      make(chan Reload, 1),
		done:     make(chan struct{}),
	}, nil
}

// Reloads delivers reload results. Only the latest pending result is kept.
func (w *Watcher) Reloads() <-chan Reload { return w.out }

// Start watches the file's directory, so editors that replace the file on
// save are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	go w.run(ctx)
	w.log.Debug("watching dataset", zap.String("path", w.path))
	return nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	err := w.watcher.Close()
	if running {
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

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
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("dataset changed", zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("dataset watch error", zap.Error(err))
			w.publish(Reload{Err: err})

		case <-fire:
			fire = nil
			ds, err := Load(w.path)
			if err != nil {
				w.log.Warn("dataset reload failed", zap.Error(err))
			} else {
				w.log.Info("dataset reloaded", zap.Int("frames", ds.Len()))
			}
			w.publish(Reload{Dataset: ds, Err: err})
		}
	}
}

func (w *Watcher) publish(r Reload) {
	for {
		select {
		case w.out <- r:
			return
		default:
		}
		select {
		case <-w.out:
		default:
		}
	}
}
