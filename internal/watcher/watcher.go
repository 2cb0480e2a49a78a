// Package watcher emits debounced change events for the active exercise
// file. It watches the parent directory, since editors that save via
// rename replace the inode the file path points at.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher coalesces bursts of filesystem notifications for a single
// file into one Changed event per debounce window.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration

	changed chan struct{}
	errs    chan error
	done    chan struct{}

	mu     sync.Mutex
	path   string
	dir    string
	closed bool
}

// New starts watching path. debounce bounds how often Changed fires.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fs,
		debounce: debounce,
		changed:  make(chan struct{}, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	if err := w.watch(path); err != nil {
		fs.Close()
		return nil, err
	}
	go w.loop()
	return w, nil
}

// Changed delivers at most one event per debounce window. The channel
// has capacity one; an unconsumed event absorbs later ones.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Errors surfaces backend failures. The session controller logs them
// and disables watching; they are never fatal.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Rewatch switches to a new exercise file, dropping the old
// subscription.
func (w *Watcher) Rewatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	oldDir := w.dir
	if err := w.watchLocked(path); err != nil {
		return err
	}
	if oldDir != "" && oldDir != w.dir {
		_ = w.fs.Remove(oldDir)
	}
	return nil
}

func (w *Watcher) watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watchLocked(path)
}

func (w *Watcher) watchLocked(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.path = abs
	w.dir = dir
	return nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}
			// Burst in progress: the pending timer coalesces it.
		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	w.mu.Lock()
	path := w.path
	w.mu.Unlock()
	if ev.Name != path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
