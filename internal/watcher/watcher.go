// Package watcher provides file system watching with debouncing for the
// directories that feed application discovery. A change to an application
// registration (a desktop file appearing, an install directory changing)
// signals that cached discovery results are stale.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors registration directories and sends a signal when their
// contents change.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	dirs       []string
	extensions []string
	debounce   time.Duration
	onChange   chan struct{}
	done       chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Dirs are the directories to watch. Missing directories are skipped.
	Dirs []string

	// Extensions limits which file changes count as relevant. Empty means
	// every change counts.
	Extensions []string

	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(dirs []string) Config {
	return Config{
		Dirs:        dirs,
		Extensions:  []string{".desktop", ".app", ".exe", ".lnk"},
		DebounceDur: 2 * time.Second,
	}
}

// New creates a new discovery watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher:  fsw,
		dirs:       cfg.Dirs,
		extensions: cfg.Extensions,
		debounce:   cfg.DebounceDur,
		onChange:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching the configured directories.
// Returns a channel that receives a signal when a registration changes.
// At least one directory must be watchable.
func (w *Watcher) Start() (<-chan struct{}, error) {
	watched := 0
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			// Missing or unreadable directories are normal: not every
			// search dir exists on every machine.
			continue
		}
		watched++
	}
	if watched == 0 {
		return nil, fmt.Errorf("no watchable directories among %d configured", len(w.dirs))
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching on transient errors. Callers wanting error
			// visibility can wrap the watcher.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should mark discovery caches stale.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, relevant := range w.extensions {
		if ext == relevant {
			return true
		}
	}
	return false
}
