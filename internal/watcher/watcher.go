// Package watcher monitors a directory and renames files as they
// appear, using the same plan/apply pipeline as a one-shot run. Events
// are debounced and a file must be size-stable before it is handled, so
// files still being written are left alone.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains watcher settings.
type Config struct {
	Debounce       time.Duration // Quiet period before a file is handled
	StableFor      time.Duration // Size must be unchanged for this long
	IgnorePatterns []string      // Glob patterns never handled
}

// DefaultConfig returns watcher settings suitable for download-style
// directories.
func DefaultConfig() Config {
	return Config{
		Debounce:       2 * time.Second,
		StableFor:      time.Second,
		IgnorePatterns: defaultIgnorePatterns(),
	}
}

// Handler processes one settled file. It reports whether the file was
// renamed; errors are counted and watching continues.
type Handler func(path string) (renamed bool, err error)

// Summary contains counters from a watch session.
type Summary struct {
	Renamed  int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// Watcher monitors a directory for new files.
type Watcher struct {
	config    Config
	handler   Handler
	fsWatcher *fsnotify.Watcher
	debouncer *debouncer
	stability *stabilityChecker
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu      sync.Mutex
	renamed int
	skipped int
	errors  int
}

// New creates a Watcher that passes settled files to handler.
func New(config Config, handler Handler) *Watcher {
	w := &Watcher{
		config:    config,
		handler:   handler,
		stability: newStabilityChecker(config.StableFor),
		done:      make(chan struct{}),
	}
	w.debouncer = newDebouncer(config.Debounce, w.handleSettled)
	return w
}

// Start begins watching dir. The watcher runs until Stop is called.
func (w *Watcher) Start(dir string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsWatcher.Close()
		return err
	}
	if err := fsWatcher.Add(absDir); err != nil {
		fsWatcher.Close()
		return err
	}

	w.fsWatcher = fsWatcher
	w.startTime = time.Now()

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts the watcher down and returns the session summary.
func (w *Watcher) Stop() *Summary {
	close(w.done)
	w.wg.Wait()
	w.debouncer.cancelAll()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &Summary{
		Renamed:  w.renamed,
		Skipped:  w.skipped,
		Errors:   w.errors,
		Duration: time.Since(w.startTime),
	}
}

// processEvents consumes fsnotify events until Stop.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if shouldIgnore(event.Name, w.config.IgnorePatterns) {
					continue
				}
				w.debouncer.add(event.Name)
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.errors++
			w.mu.Unlock()
		}
	}
}

// handleSettled runs after the debounce delay: wait for the file size
// to stabilize, then invoke the handler.
func (w *Watcher) handleSettled(path string) {
	if err := w.stability.waitForStable(path); err != nil {
		// File vanished or never settled; either way there is nothing
		// safe to rename.
		w.mu.Lock()
		w.skipped++
		w.mu.Unlock()
		return
	}

	renamed, err := w.handler(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case err != nil:
		w.errors++
	case renamed:
		w.renamed++
	default:
		w.skipped++
	}
}
