package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestDebouncerCoalescesRapidEvents(t *testing.T) {
	var mu sync.Mutex
	calls := make(map[string]int)

	d := newDebouncer(50*time.Millisecond, func(path string) {
		mu.Lock()
		calls[path]++
		mu.Unlock()
	})

	// A burst of events for the same path yields a single callback.
	for i := 0; i < 5; i++ {
		d.add("/watch/burst.txt")
		time.Sleep(5 * time.Millisecond)
	}
	d.add("/watch/other.txt")

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls["/watch/burst.txt"] != 1 {
		t.Errorf("burst path got %d callbacks, want 1", calls["/watch/burst.txt"])
	}
	if calls["/watch/other.txt"] != 1 {
		t.Errorf("other path got %d callbacks, want 1", calls["/watch/other.txt"])
	}
	if d.pendingCount() != 0 {
		t.Errorf("pendingCount() = %d after settle, want 0", d.pendingCount())
	}
}

func TestDebouncerCancelAll(t *testing.T) {
	var mu sync.Mutex
	fired := 0

	d := newDebouncer(100*time.Millisecond, func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	d.add("/watch/a.txt")
	d.add("/watch/b.txt")
	if d.pendingCount() != 2 {
		t.Fatalf("pendingCount() = %d, want 2", d.pendingCount())
	}

	d.cancelAll()
	if d.pendingCount() != 0 {
		t.Errorf("pendingCount() = %d after cancelAll, want 0", d.pendingCount())
	}

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Errorf("cancelled timers fired %d callbacks", fired)
	}
}

func TestShouldIgnore(t *testing.T) {
	patterns := defaultIgnorePatterns()

	tests := []struct {
		path string
		want bool
	}{
		{"/downloads/movie.mp4.part", true},
		{"/downloads/setup.crdownload", true},
		{"/downloads/.~lock.report.odt", true},
		{"/downloads/cache.tmp", true},
		{"/downloads/report.pdf", false},
		{"/downloads/partial-results.csv", false},
	}

	for _, tt := range tests {
		if got := shouldIgnore(tt.path, patterns); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWaitForStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settled.bin")
	if err := os.WriteFile(path, []byte("done"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	s := newStabilityChecker(100 * time.Millisecond)
	if err := s.waitForStable(path); err != nil {
		t.Errorf("waitForStable() on settled file: %v", err)
	}
}

func TestWaitForStableMissingFile(t *testing.T) {
	s := newStabilityChecker(50 * time.Millisecond)
	if err := s.waitForStable(filepath.Join(t.TempDir(), "absent.bin")); err == nil {
		t.Error("waitForStable() should fail on a missing file")
	}
}

func TestWatcherHandlesNewFile(t *testing.T) {
	dir := t.TempDir()

	handled := make(chan string, 1)
	w := New(Config{
		Debounce:       30 * time.Millisecond,
		StableFor:      30 * time.Millisecond,
		IgnorePatterns: defaultIgnorePatterns(),
	}, func(path string) (bool, error) {
		handled <- path
		return true, nil
	})

	if err := w.Start(dir); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	path := filepath.Join(dir, "incoming.txt")
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	select {
	case got := <-handled:
		if got != path {
			t.Errorf("handler got %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked for new file")
	}

	// Give the counter update behind the handler a moment to land.
	time.Sleep(100 * time.Millisecond)

	summary := w.Stop()
	if summary.Renamed != 1 {
		t.Errorf("Renamed = %d, want 1", summary.Renamed)
	}
}

func TestWatcherIgnoresTemporaryFiles(t *testing.T) {
	dir := t.TempDir()

	handled := make(chan string, 1)
	w := New(Config{
		Debounce:       30 * time.Millisecond,
		StableFor:      30 * time.Millisecond,
		IgnorePatterns: defaultIgnorePatterns(),
	}, func(path string) (bool, error) {
		handled <- path
		return true, nil
	})

	if err := w.Start(dir); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "download.part"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	select {
	case got := <-handled:
		t.Errorf("handler invoked for ignored file %q", got)
	case <-time.After(500 * time.Millisecond):
	}
}
