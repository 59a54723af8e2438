package watcher

import (
	"errors"
	"os"
	"time"
)

// errUnstable is returned when a file keeps changing size past the
// wait timeout.
var errUnstable = errors.New("file did not stabilize within timeout")

// stabilityChecker waits for a file's size to stop changing, which is
// the cheapest usable signal that a writer has finished.
type stabilityChecker struct {
	threshold time.Duration // Size must be unchanged for this long
	timeout   time.Duration // Give up after this long
	interval  time.Duration // Polling interval
}

func newStabilityChecker(threshold time.Duration) *stabilityChecker {
	interval := threshold / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &stabilityChecker{
		threshold: threshold,
		timeout:   30 * time.Second,
		interval:  interval,
	}
}

// waitForStable blocks until the file size has been unchanged for the
// threshold duration. It returns an error if the file disappears or
// never settles within the timeout.
func (s *stabilityChecker) waitForStable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastSize := info.Size()
	lastChange := time.Now()
	deadline := time.Now().Add(s.timeout)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		if time.Now().After(deadline) {
			return errUnstable
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.Size() != lastSize {
			lastSize = info.Size()
			lastChange = time.Now()
		} else if time.Since(lastChange) >= s.threshold {
			return nil
		}
	}
	return nil
}
