package journal

import (
	"fmt"
	"os"
	"time"
)

// rotateIfNeeded rotates the active segment when it exceeds the
// configured size, then prunes old rotated segments past the retention
// limit. Rotation renames the active segment; entries are never
// rewritten, so rotated history stays forward-readable. Caller holds
// the lock.
func (l *Log) rotateIfNeeded() error {
	if l.config.RotationSize <= 0 {
		return nil
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("failed to stat journal: %w", err)
	}
	if info.Size() < l.config.RotationSize {
		return nil
	}

	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush before rotation: %w", err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close segment for rotation: %w", err)
	}

	rotated := l.path[:len(l.path)-len(activeName)] + rotatedName(time.Now())
	if err := os.Rename(l.path, rotated); err != nil {
		return fmt.Errorf("failed to rename segment: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open new segment: %w", err)
	}
	l.file = file
	l.writer.Reset(file)

	return l.pruneSegments()
}

// rotatedName builds a segment filename that sorts chronologically.
// Millisecond suffix keeps names unique under rapid rotation.
func rotatedName(now time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s",
		segmentPrefix, now.Format("20060102-150405"), now.Nanosecond()/1e6, segmentSuffix)
}

// pruneSegments removes the oldest rotated segments beyond the
// retention limit. The active segment is never pruned, and in-memory
// entries are unaffected: pruning only limits what survives a reopen.
func (l *Log) pruneSegments() error {
	if l.config.RetainSegments <= 0 {
		return nil
	}

	paths, err := segmentPaths(l.config.Directory)
	if err != nil {
		return err
	}
	// Last element is the active segment.
	rotated := paths[:len(paths)-1]

	excess := len(rotated) - l.config.RetainSegments
	for i := 0; i < excess; i++ {
		if err := os.Remove(rotated[i]); err != nil {
			return fmt.Errorf("failed to prune segment %s: %w", rotated[i], err)
		}
	}
	return nil
}
