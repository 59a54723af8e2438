package journal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	activeName    = "renamix-journal.jsonl"
	segmentPrefix = "renamix-journal-"
	segmentSuffix = ".jsonl"
)

// Config holds journal settings.
type Config struct {
	Directory      string // Where journal segments live
	RotationSize   int64  // Rotate the active segment past this size (0 = never)
	RetainSegments int    // Rotated segments to keep (0 = unlimited)
}

// DefaultConfig returns a Config with sensible defaults: journal under
// .renamix in the working directory, 1 MiB rotation, unlimited history.
func DefaultConfig() Config {
	return Config{
		Directory:      ".renamix",
		RotationSize:   1 << 20,
		RetainSegments: 0,
	}
}

// Log is an open journal. It reads all segments into memory on open and
// serves lookups from there; Append flushes and syncs before returning,
// so a crash after Append never loses the record and a crash before it
// leaves the log unchanged.
//
// A Log assumes single-process ownership of its directory for the time
// it is open. Concurrent writers are not coordinated.
type Log struct {
	mu      sync.Mutex
	config  Config
	path    string
	file    *os.File
	writer  *bufio.Writer
	entries []Entry
}

// Open creates the journal directory if needed, loads all existing
// entries, and opens the active segment for appending.
func Open(config Config) (*Log, error) {
	if config.Directory == "" {
		config.Directory = DefaultConfig().Directory
	}
	if err := os.MkdirAll(config.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(config.Directory, activeName)

	entries, err := readAll(config.Directory)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &Log{
		config:  config,
		path:    path,
		file:    file,
		writer:  bufio.NewWriter(file),
		entries: entries,
	}, nil
}

// Append writes an entry durably to the active segment. The entry is
// visible to Latest/Get/List as soon as Append returns.
func (l *Log) Append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := entry.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}
	if err := l.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}
	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal entry: %w", err)
	}

	l.entries = append(l.entries, entry)

	if err := l.rotateIfNeeded(); err != nil {
		return fmt.Errorf("failed to rotate journal: %w", err)
	}

	return nil
}

// Latest returns the most recently appended entry.
func (l *Log) Latest() (*Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return nil, false
	}
	entry := l.entries[len(l.entries)-1]
	return &entry, true
}

// Get returns the entry with the given id.
func (l *Log) Get(id EntryID) (*Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID == id {
			entry := l.entries[i]
			return &entry, true
		}
	}
	return nil, false
}

// List returns all entries, oldest first.
func (l *Log) List() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries in the journal.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Path returns the path of the active journal segment.
func (l *Log) Path() string {
	return l.path
}

// Close flushes buffered data and closes the active segment.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal on close: %w", err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}

// readAll loads every entry from all segments in chronological order:
// rotated segments (named by rotation time) first, then the active
// segment.
func readAll(dir string) ([]Entry, error) {
	paths, err := segmentPaths(dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, path := range paths {
		segment, err := readSegment(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read journal segment %s: %w", path, err)
		}
		entries = append(entries, segment...)
	}
	return entries, nil
}

// segmentPaths returns all journal segment paths in chronological
// order. Rotated segment names sort lexicographically by timestamp.
func segmentPaths(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var rotated []string
	active := ""
	for _, de := range dirEntries {
		name := de.Name()
		switch {
		case name == activeName:
			active = filepath.Join(dir, name)
		case strings.HasPrefix(name, segmentPrefix) && strings.HasSuffix(name, segmentSuffix):
			rotated = append(rotated, filepath.Join(dir, name))
		}
	}
	sort.Strings(rotated)

	if active != "" {
		rotated = append(rotated, active)
	}
	return rotated, nil
}

// readSegment parses one JSONL segment.
func readSegment(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var entry Entry
		if err := entry.UnmarshalJSON([]byte(text)); err != nil {
			return nil, fmt.Errorf("corrupt record at line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
