package journal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newEntry builds a test entry with a fresh id.
func newEntry(t *testing.T, kind Kind, moves ...Move) Entry {
	t.Helper()
	id, err := NewEntryID()
	if err != nil {
		t.Fatalf("NewEntryID() error: %v", err)
	}
	return Entry{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Moves:     moves,
	}
}

func TestNewEntryIDFormat(t *testing.T) {
	seen := make(map[EntryID]bool)
	for i := 0; i < 100; i++ {
		id, err := NewEntryID()
		if err != nil {
			t.Fatalf("NewEntryID() error: %v", err)
		}
		if len(id) != 36 {
			t.Fatalf("id %q has length %d, want 36", id, len(id))
		}
		if id[14] != '4' {
			t.Errorf("id %q is not version 4", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestOpenEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer log.Close()

	if log.Len() != 0 {
		t.Errorf("Len() = %d, want 0", log.Len())
	}
	if _, ok := log.Latest(); ok {
		t.Error("Latest() on empty journal should report not found")
	}
}

func TestAppendAndLookup(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer log.Close()

	first := newEntry(t, KindRename, Move{From: "/a/x.txt", To: "/a/y.txt"})
	second := newEntry(t, KindRename, Move{From: "/a/p.txt", To: "/a/q.txt"})

	for _, e := range []Entry{first, second} {
		if err := log.Append(e); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	latest, ok := log.Latest()
	if !ok || latest.ID != second.ID {
		t.Fatalf("Latest() = %v, want entry %s", latest, second.ID)
	}

	got, ok := log.Get(first.ID)
	if !ok {
		t.Fatalf("Get(%s) not found", first.ID)
	}
	if len(got.Moves) != 1 || got.Moves[0].From != "/a/x.txt" {
		t.Errorf("Get() moves = %v, want original moves", got.Moves)
	}

	if _, ok := log.Get("00000000-0000-4000-8000-000000000000"); ok {
		t.Error("Get() of unknown id should report not found")
	}

	list := log.List()
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("List() order wrong: %v", list)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	log, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	entry := newEntry(t, KindRename, Move{From: "/d/old.txt", To: "/d/new.txt"})
	if err := log.Append(entry); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get(entry.ID)
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if got.Kind != KindRename || got.Moves[0].To != "/d/new.txt" {
		t.Errorf("reloaded entry = %+v, want original", got)
	}
	// RFC 3339 round-trip keeps second precision.
	if got.Timestamp.Unix() != entry.Timestamp.Unix() {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, entry.Timestamp)
	}
}

func TestUndoEntryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer log.Close()

	original := newEntry(t, KindRename, Move{From: "/f/a", To: "/f/b"})
	reverse := newEntry(t, KindUndo, Move{From: "/f/b", To: "/f/a"})
	reverse.UndoOf = original.ID

	if err := log.Append(original); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := log.Append(reverse); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, ok := log.Get(reverse.ID)
	if !ok {
		t.Fatal("undo entry not found")
	}
	if got.Kind != KindUndo || got.UndoOf != original.ID {
		t.Errorf("undo entry = %+v, want kind UNDO of %s", got, original.ID)
	}
}

func TestAppendIsAppendOnly(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer log.Close()

	first := newEntry(t, KindRename, Move{From: "/x/1", To: "/x/2"})
	if err := log.Append(first); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	before, err := os.ReadFile(log.Path())
	if err != nil {
		t.Fatalf("failed to read journal file: %v", err)
	}

	second := newEntry(t, KindRename, Move{From: "/x/3", To: "/x/4"})
	if err := log.Append(second); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	after, err := os.ReadFile(log.Path())
	if err != nil {
		t.Fatalf("failed to read journal file: %v", err)
	}

	if !strings.HasPrefix(string(after), string(before)) {
		t.Error("appending rewrote earlier records")
	}
}

func TestCorruptRecordRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, activeName)
	if err := os.WriteFile(path, []byte("{not json\n"), 0644); err != nil {
		t.Fatalf("failed to write corrupt journal: %v", err)
	}

	if _, err := Open(Config{Directory: dir}); err == nil {
		t.Fatal("Open() should fail on corrupt journal")
	}
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	// Tiny rotation size so every entry rotates the segment.
	log, err := Open(Config{Directory: dir, RotationSize: 1})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	var ids []EntryID
	for i := 0; i < 3; i++ {
		entry := newEntry(t, KindRename, Move{From: "/r/a", To: "/r/b"})
		if err := log.Append(entry); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
		ids = append(ids, entry.ID)
		// Rotated names carry second precision; keep them distinct.
		time.Sleep(5 * time.Millisecond)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	segments, err := filepath.Glob(filepath.Join(dir, segmentPrefix+"*"))
	if err != nil {
		t.Fatalf("glob error: %v", err)
	}
	if len(segments) == 0 {
		t.Fatal("expected rotated segments")
	}

	// All entries must still be readable across segments, in order.
	reopened, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	list := reopened.List()
	if len(list) != len(ids) {
		t.Fatalf("got %d entries after rotation, want %d", len(list), len(ids))
	}
	for i, id := range ids {
		if list[i].ID != id {
			t.Errorf("entry %d = %s, want %s (chronological order)", i, list[i].ID, id)
		}
	}
}

func TestRetentionPrunesOldSegments(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(Config{Directory: dir, RotationSize: 1, RetainSegments: 1})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	for i := 0; i < 4; i++ {
		entry := newEntry(t, KindRename, Move{From: "/r/a", To: "/r/b"})
		if err := log.Append(entry); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	segments, err := filepath.Glob(filepath.Join(dir, segmentPrefix+"*"))
	if err != nil {
		t.Fatalf("glob error: %v", err)
	}
	if len(segments) > 1 {
		t.Errorf("got %d rotated segments, want at most 1", len(segments))
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "journal")
	log, err := Open(Config{Directory: dir})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer log.Close()

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		t.Error("journal directory was not created")
	}
}
