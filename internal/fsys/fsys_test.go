package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListSortedRegularFilesOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	entries, err := OS{}.List(dir, false)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		e := entries[i]
		if e.Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, e.Name, name)
		}
		if e.Path != filepath.Join(dir, name) || e.Dir != dir {
			t.Errorf("entries[%d] = %+v, want path under %s", i, e, dir)
		}
	}
}

func TestListRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "inner")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}
	for _, path := range []string{filepath.Join(dir, "top.txt"), filepath.Join(sub, "deep.txt")} {
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	entries, err := OS{}.List(dir, true)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	var found bool
	for _, e := range entries {
		if e.Name == "deep.txt" && e.Dir == sub {
			found = true
		}
	}
	if !found {
		t.Errorf("nested file missing from recursive listing: %v", entries)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	fs := OS{}
	if !fs.Exists(path) {
		t.Error("Exists() = false for present file")
	}
	if fs.Exists(filepath.Join(dir, "absent.txt")) {
		t.Error("Exists() = true for absent file")
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "old.txt")
	to := filepath.Join(dir, "new.txt")
	if err := os.WriteFile(from, []byte("payload"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if err := (OS{}).Move(from, to); err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	content, err := os.ReadFile(to)
	if err != nil {
		t.Fatalf("moved file unreadable: %v", err)
	}
	if string(content) != "payload" {
		t.Errorf("content = %q, want payload", content)
	}
	if _, err := os.Stat(from); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
}
