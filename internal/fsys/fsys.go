// Package fsys defines the filesystem capability consumed by planning
// and execution. Everything above it takes the interface, so tests and
// previews can observe or substitute the real filesystem.
package fsys

import (
	"os"
	"path/filepath"
	"sort"
)

// Entry represents a regular file found in a directory listing.
type Entry struct {
	Name string // Filename only
	Path string // Full path (directory joined with name)
	Dir  string // Directory containing the file
}

// FS is the set of filesystem primitives the rename engine needs.
type FS interface {
	// List enumerates regular files under dir. With recursive set it
	// descends into subdirectories. The result is ordered
	// lexicographically by full path so callers get reproducible plans.
	List(dir string, recursive bool) ([]Entry, error)

	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool

	// Move renames a file from one path to another.
	Move(from, to string) error
}

// OS implements FS over the local filesystem.
type OS struct{}

// List enumerates regular files under dir, sorted lexicographically by path.
// Symlinks and subdirectory entries themselves are excluded.
func (OS) List(dir string, recursive bool) ([]Entry, error) {
	var files []Entry

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			files = append(files, Entry{
				Name: d.Name(),
				Path: path,
				Dir:  filepath.Dir(path),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !entry.Type().IsRegular() {
				continue
			}
			files = append(files, Entry{
				Name: entry.Name(),
				Path: filepath.Join(dir, entry.Name()),
				Dir:  dir,
			})
		}
	}

	// WalkDir and ReadDir both yield lexical order already; sort anyway
	// so the ordering contract does not depend on that detail.
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Exists reports whether path exists.
func (OS) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Move renames from to to. It does not create intermediate directories:
// rename targets always live in the source file's own directory.
func (OS) Move(from, to string) error {
	return os.Rename(from, to)
}
