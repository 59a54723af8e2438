package watcher

import "path/filepath"

// defaultIgnorePatterns lists temporary-file shapes produced by
// browsers and download managers.
func defaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.partial",
		"*.download",
		"*.crdownload",
		".~*",
	}
}

// shouldIgnore reports whether the basename of path matches any of the
// ignore patterns.
func shouldIgnore(path string, patterns []string) bool {
	name := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}
