// Package pattern compiles the glob and regular expression pair that
// selects and dissects filenames for renaming.
package pattern

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"renamix/internal/fsys"
)

// ErrInvalidGlob indicates the glob pattern could not be compiled.
var ErrInvalidGlob = errors.New("invalid glob pattern")

// ErrInvalidRegex indicates the regular expression could not be compiled.
var ErrInvalidRegex = errors.New("invalid regular expression")

// Spec is the raw matcher input before compilation.
type Spec struct {
	Glob  string // Shell-style pattern filtering the directory listing
	Regex string // Expression extracting capture groups from the basename
}

// Captures holds the substrings a matcher extracted from a basename.
// Positional follows standard group numbering: capturing groups only,
// ordered by opening parenthesis. Named maps each named group to its
// captured text.
type Captures struct {
	Positional []string
	Named      map[string]string
}

// Matcher is a compiled glob + regex pair. Compile fails fast on
// malformed inputs; a compiled Matcher never fails at extract time.
type Matcher struct {
	glob string
	re   *regexp.Regexp
}

// Compile builds a Matcher from a glob and a regex source. An empty
// glob means match everything. The regex is applied to basenames only
// and is not implicitly anchored.
func Compile(spec Spec) (*Matcher, error) {
	glob := spec.Glob
	if glob == "" {
		glob = "*"
	}
	if _, err := filepath.Match(glob, "probe"); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGlob, glob)
	}

	re, err := regexp.Compile(spec.Regex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegex, err)
	}

	return &Matcher{glob: glob, re: re}, nil
}

// Glob returns the compiled glob pattern.
func (m *Matcher) Glob() string {
	return m.glob
}

// GroupCount returns the number of capturing groups in the regex.
func (m *Matcher) GroupCount() int {
	return m.re.NumSubexp()
}

// HasGroup reports whether the regex defines a named capture group.
func (m *Matcher) HasGroup(name string) bool {
	for _, n := range m.re.SubexpNames() {
		if n != "" && n == name {
			return true
		}
	}
	return false
}

// ListCandidates lists files under dir whose basename matches the glob.
// Order is the listing order of fs (lexicographic by path), which makes
// plans built from the result reproducible.
func (m *Matcher) ListCandidates(fs fsys.FS, dir string, recursive bool) ([]fsys.Entry, error) {
	entries, err := fs.List(dir, recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var candidates []fsys.Entry
	for _, entry := range entries {
		// Pattern validity was checked at compile time.
		matched, _ := filepath.Match(m.glob, entry.Name)
		if matched {
			candidates = append(candidates, entry)
		}
	}

	return candidates, nil
}

// Extract runs the regex against a basename and returns the captured
// groups, or nil if the name does not match. The search is unanchored:
// anchoring is up to the expression itself.
func (m *Matcher) Extract(baseName string) *Captures {
	sub := m.re.FindStringSubmatch(baseName)
	if sub == nil {
		return nil
	}

	captures := &Captures{
		Positional: sub[1:],
		Named:      make(map[string]string),
	}
	for i, name := range m.re.SubexpNames() {
		if i > 0 && name != "" {
			captures.Named[name] = sub[i]
		}
	}

	return captures
}
