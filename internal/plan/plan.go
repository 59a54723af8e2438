// Package plan computes collision-checked rename plans. A plan is a
// pure function of the matcher, the template, and the directory
// listing: building one never mutates the filesystem, which is what
// makes dry-run previews exact.
package plan

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"renamix/internal/compose"
	"renamix/internal/fsys"
	"renamix/internal/pattern"
)

// Mode selects how target names are composed.
type Mode string

const (
	// ModePattern composes targets from capture groups only.
	ModePattern Mode = "pattern"
	// ModeIncrement additionally feeds the reserved counter
	// placeholder from a running number.
	ModeIncrement Mode = "increment"
)

// Item is one file in a plan. Files whose basename did not match the
// expression are kept in the plan with Matched false for preview
// transparency; they are never renamed.
type Item struct {
	Source  fsys.Entry
	Target  string // Full target path; empty when not matched
	Matched bool
}

// Plan is the ordered, collision-checked set of renames for one
// invocation. Order follows the directory listing order.
type Plan struct {
	Dir   string
	Items []Item
}

// MatchedCount returns the number of items scheduled for renaming.
func (p *Plan) MatchedCount() int {
	n := 0
	for _, item := range p.Items {
		if item.Matched {
			n++
		}
	}
	return n
}

// CollisionError reports targets that would collide, either with each
// other or with existing files not scheduled to move away.
type CollisionError struct {
	Targets []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("rename collision on %s", strings.Join(e.Targets, ", "))
}

// Options configures plan building.
type Options struct {
	Mode          Mode
	Start         int  // First counter value in increment mode
	Recursive     bool // Include files in subdirectories
	KeepExtension bool // Re-append the source extension if the target drops it
}

// Builder combines a compiled matcher and template over a file listing.
type Builder struct {
	fs       fsys.FS
	matcher  *pattern.Matcher
	template *compose.Template
	opts     Options
}

// NewBuilder validates the template against the matcher and returns a
// Builder. Named placeholders must correspond to named capture groups
// (the counter placeholder is provided by increment mode instead), and
// the template must not use more positional placeholders than the
// expression has capturing groups. Violations are rejected here, before
// any listing happens.
func NewBuilder(fs fsys.FS, matcher *pattern.Matcher, template *compose.Template, opts Options) (*Builder, error) {
	if opts.Mode == "" {
		opts.Mode = ModePattern
	}
	if opts.Mode == ModeIncrement && opts.Start == 0 {
		opts.Start = 1
	}

	if template.PositionalCount() > matcher.GroupCount() {
		return nil, fmt.Errorf("%w: template %q uses %d positional placeholders but expression has %d capturing groups",
			compose.ErrMissingGroup, template.String(), template.PositionalCount(), matcher.GroupCount())
	}
	for _, name := range template.Names() {
		if name == compose.CounterName && opts.Mode == ModeIncrement {
			continue
		}
		if !matcher.HasGroup(name) {
			return nil, fmt.Errorf("%w: %q is not a named capture group", compose.ErrMissingGroup, name)
		}
	}

	return &Builder{fs: fs, matcher: matcher, template: template, opts: opts}, nil
}

// Build lists candidates under dir, composes a target for every matched
// file, and returns the plan after collision checking. The plan fails
// atomically: a single collision rejects the whole plan and nothing is
// returned.
func (b *Builder) Build(dir string) (*Plan, error) {
	candidates, err := b.matcher.ListCandidates(b.fs, dir, b.opts.Recursive)
	if err != nil {
		return nil, err
	}
	return b.assemble(dir, candidates)
}

// BuildOne builds a single-file plan for entry, subject to the same
// composition and collision rules. Used by watch mode, which processes
// files as they appear.
func (b *Builder) BuildOne(entry fsys.Entry) (*Plan, error) {
	matched, _ := filepath.Match(b.matcher.Glob(), entry.Name)
	if !matched {
		return &Plan{Dir: entry.Dir, Items: []Item{{Source: entry}}}, nil
	}
	return b.assemble(entry.Dir, []fsys.Entry{entry})
}

// assemble composes targets for the candidate list and collision-checks
// the result.
func (b *Builder) assemble(dir string, candidates []fsys.Entry) (*Plan, error) {
	p := &Plan{Dir: dir}
	counter := b.opts.Start

	for _, entry := range candidates {
		captures := b.matcher.Extract(entry.Name)
		if captures == nil {
			p.Items = append(p.Items, Item{Source: entry})
			continue
		}

		named := captures.Named
		if b.opts.Mode == ModeIncrement {
			named = make(map[string]string, len(captures.Named)+1)
			for k, v := range captures.Named {
				named[k] = v
			}
			named[compose.CounterName] = strconv.Itoa(counter)
			counter++
		}

		name, err := b.template.Compose(captures.Positional, named)
		if err != nil {
			return nil, fmt.Errorf("failed to compose target for %s: %w", entry.Name, err)
		}

		name = compose.Sanitize(name)
		if b.opts.KeepExtension {
			if ext := filepath.Ext(entry.Name); ext != "" && !strings.HasSuffix(name, ext) {
				name += ext
			}
		}

		p.Items = append(p.Items, Item{
			Source:  entry,
			Target:  filepath.Join(entry.Dir, name),
			Matched: true,
		})
	}

	if err := b.checkCollisions(p); err != nil {
		return nil, err
	}

	return p, nil
}

// checkCollisions rejects plans where two items share a target, or a
// target coincides with an existing file that is not itself a source in
// this plan.
func (b *Builder) checkCollisions(p *Plan) error {
	targets := make(map[string]int)
	sources := make(map[string]bool)
	for _, item := range p.Items {
		if !item.Matched {
			continue
		}
		targets[item.Target]++
		sources[item.Source.Path] = true
	}

	var colliding []string
	for target, count := range targets {
		if count > 1 {
			colliding = append(colliding, target)
			continue
		}
		if b.fs.Exists(target) && !sources[target] {
			colliding = append(colliding, target)
		}
	}

	if len(colliding) > 0 {
		sort.Strings(colliding)
		return &CollisionError{Targets: colliding}
	}
	return nil
}
