// Package executor applies rename plans to the filesystem, or simulates
// them for dry-run previews. Application is best-effort per item: a
// failed move is recorded and the remaining items still run. The
// journal entry written afterwards contains exactly the moves that
// succeeded, so undo only ever reverses what truly happened.
package executor

import (
	"fmt"
	"time"

	"renamix/internal/fsys"
	"renamix/internal/journal"
	"renamix/internal/plan"
)

// Outcome classifies the result of one plan item.
type Outcome string

const (
	// OutcomeApplied means the move was performed (or, in dry-run,
	// would be performed).
	OutcomeApplied Outcome = "APPLIED"
	// OutcomeSkipped means no move was needed for this item.
	OutcomeSkipped Outcome = "SKIPPED"
	// OutcomeFailed means the move could not be performed.
	OutcomeFailed Outcome = "FAILED"
)

// ItemResult is the per-item report line of an execution.
type ItemResult struct {
	Source  string
	Target  string
	Outcome Outcome
	Reason  string // Populated for skips and failures
}

// Result is the full report of one execution.
type Result struct {
	DryRun  bool
	Items   []ItemResult
	Applied int
	Skipped int
	Failed  int
	EntryID journal.EntryID // Journal entry written; empty for dry-run or all-failed
}

// PartialFailure reports whether any item failed.
func (r *Result) PartialFailure() bool {
	return r.Failed > 0
}

// LogWriteError wraps a journal write failure that happened after moves
// already succeeded. The moves are real but unrecorded, so they cannot
// be undone through the journal; callers must surface this loudly.
type LogWriteError struct {
	Err error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("renames were applied but could not be recorded in the journal (undo unavailable): %v", e.Err)
}

func (e *LogWriteError) Unwrap() error {
	return e.Err
}

// EntryMeta controls the journal entry written for an execution.
type EntryMeta struct {
	Kind   journal.Kind
	UndoOf journal.EntryID
}

// Executor applies plans through a filesystem capability and records
// applied plans in a journal. The journal handle is explicit rather
// than process-global, so separate directories and test fixtures can
// use isolated logs.
type Executor struct {
	fs  fsys.FS
	log *journal.Log
}

// New creates an Executor. The journal may be nil for callers that only
// ever dry-run.
func New(fs fsys.FS, log *journal.Log) *Executor {
	return &Executor{fs: fs, log: log}
}

// Apply executes a plan's moves in plan order. In dry-run mode nothing
// is mutated and no journal entry is written; outcomes report what
// would happen, including failures detectable by existence checks.
func (e *Executor) Apply(p *plan.Plan, dryRun bool) (*Result, error) {
	return e.ApplyWithMeta(p, dryRun, EntryMeta{Kind: journal.KindRename})
}

// ApplyWithMeta is Apply with control over the journal entry's kind,
// which the undo engine uses to record reverse entries.
func (e *Executor) ApplyWithMeta(p *plan.Plan, dryRun bool, meta EntryMeta) (*Result, error) {
	result := &Result{DryRun: dryRun}
	var applied []journal.Move

	// In dry-run mode moves are simulated against these overlays so
	// that per-item checks see the directory state each move would
	// observe, not the untouched one.
	created := make(map[string]bool)
	removed := make(map[string]bool)
	exists := func(path string) bool {
		if removed[path] {
			return false
		}
		return created[path] || e.fs.Exists(path)
	}

	for _, item := range p.Items {
		if !item.Matched {
			result.Items = append(result.Items, ItemResult{
				Source:  item.Source.Path,
				Outcome: OutcomeSkipped,
				Reason:  "name does not match expression",
			})
			result.Skipped++
			continue
		}

		if item.Target == item.Source.Path {
			result.Items = append(result.Items, ItemResult{
				Source:  item.Source.Path,
				Target:  item.Target,
				Outcome: OutcomeSkipped,
				Reason:  "target identical to source",
			})
			result.Skipped++
			continue
		}

		// Re-check both ends: the directory may have changed between
		// planning and execution, and undo plans are built from
		// historical state.
		if !exists(item.Source.Path) {
			result.Items = append(result.Items, ItemResult{
				Source:  item.Source.Path,
				Target:  item.Target,
				Outcome: OutcomeFailed,
				Reason:  "source no longer exists",
			})
			result.Failed++
			continue
		}
		if exists(item.Target) {
			result.Items = append(result.Items, ItemResult{
				Source:  item.Source.Path,
				Target:  item.Target,
				Outcome: OutcomeFailed,
				Reason:  "target already exists",
			})
			result.Failed++
			continue
		}

		if dryRun {
			removed[item.Source.Path] = true
			created[item.Target] = true
		} else {
			if err := e.fs.Move(item.Source.Path, item.Target); err != nil {
				result.Items = append(result.Items, ItemResult{
					Source:  item.Source.Path,
					Target:  item.Target,
					Outcome: OutcomeFailed,
					Reason:  err.Error(),
				})
				result.Failed++
				continue
			}
			applied = append(applied, journal.Move{From: item.Source.Path, To: item.Target})
		}

		result.Items = append(result.Items, ItemResult{
			Source:  item.Source.Path,
			Target:  item.Target,
			Outcome: OutcomeApplied,
		})
		result.Applied++
	}

	if dryRun || len(applied) == 0 {
		return result, nil
	}

	id, err := journal.NewEntryID()
	if err != nil {
		return result, &LogWriteError{Err: err}
	}
	entry := journal.Entry{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Kind:      meta.Kind,
		UndoOf:    meta.UndoOf,
		Moves:     applied,
	}
	if e.log == nil {
		return result, &LogWriteError{Err: fmt.Errorf("no journal configured")}
	}
	if err := e.log.Append(entry); err != nil {
		return result, &LogWriteError{Err: err}
	}
	result.EntryID = id

	return result, nil
}
