// Package undo reverses journal entries. A reverse plan swaps each
// recorded move's endpoints while preserving order and is executed with
// the same best-effort semantics as a forward plan; the resulting
// journal entry records the reversal, so undo is itself undoable.
package undo

import (
	"fmt"
	"path/filepath"

	"renamix/internal/executor"
	"renamix/internal/fsys"
	"renamix/internal/journal"
	"renamix/internal/plan"
)

// TargetNotFoundError indicates no journal entry matched the selector.
type TargetNotFoundError struct {
	Selector string // Entry id, or "latest"
}

func (e *TargetNotFoundError) Error() string {
	if e.Selector == "latest" {
		return "nothing to undo: journal is empty"
	}
	return fmt.Sprintf("no journal entry with id %s", e.Selector)
}

// Engine reverses applied plans recorded in a journal.
type Engine struct {
	fs   fsys.FS
	log  *journal.Log
	exec *executor.Executor
}

// New creates an undo Engine bound to a journal.
func New(fs fsys.FS, log *journal.Log) *Engine {
	return &Engine{fs: fs, log: log, exec: executor.New(fs, log)}
}

// UndoLatest reverses the most recent journal entry. Undo entries are
// eligible too: undoing an undo restores the state after the original
// apply.
func (e *Engine) UndoLatest(dryRun bool) (*executor.Result, error) {
	entry, ok := e.log.Latest()
	if !ok {
		return nil, &TargetNotFoundError{Selector: "latest"}
	}
	return e.undo(entry, dryRun)
}

// UndoEntry reverses the journal entry with the given id.
func (e *Engine) UndoEntry(id journal.EntryID, dryRun bool) (*executor.Result, error) {
	entry, ok := e.log.Get(id)
	if !ok {
		return nil, &TargetNotFoundError{Selector: string(id)}
	}
	return e.undo(entry, dryRun)
}

// Preview returns the reverse plan for an entry without executing it.
func (e *Engine) Preview(id journal.EntryID) (*plan.Plan, error) {
	entry, ok := e.log.Get(id)
	if !ok {
		return nil, &TargetNotFoundError{Selector: string(id)}
	}
	return e.reversePlan(entry), nil
}

// undo verifies preconditions, then executes the reverse plan in apply
// mode with an UNDO journal entry.
func (e *Engine) undo(entry *journal.Entry, dryRun bool) (*executor.Result, error) {
	reverse := e.reversePlan(entry)

	if err := e.checkPreconditions(reverse); err != nil {
		return nil, err
	}

	meta := executor.EntryMeta{Kind: journal.KindUndo, UndoOf: entry.ID}
	return e.exec.ApplyWithMeta(reverse, dryRun, meta)
}

// reversePlan swaps the endpoints of each recorded move, preserving the
// recorded order.
func (e *Engine) reversePlan(entry *journal.Entry) *plan.Plan {
	p := &plan.Plan{}
	for _, move := range entry.Moves {
		p.Items = append(p.Items, plan.Item{
			Source: fsys.Entry{
				Name: filepath.Base(move.To),
				Path: move.To,
				Dir:  filepath.Dir(move.To),
			},
			Target:  move.From,
			Matched: true,
		})
		if p.Dir == "" {
			p.Dir = filepath.Dir(move.To)
		}
	}
	return p
}

// checkPreconditions rejects a reverse plan whose targets are
// duplicated among themselves. Per-item conditions (reverse source
// missing, reverse target occupied) are left to the executor's
// existence re-checks so that one stale item does not block the rest.
func (e *Engine) checkPreconditions(reverse *plan.Plan) error {
	targets := make(map[string]int)
	for _, item := range reverse.Items {
		targets[item.Target]++
	}

	var colliding []string
	for target, count := range targets {
		if count > 1 {
			colliding = append(colliding, target)
		}
	}
	if len(colliding) > 0 {
		return &plan.CollisionError{Targets: colliding}
	}
	return nil
}
