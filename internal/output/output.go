// Package output renders plan previews, execution reports, and journal
// history for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"renamix/internal/executor"
	"renamix/internal/journal"
	"renamix/internal/plan"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	Width     int       // Line width for truncation (0 = no truncation)
}

// DefaultConfig returns a Config with terminal width detection.
func DefaultConfig() Config {
	width := 0
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Width:     width,
	}
}

// Output renders formatted reports.
type Output struct {
	config Config
}

// New creates an Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// Info prints a message to the output writer.
func (o *Output) Info(format string, args ...interface{}) {
	fmt.Fprintf(o.config.Writer, format+"\n", args...)
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.Info(format, args...)
}

// Error prints a message to the error writer.
func (o *Output) Error(format string, args ...interface{}) {
	fmt.Fprintf(o.config.ErrWriter, format+"\n", args...)
}

// PlanPreview prints each plan item as a source -> target line;
// unmatched files are listed as skipped.
func (o *Output) PlanPreview(p *plan.Plan) {
	matched := p.MatchedCount()
	o.Info("Plan: %d of %d files will be renamed", matched, len(p.Items))
	for _, item := range p.Items {
		if item.Matched {
			o.Info("  %s", o.truncate(fmt.Sprintf("%s -> %s", item.Source.Name, filepath.Base(item.Target))))
		} else {
			o.Verbose("  %s (no match, skipped)", item.Source.Name)
		}
	}
}

// Report prints the per-item outcomes of an execution and a summary
// line. Failures go to the error writer so they stand out in scripts.
func (o *Output) Report(result *executor.Result) {
	for _, item := range result.Items {
		switch item.Outcome {
		case executor.OutcomeApplied:
			if result.DryRun {
				o.Info("  would rename %s", o.truncate(fmt.Sprintf("%s -> %s", item.Source, item.Target)))
			} else {
				o.Verbose("  renamed %s", o.truncate(fmt.Sprintf("%s -> %s", item.Source, item.Target)))
			}
		case executor.OutcomeSkipped:
			o.Verbose("  skipped %s: %s", item.Source, item.Reason)
		case executor.OutcomeFailed:
			o.Error("  failed %s: %s", o.truncate(item.Source), item.Reason)
		}
	}

	if result.DryRun {
		o.Info("Dry run: %d renames previewed, nothing changed", result.Applied)
		return
	}
	o.Info("Renamed %d files (%d skipped, %d failed)", result.Applied, result.Skipped, result.Failed)
	if result.EntryID != "" {
		o.Info("Recorded as journal entry %s", result.EntryID)
	}
}

// History prints journal entries newest first, with a short preview of
// each entry's moves.
func (o *Output) History(entries []journal.Entry) {
	if len(entries) == 0 {
		o.Info("Journal is empty")
		return
	}

	const previewMoves = 3
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		kind := string(entry.Kind)
		if entry.Kind == journal.KindUndo {
			kind = fmt.Sprintf("%s of %s", entry.Kind, entry.UndoOf)
		}
		o.Info("%s  %s  %s  %d moves",
			entry.ID, entry.Timestamp.Local().Format("2006-01-02 15:04:05"), kind, len(entry.Moves))

		for j, move := range entry.Moves {
			if j == previewMoves {
				o.Info("    ...")
				break
			}
			o.Info("    %s", o.truncate(fmt.Sprintf("%s -> %s", filepath.Base(move.From), filepath.Base(move.To))))
		}
	}
}

// truncate shortens a line to the configured terminal width.
func (o *Output) truncate(s string) string {
	if o.config.Width <= 3 || len(s) <= o.config.Width {
		return s
	}
	return s[:o.config.Width-3] + "..."
}
