package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"renamix/internal/fsys"
	"renamix/internal/journal"
	"renamix/internal/plan"
	"renamix/internal/undo"
)

var (
	undoDryRun bool
	undoYes    bool
)

var undoCmd = &cobra.Command{
	Use:   "undo [entry-id]",
	Short: "Reverse a journaled rename run",
	Long: `Reverses the moves recorded in a journal entry. Without an argument
the most recent entry is undone. The reversal is itself recorded as a
new entry, so an undo can be undone to get back to the state after the
original run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := newOutput()

		log, err := openJournal()
		if err != nil {
			return err
		}
		defer log.Close()

		var target *journal.Entry
		if len(args) == 1 {
			entry, ok := log.Get(journal.EntryID(args[0]))
			if !ok {
				return &undo.TargetNotFoundError{Selector: args[0]}
			}
			target = entry
		} else {
			entry, ok := log.Latest()
			if !ok {
				return &undo.TargetNotFoundError{Selector: "latest"}
			}
			target = entry
		}

		engine := undo.New(fsys.OS{}, log)

		preview, err := engine.Preview(target.ID)
		if err != nil {
			return err
		}
		out.Info("Undoing entry %s (%d moves)", target.ID, len(target.Moves))
		out.PlanPreview(preview)

		if !undoDryRun && !undoYes && !confirm("Undo these changes?") {
			out.Info("Cancelled, nothing renamed")
			return nil
		}

		result, undoErr := engine.UndoEntry(target.ID, undoDryRun)
		if result != nil {
			out.Report(result)
		}
		if undoErr != nil {
			var collision *plan.CollisionError
			if errors.As(undoErr, &collision) {
				return &exitError{code: ExitUndoFailed, err: undoErr}
			}
			return undoErr
		}
		if result.PartialFailure() {
			return errPartialFailure
		}
		return nil
	},
}

func init() {
	undoCmd.Flags().BoolVarP(&undoDryRun, "dry-run", "n", false, "preview only, rename nothing")
	undoCmd.Flags().BoolVarP(&undoYes, "yes", "y", false, "undo without confirmation")

	rootCmd.AddCommand(undoCmd)
}
