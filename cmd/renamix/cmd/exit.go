package cmd

import (
	"errors"

	"renamix/internal/compose"
	"renamix/internal/config"
	"renamix/internal/pattern"
	"renamix/internal/plan"
	"renamix/internal/undo"
)

// Exit codes reported by the binary.
const (
	// ExitSuccess: all items applied, or dry-run completed.
	ExitSuccess = 0
	// ExitPartialFailure: some items failed during apply.
	ExitPartialFailure = 1
	// ExitPlanRejected: collision or compile error, nothing applied.
	ExitPlanRejected = 2
	// ExitUndoFailed: nothing to undo, or undo preconditions violated.
	ExitUndoFailed = 3
)

// errPartialFailure marks a run where some moves failed but others
// were applied.
var errPartialFailure = errors.New("some files could not be renamed")

// exitError forces a specific exit code for a wrapped error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var forced *exitError
	if errors.As(err, &forced) {
		return forced.code
	}

	var collision *plan.CollisionError
	var invalidJob *config.ValidationError
	var notFound *undo.TargetNotFoundError
	switch {
	case errors.As(err, &notFound):
		return ExitUndoFailed
	case errors.As(err, &collision),
		errors.As(err, &invalidJob),
		errors.Is(err, pattern.ErrInvalidGlob),
		errors.Is(err, pattern.ErrInvalidRegex),
		errors.Is(err, compose.ErrMissingGroup),
		errors.Is(err, compose.ErrMalformedPlaceholder):
		return ExitPlanRejected
	default:
		return ExitPartialFailure
	}
}
