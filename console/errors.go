package console

import (
	"errors"
	"fmt"

	"github.com/floodrelief/rescue-console/rescue"
)

var (
	// ErrSubmitInFlight guards against duplicate submissions while a
	// dialog's own mutation is still pending.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrNoDialog is returned when submit is called without an open dialog.
	ErrNoDialog = errors.New("no open dialog")
)

// ListFetchError wraps a failed list fetch. The view renders it as an
// inline retry affordance in place of the table; the rest of the screen
// stays interactive.
type ListFetchError struct {
	Err error
}

func (e *ListFetchError) Error() string {
	return fmt.Sprintf("list fetch failed: %v", e.Err)
}

func (e *ListFetchError) Unwrap() error { return e.Err }

// ChainError reports a completion chain that failed after earlier steps
// already committed. Status is the record's current, intermediate status; a
// retry resumes from there, never from the original status.
type ChainError struct {
	Completed int
	Status    rescue.Status
	Err       error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("completion stopped after %d step(s), request is now %s: %v",
		e.Completed, e.Status, e.Err)
}

func (e *ChainError) Unwrap() error { return e.Err }
