package workflow

import (
	"fmt"

	"github.com/floodrelief/rescue-console/rescue"
)

// Validation codes surfaced inline in dialogs. These never reach the
// network layer.
const (
	CodeEmptySelection  = "EmptySelection"
	CodeMissingReason   = "MissingReason"
	CodeMissingNote     = "MissingNote"
	CodeMissingPriority = "MissingPriority"
	CodeBadTeamCount    = "BadTeamCount"
	CodePriorityFrozen  = "PriorityFrozen"
	CodeCancelViaReview = "CancelViaReview"
)

// ValidationError reports locally rejected operator input.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(field, code, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}

// TransitionError reports a status transition the graph does not admit.
type TransitionError struct {
	From   rescue.Status
	To     rescue.Status
	Action Action
}

func (e *TransitionError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
	}
	return fmt.Sprintf("action %s not allowed in status %s", e.Action, e.From)
}
