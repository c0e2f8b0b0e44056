package workflow

import (
	"github.com/floodrelief/rescue-console/rescue"
)

// ReviewPayload is the body of PATCH /rescue-requests/{id}/review. Priority
// and RequiredTeams are omitted where the transition does not carry them.
type ReviewPayload struct {
	Status        rescue.Status   `json:"status"`
	Priority      rescue.Priority `json:"priority,omitempty"`
	Note          string          `json:"note"`
	RequiredTeams int             `json:"requiredTeams,omitempty"`
}

// CancelPayload is the body of the dedicated cancel mutation. The backend
// keeps this shape separate from review; the two must not be conflated.
type CancelPayload struct {
	Reason string `json:"reason"`
}

// AssignPayload is the body of POST /rescue-requests/{id}/assign.
type AssignPayload struct {
	TeamIDs []string `json:"teamIds"`
}

// ReviewInput is the operator input collected by a review dialog.
type ReviewInput struct {
	Priority      rescue.Priority
	Note          string
	RequiredTeams int
}

// BuildReviewPayload validates operator input for a review transition and
// constructs the outbound payload. CANCELED is never a legal review target;
// use BuildCancelPayload, which routes to the dedicated cancel contract.
func (e Engine) BuildReviewPayload(from, target rescue.Status, in ReviewInput) (ReviewPayload, error) {
	if target == rescue.StatusCanceled {
		return ReviewPayload{}, invalid("status", CodeCancelViaReview,
			"cancellation uses the cancel contract, not review")
	}
	if !e.CanReview(from, target) {
		return ReviewPayload{}, &TransitionError{From: from, To: target, Action: ActionReview}
	}
	if in.Note == "" {
		return ReviewPayload{}, invalid("note", CodeMissingNote, "note is required")
	}

	p := ReviewPayload{Status: target, Note: in.Note}
	switch target {
	case rescue.StatusReviewed:
		if in.Priority == "" {
			return ReviewPayload{}, invalid("priority", CodeMissingPriority, "priority is required")
		}
		if in.RequiredTeams == 0 {
			in.RequiredTeams = 1
		}
		if in.RequiredTeams < 1 {
			return ReviewPayload{}, invalid("requiredTeams", CodeBadTeamCount,
				"required team count must be positive")
		}
		p.Priority = in.Priority
		p.RequiredTeams = in.RequiredTeams
	case rescue.StatusRejected, rescue.StatusAccepted:
		// note only
	case rescue.StatusInProgress:
		if in.Priority == "" {
			return ReviewPayload{}, invalid("priority", CodeMissingPriority, "priority is required")
		}
		p.Priority = in.Priority
	case rescue.StatusDone:
		// Priority freezes once a request is IN_PROGRESS.
		if from == rescue.StatusInProgress {
			if in.Priority != "" {
				return ReviewPayload{}, invalid("priority", CodePriorityFrozen,
					"priority can no longer be changed")
			}
		} else {
			if in.Priority == "" {
				return ReviewPayload{}, invalid("priority", CodeMissingPriority, "priority is required")
			}
			p.Priority = in.Priority
		}
	}
	return p, nil
}

// BuildCancelPayload validates a cancellation and constructs its payload.
// Cancel is available from every non-terminal status.
func (Engine) BuildCancelPayload(from rescue.Status, reason string) (CancelPayload, error) {
	if from.Terminal() {
		return CancelPayload{}, &TransitionError{From: from, To: rescue.StatusCanceled, Action: ActionCancel}
	}
	if reason == "" {
		return CancelPayload{}, invalid("reason", CodeMissingReason, "cancellation reason is required")
	}
	return CancelPayload{Reason: reason}, nil
}

// ValidateAssignment checks the team selection of an assign dialog.
func (Engine) ValidateAssignment(teamIDs []string) error {
	if len(teamIDs) == 0 {
		return invalid("teamIds", CodeEmptySelection, "select at least one team")
	}
	return nil
}

// BuildAssignPayload validates the selection and constructs the outbound
// payload for the assign mutation.
func (e Engine) BuildAssignPayload(from rescue.Status, teamIDs []string) (AssignPayload, error) {
	if !assignSources[from] {
		return AssignPayload{}, &TransitionError{From: from, To: rescue.StatusAssigned, Action: ActionAssign}
	}
	if err := e.ValidateAssignment(teamIDs); err != nil {
		return AssignPayload{}, err
	}
	return AssignPayload{TeamIDs: append([]string(nil), teamIDs...)}, nil
}
