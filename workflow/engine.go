// Package workflow is the single source of truth for the relief-request
// status graph. It decides which admin actions a request currently offers,
// which target statuses a review may select, and what the outbound mutation
// payloads look like. It performs no I/O; illegal transitions are rejected
// before any network call is issued.
package workflow

import (
	"github.com/floodrelief/rescue-console/rescue"
)

// Action is an admin operation offered against a request.
type Action string

const (
	ActionReview Action = "review"
	ActionAssign Action = "assign"
	ActionCancel Action = "cancel"
)

// reviewTargets enumerates the legal target statuses of the review mutation
// per current status. Review on REVIEWED is an idempotent re-edit. CANCELED
// is deliberately absent: it is reached through the dedicated cancel
// contract, never through review.
var reviewTargets = map[rescue.Status][]rescue.Status{
	rescue.StatusNew:        {rescue.StatusReviewed, rescue.StatusRejected},
	rescue.StatusReviewed:   {rescue.StatusReviewed, rescue.StatusRejected},
	rescue.StatusAssigned:   {rescue.StatusAccepted},
	rescue.StatusAccepted:   {rescue.StatusInProgress, rescue.StatusDone},
	rescue.StatusInProgress: {rescue.StatusDone},
}

// assignSources are the statuses from which teams may be attached. Assigning
// from ASSIGNED adds further teams.
var assignSources = map[rescue.Status]bool{
	rescue.StatusReviewed: true,
	rescue.StatusAssigned: true,
}

// Engine evaluates the status graph. It is stateless; the zero value is
// ready to use.
type Engine struct{}

// AllowedActions returns the admin actions a request in the given status
// offers. Terminal statuses offer none; cancel is available from every
// active status.
func (Engine) AllowedActions(s rescue.Status) []Action {
	if s.Terminal() {
		return nil
	}
	actions := []Action{}
	if len(reviewTargets[s]) > 0 {
		actions = append(actions, ActionReview)
	}
	if assignSources[s] {
		actions = append(actions, ActionAssign)
	}
	return append(actions, ActionCancel)
}

// CanReview reports whether a review mutation may move a request from one
// status to another.
func (Engine) CanReview(from, to rescue.Status) bool {
	for _, t := range reviewTargets[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ReviewTargets returns the statuses a review dialog may offer as targets
// for the given current status.
func (Engine) ReviewTargets(from rescue.Status) []rescue.Status {
	return append([]rescue.Status(nil), reviewTargets[from]...)
}

// DefaultNextStatus suggests the single-step forward target used to pre-fill
// a review dialog. The suggestion is a convenience, not a constraint; the
// operator may pick any target CanReview admits. The second return is false
// for terminal statuses.
func (Engine) DefaultNextStatus(from rescue.Status) (rescue.Status, bool) {
	switch from {
	case rescue.StatusNew:
		return rescue.StatusReviewed, true
	case rescue.StatusReviewed:
		return rescue.StatusReviewed, true
	case rescue.StatusAssigned:
		return rescue.StatusAccepted, true
	case rescue.StatusAccepted:
		return rescue.StatusInProgress, true
	case rescue.StatusInProgress:
		return rescue.StatusDone, true
	default:
		return "", false
	}
}
