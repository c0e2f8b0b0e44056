package rescue

import (
	"errors"
	"strings"
)

// Status is the lifecycle state of a relief request. Values mirror the
// backend wire representation.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusReviewed   Status = "REVIEWED"
	StatusAssigned   Status = "ASSIGNED"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCanceled   Status = "CANCELED"
	StatusRejected   Status = "REJECTED"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusCanceled, StatusRejected:
		return true
	}
	return false
}

// ParseStatus parses a string into a Status value.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(s)) {
	case StatusNew:
		return StatusNew, nil
	case StatusReviewed:
		return StatusReviewed, nil
	case StatusAssigned:
		return StatusAssigned, nil
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	case StatusCanceled, "CANCELLED":
		return StatusCanceled, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", errors.New("unknown status")
	}
}

// Priority is the urgency grade assigned to a request during review.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// ParsePriority parses a string into a Priority value.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToUpper(s)) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityCritical:
		return PriorityCritical, nil
	default:
		return "", errors.New("unknown priority")
	}
}
