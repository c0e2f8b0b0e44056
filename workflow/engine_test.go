package workflow

import (
	"testing"

	"github.com/floodrelief/rescue-console/rescue"
)

var activeStatuses = []rescue.Status{
	rescue.StatusNew,
	rescue.StatusReviewed,
	rescue.StatusAssigned,
	rescue.StatusAccepted,
	rescue.StatusInProgress,
}

func TestAllowedActionsTerminal(t *testing.T) {
	var engine Engine
	for _, status := range []rescue.Status{rescue.StatusCanceled, rescue.StatusRejected, rescue.StatusDone} {
		if actions := engine.AllowedActions(status); len(actions) != 0 {
			t.Fatalf("expected no actions for %s, got %v", status, actions)
		}
	}
}

func TestCancelAlwaysAvailableWhileActive(t *testing.T) {
	var engine Engine
	for _, status := range activeStatuses {
		found := false
		for _, a := range engine.AllowedActions(status) {
			if a == ActionCancel {
				found = true
			}
		}
		if !found {
			t.Fatalf("cancel missing from allowed actions for %s", status)
		}
	}
}

func TestAllowedActionsPerStatus(t *testing.T) {
	var engine Engine
	tests := []struct {
		status rescue.Status
		want   []Action
	}{
		{rescue.StatusNew, []Action{ActionReview, ActionCancel}},
		{rescue.StatusReviewed, []Action{ActionReview, ActionAssign, ActionCancel}},
		{rescue.StatusAssigned, []Action{ActionReview, ActionAssign, ActionCancel}},
		{rescue.StatusAccepted, []Action{ActionReview, ActionCancel}},
		{rescue.StatusInProgress, []Action{ActionReview, ActionCancel}},
	}
	for _, tc := range tests {
		got := engine.AllowedActions(tc.status)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.status, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: expected %v, got %v", tc.status, tc.want, got)
			}
		}
	}
}

func TestCanReview(t *testing.T) {
	var engine Engine
	tests := []struct {
		from rescue.Status
		to   rescue.Status
		want bool
	}{
		{rescue.StatusNew, rescue.StatusReviewed, true},
		{rescue.StatusNew, rescue.StatusRejected, true},
		{rescue.StatusNew, rescue.StatusAssigned, false},
		{rescue.StatusReviewed, rescue.StatusReviewed, true},
		{rescue.StatusReviewed, rescue.StatusRejected, true},
		{rescue.StatusAssigned, rescue.StatusAccepted, true},
		{rescue.StatusAssigned, rescue.StatusDone, false},
		{rescue.StatusAccepted, rescue.StatusInProgress, true},
		{rescue.StatusAccepted, rescue.StatusDone, true},
		{rescue.StatusInProgress, rescue.StatusDone, true},
		{rescue.StatusInProgress, rescue.StatusAccepted, false},
		{rescue.StatusDone, rescue.StatusInProgress, false},
		{rescue.StatusCanceled, rescue.StatusReviewed, false},
		{rescue.StatusRejected, rescue.StatusReviewed, false},
	}
	for _, tc := range tests {
		if got := engine.CanReview(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanReview(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanReviewNeverTargetsCanceled(t *testing.T) {
	var engine Engine
	for _, status := range activeStatuses {
		if engine.CanReview(status, rescue.StatusCanceled) {
			t.Fatalf("review from %s must not target CANCELED", status)
		}
	}
}

func TestDefaultNextStatus(t *testing.T) {
	var engine Engine
	tests := []struct {
		from rescue.Status
		want rescue.Status
	}{
		{rescue.StatusNew, rescue.StatusReviewed},
		{rescue.StatusReviewed, rescue.StatusReviewed},
		{rescue.StatusAssigned, rescue.StatusAccepted},
		{rescue.StatusAccepted, rescue.StatusInProgress},
		{rescue.StatusInProgress, rescue.StatusDone},
	}
	for _, tc := range tests {
		got, ok := engine.DefaultNextStatus(tc.from)
		if !ok || got != tc.want {
			t.Fatalf("DefaultNextStatus(%s) = %s/%v, want %s", tc.from, got, ok, tc.want)
		}
	}
	for _, status := range []rescue.Status{rescue.StatusDone, rescue.StatusCanceled, rescue.StatusRejected} {
		if _, ok := engine.DefaultNextStatus(status); ok {
			t.Fatalf("expected no suggestion for %s", status)
		}
	}
}
