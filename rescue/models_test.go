package rescue

import "testing"

func TestSummary(t *testing.T) {
	rec := RequestRecord{
		RequiredTeams: 2,
		AssignedTeams: []AssignedTeam{
			{TeamID: "t1", Status: TeamResponseAccepted},
			{TeamID: "t2", Status: TeamResponseAssigned},
			{TeamID: "t3", Status: TeamResponseAccepted},
		},
	}
	s := rec.Summary()
	if s.Required != 2 || s.Assigned != 3 || s.Accepted != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if !s.IsFulfilled {
		t.Fatal("expected summary to be fulfilled")
	}
}

func TestSummaryUnfulfilled(t *testing.T) {
	rec := RequestRecord{
		RequiredTeams: 1,
		AssignedTeams: []AssignedTeam{{TeamID: "t1", Status: TeamResponseAssigned}},
	}
	s := rec.Summary()
	if s.Accepted != 0 || s.IsFulfilled {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestSummaryNoRequirement(t *testing.T) {
	// Required teams are only meaningful after review; an unreviewed record
	// is never fulfilled.
	s := RequestRecord{}.Summary()
	if s.IsFulfilled {
		t.Fatal("empty record must not be fulfilled")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"NEW", StatusNew},
		{"in_progress", StatusInProgress},
		{"CANCELLED", StatusCanceled},
		{"done", StatusDone},
	}
	for _, tc := range tests {
		got, err := ParseStatus(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseStatus(%q) = %s, %v", tc.in, got, err)
		}
	}
	if _, err := ParseStatus("bogus"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParsePriority(t *testing.T) {
	got, err := ParsePriority("critical")
	if err != nil || got != PriorityCritical {
		t.Fatalf("ParsePriority = %s, %v", got, err)
	}
	if _, err := ParsePriority(""); err == nil {
		t.Fatal("expected error for empty priority")
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{StatusDone, StatusCanceled, StatusRejected} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusNew, StatusReviewed, StatusAssigned, StatusAccepted, StatusInProgress} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}
