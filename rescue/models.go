package rescue

import "time"

// TeamResponse is the per-team state of an assignment on a request.
type TeamResponse string

const (
	TeamResponseAssigned TeamResponse = "assigned"
	TeamResponseAccepted TeamResponse = "accepted"
)

// AssignedTeam is one entry of a request's assignment list.
type AssignedTeam struct {
	TeamID      string       `json:"teamId"`
	TeamName    string       `json:"teamName"`
	Status      TeamResponse `json:"status"`
	RespondedAt *time.Time   `json:"respondedAt,omitempty"`
}

// RequestRecord is a citizen-submitted relief request as served by the
// backend. Requester and location fields are immutable from the console's
// perspective; everything else changes only through review, assign and
// cancel mutations.
type RequestRecord struct {
	ID              string         `json:"id"`
	Status          Status         `json:"status"`
	Priority        Priority       `json:"priority"`
	RequesterName   string         `json:"requesterName"`
	RequesterPhone  string         `json:"requesterPhone"`
	Address         string         `json:"address"`
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	EstimatedPeople int            `json:"estimatedPeople,omitempty"`
	RequiredTeams   int            `json:"requiredTeams"`
	Note            string         `json:"note"`
	AssignedTeams   []AssignedTeam `json:"assignedTeams"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// TeamSummary is the derived assignment standing of a request. It has no
// storage of its own and is recomputed from the assignment list.
type TeamSummary struct {
	Required    int  `json:"required"`
	Assigned    int  `json:"assigned"`
	Accepted    int  `json:"accepted"`
	IsFulfilled bool `json:"isFulfilled"`
}

// Summary derives the team standing from the assignment list. Required is
// only meaningful once the request has passed NEW.
func (r RequestRecord) Summary() TeamSummary {
	s := TeamSummary{Required: r.RequiredTeams, Assigned: len(r.AssignedTeams)}
	for _, t := range r.AssignedTeams {
		if t.Status == TeamResponseAccepted {
			s.Accepted++
		}
	}
	s.IsFulfilled = s.Required > 0 && s.Accepted >= s.Required
	return s
}

// Team is an entry of the rescue-team directory.
type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Area     string `json:"area"`
	TeamSize int    `json:"teamSize"`
	IsActive bool   `json:"isActive"`
}
