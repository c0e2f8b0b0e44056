// Package rescuetest provides an in-memory fake of the rescue backend for
// tests: a mutex-guarded store enforcing the same status graph the console
// drives, fronted by an HTTP server speaking the real wire contract.
package rescuetest

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/floodrelief/rescue-console/rescue"
	"github.com/floodrelief/rescue-console/workflow"
)

// Store holds requests and teams in memory.
type Store struct {
	mu       sync.RWMutex
	engine   workflow.Engine
	requests map[string]rescue.RequestRecord
	teams    map[string]rescue.Team
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		requests: make(map[string]rescue.RequestRecord),
		teams:    make(map[string]rescue.Team),
	}
}

// AddRequest seeds a request, filling identifier, status and timestamps
// when absent, and returns the stored record.
func (s *Store) AddRequest(r rescue.RequestRecord) rescue.RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = rescue.StatusNew
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	s.requests[r.ID] = r
	return r
}

// AddTeam seeds a team directory entry.
func (s *Store) AddTeam(t rescue.Team) rescue.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.teams[t.ID] = t
	return t
}

// ListQuery mirrors the query parameters of the list endpoint.
type ListQuery struct {
	Status       rescue.Status
	Priority     rescue.Priority
	Assigned     *bool
	AddressQuery string
	From         time.Time
	To           time.Time
	Page         int
	Limit        int
	SortBy       string
	Order        string
}

// List applies filters, server-side ordering and pagination.
func (s *Store) List(q ListQuery) ([]rescue.RequestRecord, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []rescue.RequestRecord
	for _, r := range s.requests {
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if q.Priority != "" && r.Priority != q.Priority {
			continue
		}
		if q.Assigned != nil && (len(r.AssignedTeams) > 0) != *q.Assigned {
			continue
		}
		if q.AddressQuery != "" && !strings.Contains(strings.ToLower(r.Address), strings.ToLower(q.AddressQuery)) {
			continue
		}
		if !q.From.IsZero() && r.CreatedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && r.CreatedAt.After(q.To) {
			continue
		}
		matched = append(matched, cloneRecord(r))
	}

	field := q.SortBy
	if field == "" {
		field = "createdAt"
	}
	asc := q.Order == "asc"
	sort.Slice(matched, func(i, j int) bool {
		var before bool
		switch field {
		case "updatedAt":
			before = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			before = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if asc {
			return before
		}
		return !before
	})

	total := len(matched)
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= total {
		return []rescue.RequestRecord{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

// Get returns a request by identifier.
func (s *Store) Get(id string) (rescue.RequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return rescue.RequestRecord{}, rescue.ErrRequestNotFound
	}
	return cloneRecord(r), nil
}

// Review applies a review payload, enforcing the status graph the way the
// real backend does.
func (s *Store) Review(id string, p workflow.ReviewPayload) (rescue.RequestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return rescue.RequestRecord{}, rescue.ErrRequestNotFound
	}
	if !s.engine.CanReview(r.Status, p.Status) {
		return rescue.RequestRecord{}, &workflow.TransitionError{
			From: r.Status, To: p.Status, Action: workflow.ActionReview,
		}
	}
	r.Status = p.Status
	if p.Priority != "" {
		r.Priority = p.Priority
	}
	if p.RequiredTeams > 0 {
		r.RequiredTeams = p.RequiredTeams
	}
	r.Note = p.Note
	r.UpdatedAt = time.Now().UTC()
	s.requests[id] = r
	return cloneRecord(r), nil
}

// Cancel moves an active request to CANCELED, recording the reason as the
// latest annotation.
func (s *Store) Cancel(id, reason string) (rescue.RequestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return rescue.RequestRecord{}, rescue.ErrRequestNotFound
	}
	if r.Status.Terminal() {
		return rescue.RequestRecord{}, rescue.ErrRequestFinalized
	}
	r.Status = rescue.StatusCanceled
	r.Note = reason
	r.UpdatedAt = time.Now().UTC()
	s.requests[id] = r
	return cloneRecord(r), nil
}

// Assign attaches teams to a reviewed or already-assigned request. Teams
// already attached are skipped.
func (s *Store) Assign(id string, teamIDs []string) (rescue.RequestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return rescue.RequestRecord{}, rescue.ErrRequestNotFound
	}
	if r.Status != rescue.StatusReviewed && r.Status != rescue.StatusAssigned {
		return rescue.RequestRecord{}, &workflow.TransitionError{
			From: r.Status, To: rescue.StatusAssigned, Action: workflow.ActionAssign,
		}
	}
	attached := make(map[string]bool, len(r.AssignedTeams))
	for _, at := range r.AssignedTeams {
		attached[at.TeamID] = true
	}
	for _, teamID := range teamIDs {
		team, ok := s.teams[teamID]
		if !ok {
			return rescue.RequestRecord{}, rescue.ErrTeamNotFound
		}
		if attached[teamID] {
			continue
		}
		r.AssignedTeams = append(r.AssignedTeams, rescue.AssignedTeam{
			TeamID:   team.ID,
			TeamName: team.Name,
			Status:   rescue.TeamResponseAssigned,
		})
		attached[teamID] = true
	}
	r.Status = rescue.StatusAssigned
	r.UpdatedAt = time.Now().UTC()
	s.requests[id] = r
	return cloneRecord(r), nil
}

// AcceptTeam simulates a team accepting its assignment from the field app.
// Only the per-team response changes; the request status stays where the
// admin workflow put it.
func (s *Store) AcceptTeam(requestID, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return rescue.ErrRequestNotFound
	}
	for i, at := range r.AssignedTeams {
		if at.TeamID == teamID {
			now := time.Now().UTC()
			r.AssignedTeams[i].Status = rescue.TeamResponseAccepted
			r.AssignedTeams[i].RespondedAt = &now
			r.UpdatedAt = now
			s.requests[requestID] = r
			return nil
		}
	}
	return rescue.ErrTeamNotAssigned
}

// ActiveTeams returns active directory entries ordered by name.
func (s *Store) ActiveTeams(limit int) []rescue.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var teams []rescue.Team
	for _, t := range s.teams {
		if t.IsActive {
			teams = append(teams, t)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	if limit > 0 && len(teams) > limit {
		teams = teams[:limit]
	}
	return teams
}

func cloneRecord(r rescue.RequestRecord) rescue.RequestRecord {
	out := r
	out.AssignedTeams = append([]rescue.AssignedTeam(nil), r.AssignedTeams...)
	return out
}
