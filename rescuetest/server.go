package rescuetest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/floodrelief/rescue-console/rescue"
	"github.com/floodrelief/rescue-console/workflow"
)

// Server fronts a Store with the rescue backend's wire contract: bearer
// auth, the JSON error envelope, and one-shot injected failures for
// exercising partial-failure paths.
type Server struct {
	store *Store
	token string

	mu        sync.Mutex
	mutations int
	failures  map[int]failure
}

type failure struct {
	status  int
	code    string
	message string
}

// NewServer wraps a store. Requests must carry "Bearer token" to pass auth.
func NewServer(store *Store, token string) *Server {
	return &Server{store: store, token: token, failures: make(map[int]failure)}
}

// Store exposes the underlying store for seeding and direct inspection.
func (s *Server) Store() *Store { return s.store }

// FailNext makes the next mutation request fail with the given response
// without touching the store.
func (s *Server) FailNext(status int, code, message string) {
	s.FailNth(1, status, code, message)
}

// FailNth makes the nth upcoming mutation request fail, counted from the
// next one. Earlier mutations pass through untouched.
func (s *Server) FailNth(n, status int, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[s.mutations+n] = failure{status: status, code: code, message: message}
}

func (s *Server) takeFailure() (failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	f, ok := s.failures[s.mutations]
	if ok {
		delete(s.failures, s.mutations)
	}
	return f, ok
}

// Handler returns the HTTP handler exposing the backend contract.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requireAuth)
	r.HandleFunc("/rescue-requests", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/rescue-requests/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/rescue-requests/{id}/review", s.handleReview).Methods(http.MethodPatch)
	r.HandleFunc("/rescue-requests/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	r.HandleFunc("/rescue-requests/{id}/assign", s.handleAssign).Methods(http.MethodPost)
	r.HandleFunc("/teams", s.handleTeams).Methods(http.MethodGet)
	return r
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type pageResponse struct {
	Items []rescue.RequestRecord `json:"items"`
	Total int                    `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := ListQuery{
		AddressQuery: query.Get("q"),
		SortBy:       query.Get("sortBy"),
		Order:        query.Get("order"),
	}
	if v := query.Get("status"); v != "" {
		status, err := rescue.ParseStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		q.Status = status
	}
	if v := query.Get("priority"); v != "" {
		priority, err := rescue.ParsePriority(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		q.Priority = priority
	}
	if v := query.Get("assigned"); v != "" {
		assigned, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "assigned must be a boolean")
			return
		}
		q.Assigned = &assigned
	}
	if v := query.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "from must be RFC 3339")
			return
		}
		q.From = from
	}
	if v := query.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "to must be RFC 3339")
			return
		}
		q.To = to
	}
	q.Page, _ = strconv.Atoi(query.Get("page"))
	q.Limit, _ = strconv.Atoi(query.Get("limit"))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	items, total := s.store.List(q)
	writeJSON(w, http.StatusOK, pageResponse{Items: items, Total: total, Page: q.Page, Limit: q.Limit})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if f, ok := s.takeFailure(); ok {
		writeError(w, f.status, f.code, f.message)
		return
	}
	var payload workflow.ReviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid json payload")
		return
	}
	rec, err := s.store.Review(mux.Vars(r)["id"], payload)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if f, ok := s.takeFailure(); ok {
		writeError(w, f.status, f.code, f.message)
		return
	}
	var payload workflow.CancelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid json payload")
		return
	}
	if payload.Reason == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "reason is required")
		return
	}
	rec, err := s.store.Cancel(mux.Vars(r)["id"], payload.Reason)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	if f, ok := s.takeFailure(); ok {
		writeError(w, f.status, f.code, f.message)
		return
	}
	var payload workflow.AssignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid json payload")
		return
	}
	if len(payload.TeamIDs) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "teamIds must not be empty")
		return
	}
	rec, err := s.store.Assign(mux.Vars(r)["id"], payload.TeamIDs)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type teamListResponse struct {
	Items []rescue.Team `json:"items"`
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	teams := s.store.ActiveTeams(limit)
	if teams == nil {
		teams = []rescue.Team{}
	}
	writeJSON(w, http.StatusOK, teamListResponse{Items: teams})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var transition *workflow.TransitionError
	switch {
	case errors.Is(err, rescue.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "request not found")
	case errors.Is(err, rescue.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "team not found")
	case errors.Is(err, rescue.ErrRequestFinalized):
		writeError(w, http.StatusConflict, "FINALIZED", "request is in a terminal state")
	case errors.Is(err, rescue.ErrTeamNotAssigned):
		writeError(w, http.StatusConflict, "NOT_ASSIGNED", "team is not assigned to this request")
	case errors.As(err, &transition):
		writeError(w, http.StatusConflict, "ILLEGAL_TRANSITION", transition.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}
