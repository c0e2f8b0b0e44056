package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/floodrelief/rescue-console/api"
	"github.com/floodrelief/rescue-console/rescue"
	"github.com/floodrelief/rescue-console/rescuetest"
	"github.com/floodrelief/rescue-console/workflow"
)

const testToken = "token-123"

func newBackend(t *testing.T) (*rescuetest.Server, *api.Client) {
	t.Helper()
	backend := rescuetest.NewServer(rescuetest.NewStore(), testToken)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)
	return backend, api.NewClient(server.URL, api.StaticToken(testToken), 5*time.Second)
}

func TestListRequestsFilters(t *testing.T) {
	backend, client := newBackend(t)
	store := backend.Store()
	store.AddRequest(rescue.RequestRecord{Address: "Ward 3", Status: rescue.StatusNew, Priority: rescue.PriorityCritical})
	store.AddRequest(rescue.RequestRecord{Address: "Ward 5", Status: rescue.StatusNew, Priority: rescue.PriorityLow})
	store.AddRequest(rescue.RequestRecord{Address: "Ward 7", Status: rescue.StatusReviewed, Priority: rescue.PriorityCritical})

	page, err := client.ListRequests(context.Background(), api.Query{
		Status:   rescue.StatusNew,
		Priority: rescue.PriorityCritical,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("expected exactly one match, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].Address != "Ward 3" {
		t.Fatalf("unexpected record: %+v", page.Items[0])
	}
}

func TestListRequestsServerOrdering(t *testing.T) {
	backend, client := newBackend(t)
	store := backend.Store()
	old := time.Now().UTC().Add(-2 * time.Hour)
	store.AddRequest(rescue.RequestRecord{Address: "older", CreatedAt: old})
	store.AddRequest(rescue.RequestRecord{Address: "newer", CreatedAt: old.Add(time.Hour)})

	page, err := client.ListRequests(context.Background(), api.Query{SortBy: "createdAt", Order: "desc"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Items[0].Address != "newer" || page.Items[1].Address != "older" {
		t.Fatalf("unexpected order: %+v", page.Items)
	}
}

func TestUnauthorized(t *testing.T) {
	backend := rescuetest.NewServer(rescuetest.NewStore(), testToken)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, api.StaticToken("wrong"), 5*time.Second)
	_, err := client.ListRequests(context.Background(), api.Query{})
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestErrorEnvelopeDecoding(t *testing.T) {
	backend, client := newBackend(t)
	rec := backend.Store().AddRequest(rescue.RequestRecord{Status: rescue.StatusNew})

	// ASSIGNED is not a legal review target from NEW; the backend refuses.
	_, err := client.Review(context.Background(), rec.ID, workflow.ReviewPayload{
		Status: rescue.StatusAssigned,
		Note:   "n",
	})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "ILLEGAL_TRANSITION" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestBadListSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, api.StaticToken(testToken), 5*time.Second)
	_, err := client.ListRequests(context.Background(), api.Query{})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Code != "BAD_RESPONSE" {
		t.Fatalf("expected BAD_RESPONSE, got %v", err)
	}
}

func TestMutationCarriesRequestID(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"r1","status":"CANCELED"}`))
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, api.StaticToken(testToken), 5*time.Second)
	_, err := client.Cancel(context.Background(), "r1", workflow.CancelPayload{Reason: "dup"})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if gotHeader == "" {
		t.Fatal("expected X-Request-Id header on mutation")
	}
}

func TestActiveTeams(t *testing.T) {
	backend, client := newBackend(t)
	store := backend.Store()
	store.AddTeam(rescue.Team{Name: "Delta", IsActive: true, TeamSize: 4})
	store.AddTeam(rescue.Team{Name: "Alpha", IsActive: true, TeamSize: 6})
	store.AddTeam(rescue.Team{Name: "Retired", IsActive: false})

	teams, err := client.ActiveTeams(context.Background(), 10)
	if err != nil {
		t.Fatalf("team fetch failed: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 active teams, got %d", len(teams))
	}
	if teams[0].Name != "Alpha" {
		t.Fatalf("unexpected order: %+v", teams)
	}
}
