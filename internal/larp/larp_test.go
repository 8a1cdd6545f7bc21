package larp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"larplaner/internal/api"
	"larplaner/internal/domain"
	"larplaner/internal/query"
	"larplaner/internal/wire"
)

// fakeBackend is a minimal counting LARPlaner server for client tests.
type fakeBackend struct {
	eventListCalls   int32
	scenarioGetCalls int32
	tagListCalls     int32
	events           []wire.Event
	tags             []wire.Tag
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.eventListCalls, 1)
		json.NewEncoder(w).Encode(f.events)
	})
	mux.HandleFunc("GET /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		for _, e := range f.events {
			if e.ID == id {
				json.NewEncoder(w).Encode(e)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /events/gameId/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		for _, e := range f.events {
			if e.GameSessionID == id {
				json.NewEncoder(w).Encode(e)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("PUT /events/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var body wire.UpdateEventStatusRequest
		json.NewDecoder(r.Body).Decode(&body)
		id := r.PathValue("id")
		for i := range f.events {
			if f.events[i].ID == id {
				f.events[i].Status = body.Status
				json.NewEncoder(w).Encode(f.events[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /scenarios/{id}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.scenarioGetCalls, 1)
		json.NewEncoder(w).Encode(wire.Scenario{ID: r.PathValue("id"), Name: "Heist"})
	})
	mux.HandleFunc("GET /tags", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tagListCalls, 1)
		json.NewEncoder(w).Encode(f.tags)
	})
	mux.HandleFunc("POST /tags", func(w http.ResponseWriter, r *http.Request) {
		var reqs []wire.TagRequest
		json.NewDecoder(r.Body).Decode(&reqs)
		created := make([]wire.Tag, len(reqs))
		for i, req := range reqs {
			created[i] = wire.Tag{ID: "t-" + req.Value, Value: req.Value}
			f.tags = append(f.tags, created[i])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return New(api.New(srv.URL), query.NewStore(time.Minute))
}

func TestFilterEvents(t *testing.T) {
	events := []domain.Event{
		{ID: "e-1", Status: domain.EventUpcoming, AssignedRoles: []domain.AssignedRole{{ScenarioRoleID: "sr-1", AssignedEmail: "a@x.com"}}},
		{ID: "e-2", Status: domain.EventUpcoming, AssignedRoles: []domain.AssignedRole{{ScenarioRoleID: "sr-2", AssignedEmail: "b@x.com"}}},
		{ID: "e-3", Status: domain.EventHistoric, AssignedRoles: []domain.AssignedRole{{ScenarioRoleID: "sr-3", AssignedEmail: "a@x.com"}}},
	}
	got := FilterEvents(events, "a@x.com", domain.EventUpcoming)
	if len(got) != 1 || got[0].ID != "e-1" {
		t.Fatalf("expected [e-1], got %+v", got)
	}
	got = FilterEvents(events, "a@x.com", "")
	if len(got) != 2 {
		t.Fatalf("expected both of a@x.com's events, got %+v", got)
	}
	if len(events) != 3 {
		t.Fatalf("input slice mutated")
	}
}

func TestPaginateClampsAndSlices(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}

	p := Paginate(list, 1, 2)
	if p.TotalPages != 3 || p.TotalItems != 5 {
		t.Fatalf("unexpected totals: %+v", p)
	}
	if len(p.Items) != 2 || p.Items[0] != 1 {
		t.Fatalf("unexpected first page: %+v", p.Items)
	}

	p = Paginate(list, 3, 2)
	if len(p.Items) != 1 || p.Items[0] != 5 {
		t.Fatalf("unexpected last page: %+v", p.Items)
	}

	p = Paginate(list, 99, 2)
	if p.Number != 3 || p.Items[0] != 5 {
		t.Fatalf("page number not clamped down: %+v", p)
	}
	p = Paginate(list, 0, 2)
	if p.Number != 1 || p.Items[0] != 1 {
		t.Fatalf("page number not clamped up: %+v", p)
	}

	if len(list) != 5 || list[0] != 1 {
		t.Fatalf("input slice mutated: %v", list)
	}
}

func TestPaginateDegenerateInputs(t *testing.T) {
	p := Paginate([]string{}, 1, 10)
	if p.Number != 1 || p.TotalPages != 1 || len(p.Items) != 0 {
		t.Fatalf("unexpected empty-list page: %+v", p)
	}
	p = Paginate([]string{"a", "b"}, 1, 0)
	if p.TotalPages != 1 || len(p.Items) != 2 {
		t.Fatalf("expected single page for size 0, got %+v", p)
	}
}

func TestEventWithScenarioStopsWithoutScenario(t *testing.T) {
	f := &fakeBackend{events: []wire.Event{
		{ID: "e-1", Name: "No scenario yet", Date: "2026-07-01T18:00:00Z"},
	}}
	c := newTestClient(t, f)

	event, _, err := c.EventWithScenario(context.Background(), "e-1")
	if !errors.Is(err, ErrNoScenario) {
		t.Fatalf("expected ErrNoScenario, got %v", err)
	}
	if event.ID != "e-1" {
		t.Fatalf("event should still be returned, got %+v", event)
	}
	if f.scenarioGetCalls != 0 {
		t.Fatalf("no scenario fetch expected, got %d", f.scenarioGetCalls)
	}
}

func TestEventWithScenarioResolvesScenario(t *testing.T) {
	f := &fakeBackend{events: []wire.Event{
		{ID: "e-1", ScenarioID: "s-1", Date: "2026-07-01T18:00:00Z"},
	}}
	c := newTestClient(t, f)
	_, scenario, err := c.EventWithScenario(context.Background(), "e-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scenario.ID != "s-1" || scenario.Name != "Heist" {
		t.Fatalf("unexpected scenario: %+v", scenario)
	}
	if f.scenarioGetCalls != 1 {
		t.Fatalf("expected 1 scenario fetch, got %d", f.scenarioGetCalls)
	}
}

func TestEventForGame(t *testing.T) {
	f := &fakeBackend{events: []wire.Event{
		{ID: "e-1", ScenarioID: "s-1", GameSessionID: "g-1", Date: "2026-07-01T18:00:00Z"},
	}}
	c := newTestClient(t, f)
	event, scenario, err := c.EventForGame(context.Background(), "g-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID != "e-1" || scenario.ID != "s-1" {
		t.Fatalf("unexpected resolution: event=%+v scenario=%+v", event, scenario)
	}
	if _, err := c.EventByGameID(context.Background(), ""); !errors.Is(err, query.ErrNoID) {
		t.Fatalf("expected ErrNoID for empty game id, got %v", err)
	}
}

func TestCreateTagsRefreshesList(t *testing.T) {
	f := &fakeBackend{tags: []wire.Tag{{ID: "t-old", Value: "old"}}}
	c := newTestClient(t, f)
	ctx := context.Background()

	before, err := c.Tags.GetAll(ctx)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(before) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(before))
	}

	created, err := c.CreateTags(ctx, []domain.Tag{{Value: "wounded"}, {Value: "rich"}})
	if err != nil {
		t.Fatalf("create tags: %v", err)
	}
	if len(created) != 2 || created[0].ID == "" {
		t.Fatalf("expected 2 created tags with ids, got %+v", created)
	}

	after, err := c.Tags.GetAll(ctx)
	if err != nil {
		t.Fatalf("list tags after create: %v", err)
	}
	if len(after) != 3 {
		t.Fatalf("expected refreshed list of 3, got %d", len(after))
	}
	if f.tagListCalls != 2 {
		t.Fatalf("expected list refetch after bulk create, got %d calls", f.tagListCalls)
	}
}

func TestUpdateEventStatusInvalidatesEvents(t *testing.T) {
	f := &fakeBackend{events: []wire.Event{
		{ID: "e-1", Status: "UPCOMING", Date: "2026-07-01T18:00:00Z"},
	}}
	c := newTestClient(t, f)
	ctx := context.Background()

	if _, err := c.Events.GetAll(ctx); err != nil {
		t.Fatalf("list events: %v", err)
	}

	updated, err := c.UpdateEventStatus(ctx, "e-1", domain.EventActive)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.EventActive {
		t.Fatalf("expected lowercased active, got %s", updated.Status)
	}

	events, err := c.Events.GetAll(ctx)
	if err != nil {
		t.Fatalf("list events after status change: %v", err)
	}
	if events[0].Status != domain.EventActive {
		t.Fatalf("stale event list served, got %+v", events[0])
	}
	if f.eventListCalls != 2 {
		t.Fatalf("expected event list refetch, got %d calls", f.eventListCalls)
	}
}

func TestUserEmailsCached(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/users/emails", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode([]string{"a@x.com", "b@x.com"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(api.New(srv.URL), query.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		emails, err := c.UserEmails(context.Background())
		if err != nil {
			t.Fatalf("user emails: %v", err)
		}
		if len(emails) != 2 || !strings.Contains(emails[0], "@") {
			t.Fatalf("unexpected emails: %v", emails)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 request, got %d", calls)
	}
}
