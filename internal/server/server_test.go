package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"larplaner/internal/db"
	"larplaner/internal/migrate"
	"larplaner/internal/repo"
	"larplaner/internal/wire"
)

const testSecret = "test-secret"

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	workspace := t.TempDir()
	conn, err := db.Open(workspace)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	handler, err := New(Config{
		Repo: repo.Repo{DB: conn},
		Auth: AuthConfig{JWTSecret: testSecret},
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	t.Cleanup(testSrv.Close)
	return testSrv
}

func authHeaders(t *testing.T, admin bool) map[string]string {
	t.Helper()
	token, err := SignToken(testSecret, "u-1", "gm@x.com", admin, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func TestRequestsRequireBearerToken(t *testing.T) {
	srv := newTestServer(t)
	res, _ := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/events", nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}
	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/health", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health must stay open, got %d", res.StatusCode)
	}
}

func TestEventLifecycle(t *testing.T) {
	srv := newTestServer(t)
	headers := authHeaders(t, false)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/events", map[string]any{
		"name": "Summer Game",
		"date": "2026-07-01T18:00:00Z",
		"assignedRoles": []map[string]string{
			{"scenarioRoleId": "sr-1", "assignedEmail": "a@x.com"},
		},
	}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create event: %d %s", res.StatusCode, string(data))
	}
	var created wire.Event
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected server-assigned id")
	}
	if created.Status != "UPCOMING" {
		t.Fatalf("expected UPCOMING default, got %q", created.Status)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/events/"+created.ID, nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get event: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPut, srv.URL+"/events/"+created.ID, map[string]any{
		"name": "Summer Game, night run",
		"date": "2026-07-01T20:00:00Z",
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update event: %d %s", res.StatusCode, string(data))
	}
	var renamed wire.Event
	if err := json.Unmarshal(data, &renamed); err != nil {
		t.Fatalf("unmarshal renamed event: %v", err)
	}
	if renamed.ID != created.ID || renamed.Name != "Summer Game, night run" {
		t.Fatalf("update lost identity or body: %+v", renamed)
	}
	if renamed.Status != "UPCOMING" {
		t.Fatalf("update must keep the server-owned status, got %q", renamed.Status)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPut, srv.URL+"/events/"+created.ID+"/status", map[string]any{
		"status": "ACTIVE",
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status: %d %s", res.StatusCode, string(data))
	}
	var active wire.Event
	if err := json.Unmarshal(data, &active); err != nil {
		t.Fatalf("unmarshal updated event: %v", err)
	}
	if active.Status != "ACTIVE" {
		t.Fatalf("expected ACTIVE, got %q", active.Status)
	}

	res, data = doJSON(t, srv.Client(), http.MethodDelete, srv.URL+"/events/"+created.ID, nil, headers)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete event: %d %s", res.StatusCode, string(data))
	}
	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/events/"+created.ID, nil, headers)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", res.StatusCode)
	}
}

func TestRoleCreationResolvesTags(t *testing.T) {
	srv := newTestServer(t)
	headers := authHeaders(t, false)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/tags", []map[string]any{
		{"value": "sneaky"},
		{"value": "noble", "isUnique": true},
	}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("bulk create tags: %d %s", res.StatusCode, string(data))
	}
	var tags []wire.Tag
	if err := json.Unmarshal(data, &tags); err != nil {
		t.Fatalf("unmarshal tags: %v", err)
	}
	if len(tags) != 2 || tags[0].ID == "" {
		t.Fatalf("expected 2 tags with ids, got %+v", tags)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/roles", map[string]any{
		"name": "Bard",
		"tags": []string{tags[0].ID, tags[1].ID},
	}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create role: %d %s", res.StatusCode, string(data))
	}
	var role wire.Role
	if err := json.Unmarshal(data, &role); err != nil {
		t.Fatalf("unmarshal role: %v", err)
	}
	if len(role.Tags) != 2 || role.Tags[0].Value != "sneaky" {
		t.Fatalf("expected resolved tags on response, got %+v", role.Tags)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/roles", map[string]any{
		"name": "Ghost",
		"tags": []string{"nope"},
	}, headers)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tag, got %d %s", res.StatusCode, string(data))
	}
}

func TestTagUpdateByPathID(t *testing.T) {
	srv := newTestServer(t)
	headers := authHeaders(t, false)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/tags", map[string]any{"value": "wounded"}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create tag: %d %s", res.StatusCode, string(data))
	}
	var created wire.Tag
	_ = json.Unmarshal(data, &created)

	res, data = doJSON(t, srv.Client(), http.MethodPut, srv.URL+"/tags/"+created.ID, map[string]any{
		"value":    "gravely wounded",
		"isUnique": true,
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update tag: %d %s", res.StatusCode, string(data))
	}
	var updated wire.Tag
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatalf("unmarshal tag: %v", err)
	}
	if updated.ID != created.ID || updated.Value != "gravely wounded" || !updated.IsUnique {
		t.Fatalf("unexpected updated tag: %+v", updated)
	}
}

func TestScenarioDetailedKeepsNesting(t *testing.T) {
	srv := newTestServer(t)
	headers := authHeaders(t, false)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/tags", map[string]any{"value": "has-key"}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create tag: %d %s", res.StatusCode, string(data))
	}
	var tag wire.Tag
	_ = json.Unmarshal(data, &tag)

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/roles", map[string]any{"name": "Thief"}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create role: %d %s", res.StatusCode, string(data))
	}
	var role wire.Role
	_ = json.Unmarshal(data, &role)

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/scenarios", map[string]any{
		"name": "Heist",
		"roles": []map[string]any{
			{"roleId": role.ID, "descriptionForGM": "the insider"},
		},
		"items": []map[string]any{
			{
				"name": "Vault key",
				"actions": []map[string]any{
					{"name": "Steal", "tagsToApplyOnSuccess": []string{tag.ID}},
				},
			},
		},
	}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create scenario: %d %s", res.StatusCode, string(data))
	}
	var created wire.Scenario
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal scenario: %v", err)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/scenarios/"+created.ID+"/detailed", nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get detailed: %d %s", res.StatusCode, string(data))
	}
	var detailed wire.Scenario
	if err := json.Unmarshal(data, &detailed); err != nil {
		t.Fatalf("unmarshal detailed: %v", err)
	}
	if len(detailed.Items) != 1 || len(detailed.Items[0].Actions) != 1 {
		t.Fatalf("nesting lost: %+v", detailed)
	}
	action := detailed.Items[0].Actions[0]
	if len(action.TagsToApplyOnSuccess) != 1 || action.TagsToApplyOnSuccess[0].Value != "has-key" {
		t.Fatalf("expected resolved tag on action, got %+v", action.TagsToApplyOnSuccess)
	}
	if detailed.Items[0].ID == "" || action.ID == "" {
		t.Fatalf("nested parts should get ids, got %+v", detailed.Items[0])
	}
}

func TestGameSessionLinksEvent(t *testing.T) {
	srv := newTestServer(t)
	headers := authHeaders(t, false)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/events", map[string]any{
		"name": "Run night",
		"date": "2026-08-01T18:00:00Z",
	}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create event: %d %s", res.StatusCode, string(data))
	}
	var event wire.Event
	_ = json.Unmarshal(data, &event)

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/game", map[string]any{
		"eventId": event.ID,
	}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create game: %d %s", res.StatusCode, string(data))
	}
	var game wire.GameSession
	_ = json.Unmarshal(data, &game)
	if game.Status != "pending" || game.StartTime == "" {
		t.Fatalf("expected pending session with start time, got %+v", game)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/events/gameId/"+game.ID, nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("event by game: %d %s", res.StatusCode, string(data))
	}
	var owner wire.Event
	_ = json.Unmarshal(data, &owner)
	if owner.ID != event.ID {
		t.Fatalf("expected owning event %s, got %+v", event.ID, owner)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/game", map[string]any{
		"eventId": "missing",
	}, headers)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event, got %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodDelete, srv.URL+"/game/"+game.ID, nil, headers)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete game: %d %s", res.StatusCode, string(data))
	}
	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/events/gameId/"+game.ID, nil, headers)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected backlink cleared after delete, got %d", res.StatusCode)
	}
	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/events/"+event.ID, nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get event after game delete: %d %s", res.StatusCode, string(data))
	}
	var unlinked wire.Event
	_ = json.Unmarshal(data, &unlinked)
	if unlinked.GameSessionID != "" {
		t.Fatalf("expected empty gameSessionId, got %q", unlinked.GameSessionID)
	}
}

func TestAdminEndpointsNeedAdmin(t *testing.T) {
	srv := newTestServer(t)
	player := authHeaders(t, false)
	admin := authHeaders(t, true)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/events", map[string]any{
		"name": "Assigned game",
		"date": "2026-09-01T18:00:00Z",
		"assignedRoles": []map[string]string{
			{"scenarioRoleId": "sr-1", "assignedEmail": "a@x.com"},
			{"scenarioRoleId": "sr-2", "assignedEmail": "b@x.com"},
		},
	}, player)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create event: %d %s", res.StatusCode, string(data))
	}

	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/admin/users/emails", nil, player)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/admin/users/emails", nil, admin)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("admin emails: %d %s", res.StatusCode, string(data))
	}
	var emails []string
	if err := json.Unmarshal(data, &emails); err != nil {
		t.Fatalf("unmarshal emails: %v", err)
	}
	if len(emails) != 2 || emails[0] != "a@x.com" {
		t.Fatalf("expected seeded emails [a@x.com b@x.com], got %v", emails)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/admin/users/"+userIDForEmail("a@x.com"), nil, admin)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get user: %d %s", res.StatusCode, string(data))
	}
	var u wire.User
	_ = json.Unmarshal(data, &u)
	if u.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}
