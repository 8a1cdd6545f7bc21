// Package larp assembles the typed LARPlaner client: one cache-aware CRUD
// set per entity plus the endpoints that do not fit the uniform verb set.
package larp

import (
	"context"
	"net/url"
	"strings"
	"time"

	"larplaner/internal/api"
	"larplaner/internal/convert"
	"larplaner/internal/domain"
	"larplaner/internal/query"
	"larplaner/internal/wire"
)

// Staleness window for the admin email listing; it changes rarely.
const emailStaleTime = 5 * time.Minute

type Client struct {
	API   *api.Client
	Store *query.Store

	Events    query.Crud[domain.Event, wire.Event, wire.EventRequest]
	Roles     query.Crud[domain.Role, wire.Role, wire.RoleRequest]
	Scenarios query.Crud[domain.Scenario, wire.Scenario, wire.ScenarioRequest]
	Tags      query.Crud[domain.Tag, wire.Tag, wire.TagRequest]
	Games     query.Crud[domain.GameSession, wire.GameSession, wire.GameSessionRequest]
}

// New wires every entity resource to the shared store. The store is injected
// so tests (and callers embedding several clients) control cache lifecycle.
func New(apiClient *api.Client, store *query.Store) *Client {
	return &Client{
		API:   apiClient,
		Store: store,
		Events: query.NewCrud("events", api.Resource[domain.Event, wire.Event, wire.EventRequest]{
			Client:   apiClient,
			BasePath: "/events",
			FromDTO:  convert.FromEvent,
			ToDTO:    convert.ToEventRequest,
		}, store),
		Roles: query.NewCrud("roles", api.Resource[domain.Role, wire.Role, wire.RoleRequest]{
			Client:   apiClient,
			BasePath: "/roles",
			FromDTO:  convert.FromRole,
			ToDTO:    convert.ToRoleRequest,
		}, store),
		Scenarios: query.NewCrud("scenarios", api.Resource[domain.Scenario, wire.Scenario, wire.ScenarioRequest]{
			Client:   apiClient,
			BasePath: "/scenarios",
			FromDTO:  convert.FromScenario,
			ToDTO:    convert.ToScenarioRequest,
		}, store),
		Tags: query.NewCrud("tags", api.Resource[domain.Tag, wire.Tag, wire.TagRequest]{
			Client:   apiClient,
			BasePath: "/tags",
			FromDTO:  convert.FromTag,
			ToDTO:    convert.ToTagRequest,
		}, store),
		Games: query.NewCrud("game", api.Resource[domain.GameSession, wire.GameSession, wire.GameSessionRequest]{
			Client:   apiClient,
			BasePath: "/game",
			FromDTO:  convert.FromGameSession,
			ToDTO:    convert.ToGameSessionRequest,
		}, store),
	}
}

// EventByGameID fetches the event that owns a game session. Cached under the
// events prefix so event mutations invalidate it too.
func (c *Client) EventByGameID(ctx context.Context, gameID string) (domain.Event, error) {
	if gameID == "" {
		return domain.Event{}, query.ErrNoID
	}
	key := query.Key{"events", "gameId", gameID}
	return query.Fetch(ctx, c.Store, key, func(ctx context.Context) (domain.Event, error) {
		var dto wire.Event
		if err := c.API.Get(ctx, "/events/gameId/"+url.PathEscape(gameID), &dto); err != nil {
			return domain.Event{}, err
		}
		return convert.FromEvent(dto), nil
	})
}

// UpdateEventStatus moves an event through upcoming/active/historic. The wire
// format wants the status uppercased.
func (c *Client) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, query.ErrNoID
	}
	body := wire.UpdateEventStatusRequest{Status: strings.ToUpper(string(status))}
	var dto wire.Event
	if err := c.API.Put(ctx, "/events/"+url.PathEscape(id)+"/status", body, &dto); err != nil {
		return domain.Event{}, err
	}
	c.Store.Invalidate(query.CollectionKey("events"))
	return convert.FromEvent(dto), nil
}

// ScenarioDetailed fetches a scenario with nested tags fully resolved.
func (c *Client) ScenarioDetailed(ctx context.Context, id string) (domain.Scenario, error) {
	if id == "" {
		return domain.Scenario{}, query.ErrNoID
	}
	key := append(query.DetailKey("scenarios", id), "detailed")
	return query.Fetch(ctx, c.Store, key, func(ctx context.Context) (domain.Scenario, error) {
		var dto wire.Scenario
		if err := c.API.Get(ctx, "/scenarios/"+url.PathEscape(id)+"/detailed", &dto); err != nil {
			return domain.Scenario{}, err
		}
		return convert.FromScenario(dto), nil
	})
}

// CreateTags bulk-creates tags in one request; the backend accepts a list on
// the tags collection.
func (c *Client) CreateTags(ctx context.Context, tags []domain.Tag) ([]domain.Tag, error) {
	body := make([]wire.TagRequest, len(tags))
	for i, t := range tags {
		body[i] = convert.ToTagRequest(t)
	}
	var dtos []wire.Tag
	if err := c.API.Post(ctx, "/tags", body, &dtos); err != nil {
		return nil, err
	}
	c.Store.Invalidate(query.CollectionKey("tags"))
	out := make([]domain.Tag, len(dtos))
	for i, dto := range dtos {
		out[i] = convert.FromTag(dto)
	}
	return out, nil
}

// UserEmails lists every registered user email (admin endpoint).
func (c *Client) UserEmails(ctx context.Context) ([]string, error) {
	key := query.Key{"users", "emails"}
	return query.FetchWithin(ctx, c.Store, key, emailStaleTime, func(ctx context.Context) ([]string, error) {
		var emails []string
		if err := c.API.Get(ctx, "/admin/users/emails", &emails); err != nil {
			return nil, err
		}
		return emails, nil
	})
}

// User fetches one user by id (admin endpoint).
func (c *Client) User(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, query.ErrNoID
	}
	key := query.DetailKey("users", id)
	return query.Fetch(ctx, c.Store, key, func(ctx context.Context) (domain.User, error) {
		var dto wire.User
		if err := c.API.Get(ctx, "/admin/users/"+url.PathEscape(id), &dto); err != nil {
			return domain.User{}, err
		}
		return convert.FromUser(dto), nil
	})
}
