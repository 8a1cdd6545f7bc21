package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"larplaner/internal/repo"
	"larplaner/internal/wire"
)

type eventBody struct {
	Body wire.Event `json:"body"`
}

type eventListBody struct {
	Body []wire.Event `json:"body"`
}

func validateEventRequest(req wire.EventRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Date == "" {
		return errors.New("date is required")
	}
	if _, err := time.Parse(time.RFC3339, req.Date); err != nil {
		return errors.New("invalid date, expected RFC3339")
	}
	return nil
}

// applyEventRequest maps request fields onto an event, leaving the
// server-owned id, status and game session link untouched.
func applyEventRequest(e *wire.Event, req wire.EventRequest) {
	e.Name = req.Name
	e.Img = req.Img
	e.Description = req.Description
	e.Date = req.Date
	e.ScenarioID = req.ScenarioID
	e.AssignedRoles = req.AssignedRoles
}

// registerAssignedUsers seeds user rows for the emails appearing on the
// event's role assignments so the admin email listing knows about them.
func registerAssignedUsers(ctx context.Context, r repo.Repo, roles []wire.AssignedRole) error {
	for _, ar := range roles {
		if ar.AssignedEmail == "" {
			continue
		}
		u := wire.User{ID: userIDForEmail(ar.AssignedEmail), Email: ar.AssignedEmail}
		if err := r.UpsertUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func registerEvents(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List events",
	}, func(ctx context.Context, _ *struct{}) (*eventListBody, error) {
		events, err := r.ListEvents(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if events == nil {
			events = []wire.Event{}
		}
		return &eventListBody{Body: events}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-event",
		Method:      http.MethodGet,
		Path:        "/events/{id}",
		Summary:     "Get an event",
	}, func(ctx context.Context, in *IDPath) (*eventBody, error) {
		e, err := r.GetEvent(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &eventBody{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-event-by-game",
		Method:      http.MethodGet,
		Path:        "/events/gameId/{id}",
		Summary:     "Get the event owning a game session",
	}, func(ctx context.Context, in *IDPath) (*eventBody, error) {
		e, err := r.GetEventByGameSession(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &eventBody{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-event",
		Method:        http.MethodPost,
		Path:          "/events",
		Summary:       "Create an event",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *struct {
		Body wire.EventRequest `json:"body"`
	}) (*eventBody, error) {
		if err := validateEventRequest(in.Body); err != nil {
			return nil, handleError(err)
		}
		e := wire.Event{ID: newID(), Status: "UPCOMING"}
		applyEventRequest(&e, in.Body)
		if err := registerAssignedUsers(ctx, r, e.AssignedRoles); err != nil {
			return nil, handleError(err)
		}
		if err := r.InsertEvent(ctx, e); err != nil {
			return nil, handleError(err)
		}
		return &eventBody{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-event",
		Method:      http.MethodPut,
		Path:        "/events/{id}",
		Summary:     "Update an event",
	}, func(ctx context.Context, in *struct {
		IDPath
		Body wire.EventRequest `json:"body"`
	}) (*eventBody, error) {
		if err := validateEventRequest(in.Body); err != nil {
			return nil, handleError(err)
		}
		e, err := r.GetEvent(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		applyEventRequest(&e, in.Body)
		if err := registerAssignedUsers(ctx, r, e.AssignedRoles); err != nil {
			return nil, handleError(err)
		}
		if err := r.UpdateEvent(ctx, e); err != nil {
			return nil, handleError(err)
		}
		return &eventBody{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-event-status",
		Method:      http.MethodPut,
		Path:        "/events/{id}/status",
		Summary:     "Update an event's status",
	}, func(ctx context.Context, in *struct {
		IDPath
		Body wire.UpdateEventStatusRequest `json:"body"`
	}) (*eventBody, error) {
		e, err := r.GetEvent(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		e.Status = in.Body.Status
		if err := r.UpdateEvent(ctx, e); err != nil {
			return nil, handleError(err)
		}
		return &eventBody{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-event",
		Method:        http.MethodDelete,
		Path:          "/events/{id}",
		Summary:       "Delete an event",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, in *IDPath) (*struct{}, error) {
		if err := r.DeleteEvent(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
