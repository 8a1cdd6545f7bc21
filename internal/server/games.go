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

type gameBody struct {
	Body wire.GameSession `json:"body"`
}

type gameListBody struct {
	Body []wire.GameSession `json:"body"`
}

func gameFromRequest(id string, req wire.GameSessionRequest) (wire.GameSession, error) {
	if req.EventID == "" {
		return wire.GameSession{}, errors.New("eventId is required")
	}
	g := wire.GameSession{
		ID:            id,
		EventID:       req.EventID,
		Status:        req.Status,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		AssignedRoles: req.AssignedRoles,
		Items:         req.Items,
		Actions:       req.Actions,
	}
	if g.Status == "" {
		g.Status = "pending"
	}
	if g.StartTime == "" {
		g.StartTime = time.Now().UTC().Format(time.RFC3339)
	}
	for i := range g.AssignedRoles {
		if g.AssignedRoles[i].ID == "" {
			g.AssignedRoles[i].ID = newID()
		}
	}
	for i := range g.Items {
		if g.Items[i].ID == "" {
			g.Items[i].ID = newID()
		}
	}
	return g, nil
}

// linkEventToGame records the session on the owning event so the
// events/gameId lookup can find it. A missing event is the caller's problem
// only on create.
func linkEventToGame(ctx context.Context, r repo.Repo, eventID, gameID string) error {
	e, err := r.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errors.New("unknown event id: " + eventID)
		}
		return err
	}
	e.GameSessionID = gameID
	return r.UpdateEvent(ctx, e)
}

// unlinkEventFromGame clears the backlink when a session goes away. The event
// may already be gone; that is not an error here.
func unlinkEventFromGame(ctx context.Context, r repo.Repo, gameID string) error {
	e, err := r.GetEventByGameSession(ctx, gameID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	e.GameSessionID = ""
	return r.UpdateEvent(ctx, e)
}

func registerGames(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-games",
		Method:      http.MethodGet,
		Path:        "/game",
		Summary:     "List game sessions",
	}, func(ctx context.Context, _ *struct{}) (*gameListBody, error) {
		games, err := r.ListGameSessions(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if games == nil {
			games = []wire.GameSession{}
		}
		return &gameListBody{Body: games}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-game",
		Method:      http.MethodGet,
		Path:        "/game/{id}",
		Summary:     "Get a game session",
	}, func(ctx context.Context, in *IDPath) (*gameBody, error) {
		g, err := r.GetGameSession(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &gameBody{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-game",
		Method:        http.MethodPost,
		Path:          "/game",
		Summary:       "Create a game session",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *struct {
		Body wire.GameSessionRequest `json:"body"`
	}) (*gameBody, error) {
		g, err := gameFromRequest(newID(), in.Body)
		if err != nil {
			return nil, handleError(err)
		}
		if err := linkEventToGame(ctx, r, g.EventID, g.ID); err != nil {
			return nil, handleError(err)
		}
		if err := r.InsertGameSession(ctx, g); err != nil {
			return nil, handleError(err)
		}
		return &gameBody{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-game",
		Method:      http.MethodPut,
		Path:        "/game/{id}",
		Summary:     "Update a game session",
	}, func(ctx context.Context, in *struct {
		IDPath
		Body wire.GameSessionRequest `json:"body"`
	}) (*gameBody, error) {
		if _, err := r.GetGameSession(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		g, err := gameFromRequest(in.ID, in.Body)
		if err != nil {
			return nil, handleError(err)
		}
		if err := r.UpdateGameSession(ctx, g); err != nil {
			return nil, handleError(err)
		}
		return &gameBody{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-game",
		Method:        http.MethodDelete,
		Path:          "/game/{id}",
		Summary:       "Delete a game session",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, in *IDPath) (*struct{}, error) {
		if err := r.DeleteGameSession(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		if err := unlinkEventFromGame(ctx, r, in.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
