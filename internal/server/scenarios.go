package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"larplaner/internal/repo"
	"larplaner/internal/wire"
)

type scenarioBody struct {
	Body wire.Scenario `json:"body"`
}

type scenarioListBody struct {
	Body []wire.Scenario `json:"body"`
}

func actionFromRequest(ctx context.Context, r repo.Repo, req wire.ActionRequest) (wire.Action, error) {
	a := wire.Action{
		ID:               req.ID,
		Name:             req.Name,
		Description:      req.Description,
		MessageOnSuccess: req.MessageOnSuccess,
		MessageOnFailure: req.MessageOnFailure,
	}
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Name == "" {
		return wire.Action{}, errors.New("action name is required")
	}
	for _, l := range []struct {
		ids []string
		dst *[]wire.Tag
	}{
		{req.RequiredTagsToDisplay, &a.RequiredTagsToDisplay},
		{req.RequiredTagsToSucceed, &a.RequiredTagsToSucceed},
		{req.ForbiddenTagsToDisplay, &a.ForbiddenTagsToDisplay},
		{req.ForbiddenTagsToSucceed, &a.ForbiddenTagsToSucceed},
		{req.TagsToApplyOnSuccess, &a.TagsToApplyOnSuccess},
		{req.TagsToApplyOnFailure, &a.TagsToApplyOnFailure},
		{req.TagsToRemoveOnSuccess, &a.TagsToRemoveOnSuccess},
		{req.TagsToRemoveOnFailure, &a.TagsToRemoveOnFailure},
	} {
		tags, err := resolveTags(ctx, r, l.ids)
		if err != nil {
			return wire.Action{}, err
		}
		*l.dst = tags
	}
	return a, nil
}

// scenarioFromRequest builds the stored scenario: nested parts get ids when
// they carry none, and every action tag list is resolved to tag objects.
func scenarioFromRequest(ctx context.Context, r repo.Repo, id string, req wire.ScenarioRequest) (wire.Scenario, error) {
	if req.Name == "" {
		return wire.Scenario{}, errors.New("name is required")
	}
	s := wire.Scenario{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}
	for _, rr := range req.Roles {
		sr := wire.ScenarioRole{
			ID:                   rr.ID,
			RoleID:               rr.RoleID,
			ScenarioID:           id,
			DescriptionForGM:     rr.DescriptionForGM,
			DescriptionForOwner:  rr.DescriptionForOwner,
			DescriptionForOthers: rr.DescriptionForOthers,
		}
		if sr.ID == "" {
			sr.ID = newID()
		}
		if sr.RoleID == "" {
			return wire.Scenario{}, errors.New("scenario role roleId is required")
		}
		if _, err := r.GetRole(ctx, sr.RoleID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return wire.Scenario{}, errors.New("unknown role id: " + sr.RoleID)
			}
			return wire.Scenario{}, err
		}
		s.Roles = append(s.Roles, sr)
	}
	for _, ir := range req.Items {
		item := wire.ScenarioItem{
			ID:          ir.ID,
			ScenarioID:  id,
			Name:        ir.Name,
			Description: ir.Description,
		}
		if item.ID == "" {
			item.ID = newID()
		}
		if item.Name == "" {
			return wire.Scenario{}, errors.New("item name is required")
		}
		for _, ar := range ir.Actions {
			a, err := actionFromRequest(ctx, r, ar)
			if err != nil {
				return wire.Scenario{}, err
			}
			item.Actions = append(item.Actions, a)
		}
		s.Items = append(s.Items, item)
	}
	for _, ar := range req.Actions {
		a, err := actionFromRequest(ctx, r, ar)
		if err != nil {
			return wire.Scenario{}, err
		}
		s.Actions = append(s.Actions, a)
	}
	return s, nil
}

func registerScenarios(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-scenarios",
		Method:      http.MethodGet,
		Path:        "/scenarios",
		Summary:     "List scenarios",
	}, func(ctx context.Context, _ *struct{}) (*scenarioListBody, error) {
		scenarios, err := r.ListScenarios(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if scenarios == nil {
			scenarios = []wire.Scenario{}
		}
		return &scenarioListBody{Body: scenarios}, nil
	})

	getOne := func(ctx context.Context, in *IDPath) (*scenarioBody, error) {
		s, err := r.GetScenario(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &scenarioBody{Body: s}, nil
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-scenario",
		Method:      http.MethodGet,
		Path:        "/scenarios/{id}",
		Summary:     "Get a scenario",
	}, getOne)

	// Stored scenarios already carry resolved tags and nested parts, so the
	// detailed view is the stored document.
	huma.Register(api, huma.Operation{
		OperationID: "get-scenario-detailed",
		Method:      http.MethodGet,
		Path:        "/scenarios/{id}/detailed",
		Summary:     "Get a scenario with nested details",
	}, getOne)

	huma.Register(api, huma.Operation{
		OperationID:   "create-scenario",
		Method:        http.MethodPost,
		Path:          "/scenarios",
		Summary:       "Create a scenario",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *struct {
		Body wire.ScenarioRequest `json:"body"`
	}) (*scenarioBody, error) {
		s, err := scenarioFromRequest(ctx, r, newID(), in.Body)
		if err != nil {
			return nil, handleError(err)
		}
		if err := r.InsertScenario(ctx, s); err != nil {
			return nil, handleError(err)
		}
		return &scenarioBody{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-scenario",
		Method:      http.MethodPut,
		Path:        "/scenarios/{id}",
		Summary:     "Update a scenario",
	}, func(ctx context.Context, in *struct {
		IDPath
		Body wire.ScenarioRequest `json:"body"`
	}) (*scenarioBody, error) {
		if _, err := r.GetScenario(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		s, err := scenarioFromRequest(ctx, r, in.ID, in.Body)
		if err != nil {
			return nil, handleError(err)
		}
		if err := r.UpdateScenario(ctx, s); err != nil {
			return nil, handleError(err)
		}
		return &scenarioBody{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-scenario",
		Method:        http.MethodDelete,
		Path:          "/scenarios/{id}",
		Summary:       "Delete a scenario",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, in *IDPath) (*struct{}, error) {
		if err := r.DeleteScenario(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
