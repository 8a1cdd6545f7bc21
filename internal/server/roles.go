package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"larplaner/internal/repo"
	"larplaner/internal/wire"
)

type roleBody struct {
	Body wire.Role `json:"body"`
}

type roleListBody struct {
	Body []wire.Role `json:"body"`
}

// roleFromRequest resolves the request's tag id list into stored tags.
func roleFromRequest(ctx context.Context, r repo.Repo, id string, req wire.RoleRequest) (wire.Role, error) {
	if req.Name == "" {
		return wire.Role{}, errors.New("name is required")
	}
	tags, err := resolveTags(ctx, r, req.Tags)
	if err != nil {
		return wire.Role{}, err
	}
	return wire.Role{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Tags:        tags,
	}, nil
}

func registerRoles(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-roles",
		Method:      http.MethodGet,
		Path:        "/roles",
		Summary:     "List roles",
	}, func(ctx context.Context, _ *struct{}) (*roleListBody, error) {
		roles, err := r.ListRoles(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if roles == nil {
			roles = []wire.Role{}
		}
		return &roleListBody{Body: roles}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-role",
		Method:      http.MethodGet,
		Path:        "/roles/{id}",
		Summary:     "Get a role",
	}, func(ctx context.Context, in *IDPath) (*roleBody, error) {
		role, err := r.GetRole(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &roleBody{Body: role}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-role",
		Method:        http.MethodPost,
		Path:          "/roles",
		Summary:       "Create a role",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *struct {
		Body wire.RoleRequest `json:"body"`
	}) (*roleBody, error) {
		role, err := roleFromRequest(ctx, r, newID(), in.Body)
		if err != nil {
			return nil, handleError(err)
		}
		if err := r.InsertRole(ctx, role); err != nil {
			return nil, handleError(err)
		}
		return &roleBody{Body: role}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-role",
		Method:      http.MethodPut,
		Path:        "/roles/{id}",
		Summary:     "Update a role",
	}, func(ctx context.Context, in *struct {
		IDPath
		Body wire.RoleRequest `json:"body"`
	}) (*roleBody, error) {
		if _, err := r.GetRole(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		role, err := roleFromRequest(ctx, r, in.ID, in.Body)
		if err != nil {
			return nil, handleError(err)
		}
		if err := r.UpdateRole(ctx, role); err != nil {
			return nil, handleError(err)
		}
		return &roleBody{Body: role}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-role",
		Method:        http.MethodDelete,
		Path:          "/roles/{id}",
		Summary:       "Delete a role",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, in *IDPath) (*struct{}, error) {
		if err := r.DeleteRole(ctx, in.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
